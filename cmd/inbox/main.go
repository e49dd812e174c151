package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/inbox/internal/app"
	"github.com/alexanderramin/inbox/internal/cli"
	"github.com/alexanderramin/inbox/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	a, err := app.New(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	cliApp := &cli.App{
		Intake: a.Intake,
		Drafts: a.Drafts,
		User:   cfg.User,
		Serve:  a.Serve,
		Addr:   cfg.Addr,
	}

	// Prompts and spinners only when a person is at the terminal.
	cliApp.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(cliApp).Execute()
}
