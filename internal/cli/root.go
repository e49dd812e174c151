package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/inbox/internal/service"
)

// App holds the services and process hooks CLI commands run against.
type App struct {
	Intake service.IntakeService
	Drafts service.DraftService

	// User is the default identity for --user.
	User string
	// Serve runs the HTTP API until ctx is cancelled. Nil disables "serve".
	Serve func(ctx context.Context, addr string) error
	Addr  string

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	Prompter      Prompter
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) prompter() Prompter {
	if a.Prompter != nil {
		return a.Prompter
	}
	return huhPrompter{}
}

// NewRootCmd creates the top-level "inbox" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "inbox",
		Short:         "Capture anything, let the model draft it, approve what gets created",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("user", app.User, "identity the drafts belong to (INBOX_USER)")

	root.AddCommand(
		newSubmitCmd(app),
		newClarifyCmd(app),
		newDraftCmd(app),
		newGCCmd(app),
		newReviewCmd(app),
		newServeCmd(app),
	)
	return root
}

func userFlag(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("user")
	return u
}
