package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/inbox/internal/cli/formatter"
)

func newGCCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Expire stale drafts and purge idle clarification sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Drafts.GC(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGC(res))
			return nil
		},
	}
}
