package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/inbox/internal/cli/formatter"
	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/service"
)

func newDraftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "draft",
		Aliases: []string{"drafts"},
		Short:   "Review pending drafts and decide what gets created",
	}

	cmd.AddCommand(
		newDraftListCmd(app),
		newDraftShowCmd(app),
		newDraftDecisionCmd(app, domain.ActionApprove, "approve", "Create the entity from a pending draft"),
		newDraftDecisionCmd(app, domain.ActionReject, "reject", "Discard a pending draft"),
		newDraftModifyCmd(app),
	)
	return cmd
}

func newDraftListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending drafts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			envs, err := app.Drafts.ListPending(cmd.Context(), userFlag(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPendingList(envs, app.now()))
			return nil
		},
	}
}

func newDraftShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <draft-id>",
		Short: "Show one draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Drafts.Get(cmd.Context(), userFlag(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEnvelope(env, app.now()))
			return nil
		},
	}
}

func newDraftDecisionCmd(app *App, action domain.DecisionAction, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <draft-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Drafts.Decide(cmd.Context(), userFlag(cmd), service.DecisionRequest{
				DraftID: args[0],
				Action:  action,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDecision(res))
			return nil
		},
	}
}

func newDraftModifyCmd(app *App) *cobra.Command {
	var (
		file   string
		intent intentValue
	)

	cmd := &cobra.Command{
		Use:   "modify <draft-id> --file draft.json",
		Short: "Replace a draft's fields and create the entity",
		Long: `Reads a JSON draft from --file ("-" for stdin) and approves it in place
of the model's draft. --intent switches the entity type; by default the
draft keeps its detected type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			raw, err := readDraftFile(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			user := userFlag(cmd)

			target := domain.Intent(intent)
			if target == "" {
				current, err := app.Drafts.Get(ctx, user, args[0])
				if err != nil {
					return err
				}
				target = current.IntentDetected
			}

			draft, err := domain.DecodeDraft(target, string(raw))
			if err != nil {
				return err
			}

			res, err := app.Drafts.Decide(ctx, user, service.DecisionRequest{
				DraftID:       args[0],
				Action:        domain.ActionModify,
				ModifiedDraft: draft,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDecision(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the modified draft JSON, or - for stdin")
	cmd.Flags().Var(&intent, "intent", "entity type of the modified draft (task, epic, challenge, event, bill, note)")
	return cmd
}

// intentValue rejects unknown entity types at flag parse time.
type intentValue domain.Intent

var _ pflag.Value = (*intentValue)(nil)

func (v *intentValue) String() string { return string(*v) }

func (v *intentValue) Set(s string) error {
	intent, ok := domain.ParseIntent(s)
	if !ok {
		return fmt.Errorf("unknown intent %q", s)
	}
	*v = intentValue(intent)
	return nil
}

func (*intentValue) Type() string { return "intent" }

func readDraftFile(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}
	return data, nil
}
