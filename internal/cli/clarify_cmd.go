package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/inbox/internal/cli/formatter"
	"github.com/alexanderramin/inbox/internal/intelligence"
)

func newClarifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clarify",
		Short: "Inspect and answer open clarification sessions",
	}

	cmd.AddCommand(
		newClarifyShowCmd(app),
		newClarifyAnswerCmd(app),
		newClarifyAlternativeCmd(app),
	)
	return cmd
}

func newClarifyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session's questions and answers so far",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Intake.GetSession(cmd.Context(), userFlag(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEnvelope(env, app.now()))
			return nil
		},
	}
}

func newClarifyAnswerCmd(app *App) *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "answer <session-id>",
		Short: "Answer one or more questions",
		Example: `  inbox clarify answer 3f2a... --answer q1=2025-06-01 --answer q2="08:30"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := parseAnswerFlags(pairs)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			user := userFlag(cmd)
			out := cmd.OutOrStdout()

			var env *intelligence.Envelope
			if len(answers) == 0 && app.interactive() {
				if env, err = app.Intake.GetSession(ctx, user, args[0]); err != nil {
					return err
				}
				return clarifyLoop(ctx, app, out, user, env)
			}

			env, err = app.Intake.AnswerClarification(ctx, user, args[0], answers)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatEnvelope(env, app.now()))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&pairs, "answer", nil, "question-id=value (repeatable)")
	return cmd
}

// parseAnswerFlags splits "id=value" pairs at the first '='.
func parseAnswerFlags(pairs []string) ([]intelligence.Answer, error) {
	answers := make([]intelligence.Answer, 0, len(pairs))
	for _, p := range pairs {
		id, value, ok := strings.Cut(p, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --answer %q: want question-id=value", p)
		}
		answers = append(answers, intelligence.Answer{QuestionID: id, Value: value})
	}
	return answers, nil
}

func newClarifyAlternativeCmd(app *App) *cobra.Command {
	var accept, decline bool

	cmd := &cobra.Command{
		Use:   "alternative <session-id>",
		Short: "Accept or decline the suggested alternative entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if accept == decline {
				return fmt.Errorf("pass exactly one of --accept or --decline")
			}
			env, err := app.Intake.ConfirmAlternative(cmd.Context(), userFlag(cmd), args[0], accept)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEnvelope(env, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&accept, "accept", false, "convert the draft to the suggested type")
	cmd.Flags().BoolVar(&decline, "decline", false, "keep the original type")
	return cmd
}
