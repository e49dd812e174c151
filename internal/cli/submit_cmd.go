package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/inbox/internal/cli/formatter"
	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
)

func newSubmitCmd(app *App) *cobra.Command {
	var voice string
	var attachPaths []string

	cmd := &cobra.Command{
		Use:   "submit [text...]",
		Short: "Send text, a voice transcript or files to the model for drafting",
		Example: `  inbox submit "pay rent 1200 eur on the 1st"
  inbox submit --attach receipt.png
  inbox submit --voice "remind me to call mom tomorrow at six"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := intelligence.IntakeInput{
				Text:            strings.Join(args, " "),
				VoiceTranscript: voice,
			}
			for _, p := range attachPaths {
				att, err := readAttachment(p)
				if err != nil {
					return err
				}
				in.Attachments = append(in.Attachments, att)
			}

			ctx := cmd.Context()
			user := userFlag(cmd)

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Drafting...", app.interactive())
			env, err := app.Intake.Submit(ctx, user, in)
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatEnvelope(env, app.now()))
			if !app.interactive() {
				return nil
			}
			return clarifyLoop(ctx, app, out, user, env)
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", "voice transcript to include")
	cmd.Flags().StringArrayVar(&attachPaths, "attach", nil, "file to attach (repeatable)")
	return cmd
}

// clarifyLoop drives an open session to READY with the terminal prompter.
// It stops early when the user aborts or gives no answers.
func clarifyLoop(ctx context.Context, app *App, out io.Writer, user string, env *intelligence.Envelope) error {
	p := app.prompter()
	for env.Status != intelligence.StatusReady && env.ClarificationFlow != nil {
		flow := env.ClarificationFlow

		var err error
		switch env.Status {
		case intelligence.StatusSuggestAlternative:
			var accepted bool
			accepted, err = p.ConfirmAlternative(flow.SuggestedAlternative)
			if err == nil {
				env, err = app.Intake.ConfirmAlternative(ctx, user, flow.SessionID, accepted)
			}
		default:
			var answers []intelligence.Answer
			answers, err = p.AnswerQuestions(unanswered(flow))
			if err == nil && len(answers) == 0 {
				fmt.Fprintf(out, "No answers given. Resume with: inbox clarify answer %s --answer <question>=<value>\n", flow.SessionID)
				return nil
			}
			if err == nil {
				env, err = app.Intake.AnswerClarification(ctx, user, flow.SessionID, answers)
			}
		}
		if errors.Is(err, errPromptAborted) {
			fmt.Fprintf(out, "Session %s left open.\n", flow.SessionID)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatter.FormatEnvelope(env, app.now()))
	}
	return nil
}

func unanswered(flow *intelligence.ClarificationFlow) []domain.Question {
	var qs []domain.Question
	for _, q := range flow.Questions {
		if _, ok := flow.Answers[q.ID]; !ok {
			qs = append(qs, q)
		}
	}
	return qs
}
