package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/inbox/internal/cli/formatter"
	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
)

// Prompter collects clarification input from a person at a terminal.
type Prompter interface {
	ConfirmAlternative(alt *intelligence.AlternativeView) (bool, error)
	// AnswerQuestions returns one answer per question the user filled in;
	// skipped optional questions are omitted.
	AnswerQuestions(questions []domain.Question) ([]intelligence.Answer, error)
}

// errPromptAborted is returned when the user leaves a form with Esc or Ctrl+C.
var errPromptAborted = errors.New("prompt aborted")

const skipOption = "(skip)"

type huhPrompter struct{}

func (huhPrompter) ConfirmAlternative(alt *intelligence.AlternativeView) (bool, error) {
	accepted := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Save this as a %s instead?", alt.Intent)).
				Description(alt.Reason).
				Affirmative("Convert").
				Negative("Keep original").
				Value(&accepted),
		),
	).WithTheme(inboxHuhTheme()).WithShowHelp(false)
	if err := runForm(form); err != nil {
		return false, err
	}
	return accepted, nil
}

func (huhPrompter) AnswerQuestions(questions []domain.Question) ([]intelligence.Answer, error) {
	values := make([]string, len(questions))
	fields := make([]huh.Field, 0, len(questions))
	for i, q := range questions {
		if q.Default != nil {
			values[i] = *q.Default
		}
		fields = append(fields, questionField(q, &values[i]))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(inboxHuhTheme()).WithShowHelp(false)
	if err := runForm(form); err != nil {
		return nil, err
	}
	return collectAnswers(questions, values), nil
}

func runForm(form *huh.Form) error {
	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errPromptAborted
	}
	return err
}

// questionField picks the huh widget for a question kind.
func questionField(q domain.Question, value *string) huh.Field {
	title := q.Prompt
	if q.Required {
		title += " *"
	}

	switch q.Kind {
	case domain.QuestionSingleChoice, domain.QuestionYesNo:
		opts := q.Options
		if q.Kind == domain.QuestionYesNo {
			opts = []string{"yes", "no"}
		}
		if !q.Required {
			opts = append([]string{skipOption}, opts...)
		}
		return huh.NewSelect[string]().
			Title(title).
			Options(huh.NewOptions(opts...)...).
			Value(value)
	}

	placeholder, validate := inputRules(q.Kind)
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				if q.Required {
					return fmt.Errorf("an answer is required")
				}
				return nil
			}
			return validate(s)
		})
}

func inputRules(kind domain.QuestionKind) (string, func(string) error) {
	switch kind {
	case domain.QuestionNumber:
		return "10", validateNumber
	case domain.QuestionDate:
		return time.Now().Format("2006-01-02"), validateDate
	case domain.QuestionTime:
		return "07:30", validateClock
	default:
		return "", func(string) error { return nil }
	}
}

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateClock(s string) error {
	if _, err := domain.ParseClock(s); err != nil {
		return fmt.Errorf("use HH:MM format")
	}
	return nil
}

// collectAnswers drops blank and skipped values.
func collectAnswers(questions []domain.Question, values []string) []intelligence.Answer {
	var answers []intelligence.Answer
	for i, q := range questions {
		v := strings.TrimSpace(values[i])
		if v == "" || v == skipOption {
			continue
		}
		answers = append(answers, intelligence.Answer{QuestionID: q.ID, Value: v})
	}
	return answers
}

// inboxHuhTheme styles huh forms with the formatter palette.
func inboxHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
