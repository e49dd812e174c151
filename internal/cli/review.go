package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/inbox/internal/cli/formatter"
	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/service"
)

func newReviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Step through pending drafts and approve or reject them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("review needs an interactive terminal; use 'inbox draft list' instead")
			}
			m := newReviewModel(cmd.Context(), app.Drafts, userFlag(cmd), app.now)
			_, err := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}

// reviewLoadedMsg carries a fresh copy of the pending queue.
type reviewLoadedMsg struct {
	envs []*intelligence.Envelope
	err  error
}

// reviewDecidedMsg reports the outcome of approve or reject.
type reviewDecidedMsg struct {
	res *service.DecisionResult
	err error
}

type reviewKeys struct {
	Up, Down, Approve, Reject, Details, Refresh, Quit key.Binding
}

func (k reviewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Approve, k.Reject, k.Details, k.Refresh, k.Quit}
}

func (k reviewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

func defaultReviewKeys() reviewKeys {
	return reviewKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Approve: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
		Reject:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
		Details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// reviewModel is a one-screen approval queue over DraftService.
type reviewModel struct {
	ctx    context.Context
	drafts service.DraftService
	user   string
	now    func() time.Time

	envs     []*intelligence.Envelope
	cursor   int
	expanded bool
	busy     bool
	status   string
	err      error

	spinner spinner.Model
	help    help.Model
	keys    reviewKeys
}

func newReviewModel(ctx context.Context, drafts service.DraftService, user string, now func() time.Time) *reviewModel {
	return &reviewModel{
		ctx:     ctx,
		drafts:  drafts,
		user:    user,
		now:     now,
		busy:    true,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(formatter.StylePurple)),
		help:    help.New(),
		keys:    defaultReviewKeys(),
	}
}

func (m *reviewModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

func (m *reviewModel) load() tea.Cmd {
	return func() tea.Msg {
		envs, err := m.drafts.ListPending(m.ctx, m.user)
		return reviewLoadedMsg{envs: envs, err: err}
	}
}

func (m *reviewModel) decide(draftID string, action domain.DecisionAction) tea.Cmd {
	return func() tea.Msg {
		res, err := m.drafts.Decide(m.ctx, m.user, service.DecisionRequest{DraftID: draftID, Action: action})
		return reviewDecidedMsg{res: res, err: err}
	}
}

func (m *reviewModel) selected() *intelligence.Envelope {
	if m.cursor < 0 || m.cursor >= len(m.envs) {
		return nil
	}
	return m.envs[m.cursor]
}

func (m *reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reviewLoadedMsg:
		m.busy = false
		m.err = msg.err
		m.envs = msg.envs
		if m.cursor >= len(m.envs) {
			m.cursor = max(len(m.envs)-1, 0)
		}
		return m, nil

	case reviewDecidedMsg:
		m.status = decisionStatus(msg.res, msg.err)
		m.expanded = false
		return m, m.load()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.envs)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Details):
			m.expanded = !m.expanded
		case key.Matches(msg, m.keys.Refresh):
			return m, m.startBusy(m.load())
		case key.Matches(msg, m.keys.Approve), key.Matches(msg, m.keys.Reject):
			env := m.selected()
			if env == nil || env.DraftID == nil {
				return m, nil
			}
			action := domain.ActionApprove
			if key.Matches(msg, m.keys.Reject) {
				action = domain.ActionReject
			}
			return m, m.startBusy(m.decide(*env.DraftID, action))
		}
	}
	return m, nil
}

func (m *reviewModel) startBusy(cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.status = ""
	return tea.Batch(cmd, m.spinner.Tick)
}

func decisionStatus(res *service.DecisionResult, err error) string {
	var processed *service.AlreadyProcessedError
	switch {
	case errors.As(err, &processed):
		return formatter.StyleYellow.Render(fmt.Sprintf("Draft %s was already %s.", formatter.TruncID(processed.DraftID), strings.ToLower(string(processed.Status))))
	case errors.Is(err, service.ErrDraftExpired):
		return formatter.StyleYellow.Render("Draft expired before it was decided.")
	case err != nil:
		return formatter.StyleRed.Render("Error: " + err.Error())
	case res.Status == domain.DraftRejected:
		return formatter.Dim("Rejected " + formatter.TruncID(res.DraftID) + ".")
	case res.CreatedEntityID != nil:
		return formatter.StyleGreen.Render(fmt.Sprintf("Approved. Created %s %s.", res.EntityType, *res.CreatedEntityID))
	default:
		return formatter.StyleGreen.Render("Approved.")
	}
}

func (m *reviewModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header(fmt.Sprintf("Review queue (%d)", len(m.envs))) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case len(m.envs) == 0 && !m.busy:
		b.WriteString(formatter.Dim("No drafts awaiting approval.") + "\n")
	}

	now := m.now()
	for i, env := range m.envs {
		marker := "  "
		if i == m.cursor {
			marker = formatter.StyleHeader.Render("› ")
		}
		expires := ""
		if env.ExpiresAt != nil {
			expires = formatter.Dim("expires " + formatter.ExpiresIn(*env.ExpiresAt, now))
		}
		b.WriteString(fmt.Sprintf("%s%-10s %s  %s  %s\n", marker,
			formatter.IntentLabel(env.IntentDetected),
			domain.DraftTitle(env.Draft),
			formatter.Dim(fmt.Sprintf("%.0f%%", env.ConfidenceScore*100)),
			expires))

		if i == m.cursor && m.expanded {
			b.WriteString(indent(formatter.RenderFields(formatter.DraftFields(env.Draft)), "    "))
			if env.Reasoning != "" {
				b.WriteString("    " + formatter.Dim(env.Reasoning) + "\n")
			}
		}
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " " + formatter.Dim("Working...") + "\n")
	} else if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(m.help.View(m.keys) + "\n")
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
