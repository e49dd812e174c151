package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/service"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI keeps assertions terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }
func datePtr(s string) *domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func TestFormatEnvelope_StoredDraft(t *testing.T) {
	status := domain.DraftPendingApproval
	expires := now.Add(23 * time.Hour)
	env := &intelligence.Envelope{
		Status:          intelligence.StatusReady,
		IntentDetected:  domain.IntentTask,
		ConfidenceScore: 0.95,
		Draft: &domain.TaskDraft{
			Title:                "Call mom",
			LifeAreaCode:         "relationships",
			PriorityQuadrantCode: "Q2",
			EffortPoints:         1,
			DueDate:              datePtr("2026-10-20"),
		},
		Reasoning:   "A single phone call with a date.",
		Suggestions: []string{"Add a reminder the evening before"},
		DraftID:     strPtr("draft-123"),
		DraftStatus: &status,
		ExpiresAt:   &expires,
	}

	out := stripANSI(FormatEnvelope(env, now))

	for _, want := range []string{
		"● READY", "TASK", "95%", "draft-123", "◷ Pending", "in 23h",
		"Call mom", "Relationships", "Q2", "2026-10-20",
		"A single phone call", "Add a reminder",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "CLARIFICATION")
}

func TestFormatEnvelope_OpenSession(t *testing.T) {
	env := &intelligence.Envelope{
		Status:          intelligence.StatusSuggestAlternative,
		IntentDetected:  domain.IntentTask,
		ConfidenceScore: 0.6,
		Draft:           &domain.TaskDraft{Title: "Meditate every morning", Recurring: true},
		Suggestions:     []string{},
		ClarificationFlow: &intelligence.ClarificationFlow{
			SessionID: "sess-1",
			Questions: []domain.Question{
				{ID: "q1", Prompt: "How many minutes?", Kind: domain.QuestionNumber, Required: true},
				{ID: "q2", Prompt: "Which area?", Kind: domain.QuestionSingleChoice, Options: []string{"health", "growth"}},
				{ID: "q3", Prompt: "Remind you?", Kind: domain.QuestionYesNo, Default: strPtr("yes")},
			},
			Answers:        map[string]string{"q1": "10"},
			QuestionsAsked: 1,
			MaxQuestions:   3,
			SuggestedAlternative: &intelligence.AlternativeView{
				Intent: domain.IntentChallenge,
				Reason: "Daily repetition fits a habit challenge.",
			},
			ExpiresAt: now.Add(24 * time.Hour),
		},
	}

	out := stripANSI(FormatEnvelope(env, now))

	assert.Contains(t, out, "⇄ SUGGEST ALTERNATIVE")
	assert.Contains(t, out, "sess-1")
	assert.Contains(t, out, "1/3 asked")
	assert.Contains(t, out, "better as a CHALLENGE")
	assert.Contains(t, out, "Daily repetition")
	assert.Contains(t, out, "✔ [q1] How many minutes? *")
	assert.Contains(t, out, "1) health  2) growth")
	assert.Contains(t, out, "yes/no  default yes")
	assert.Contains(t, out, "Repeats")
}

func TestFormatClarification_DecidedAlternative(t *testing.T) {
	accepted, declined := true, false
	flow := &intelligence.ClarificationFlow{
		SessionID:            "s",
		MaxQuestions:         3,
		SuggestedAlternative: &intelligence.AlternativeView{Intent: domain.IntentChallenge},
		ExpiresAt:            now.Add(-time.Hour),
	}

	flow.AlternativeAccepted = &accepted
	assert.Contains(t, stripANSI(FormatClarification(flow, now)), "Converted to challenge")

	flow.AlternativeAccepted = &declined
	out := stripANSI(FormatClarification(flow, now))
	assert.Contains(t, out, "challenge declined")
	assert.Contains(t, out, "expired 1h ago")
}

func TestDraftFields(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.Draft
		want  [][2]string
	}{
		{
			name: "challenge target with unit",
			draft: &domain.ChallengeDraft{
				Name: "Meditate", LifeAreaCode: "health", MetricType: "duration",
				TargetValue: floatPtr(10), Unit: strPtr("minutes"),
				RecurrenceFrequency: "daily", DurationDays: 30,
			},
			want: [][2]string{
				{"Area", "Health"}, {"Metric", "duration"}, {"Target", "10 minutes"},
				{"Frequency", "daily"}, {"Days", "30"},
			},
		},
		{
			name:  "bill amount and recurrence",
			draft: &domain.BillDraft{VendorName: "City Power", Amount: floatPtr(84.2), Currency: "EUR", Recurring: true},
			want:  [][2]string{{"Amount", "84.20 EUR"}, {"Repeats", "yes"}},
		},
		{
			name:  "note tags sorted",
			draft: &domain.NoteDraft{Title: "n", LifeAreaCode: "growth", Tags: []string{"b", "a"}, Content: "text"},
			want:  [][2]string{{"Area", "Growth"}, {"Tags", "a, b"}, {"Content", "text"}},
		},
		{
			name:  "event all day",
			draft: &domain.EventDraft{Title: "Offsite", Date: datePtr("2026-11-02"), AllDay: true},
			want:  [][2]string{{"Area", "--"}, {"Date", "2026-11-02"}, {"Time", "all day"}},
		},
		{
			name:  "epic lists suggested tasks",
			draft: &domain.EpicDraft{Title: "Move", SuggestedTasks: []domain.TaskDraft{{Title: "Pack"}, {Title: "Book van"}}},
			want:  [][2]string{{"Area", "--"}, {"Task 1", "Pack"}, {"Task 2", "Book van"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DraftFields(tt.draft)
			for i := range got {
				got[i][1] = stripANSI(got[i][1])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPendingList(t *testing.T) {
	assert.Contains(t, stripANSI(FormatPendingList(nil, now)), "No drafts awaiting approval")

	expires := now.Add(30 * time.Minute)
	out := stripANSI(FormatPendingList([]*intelligence.Envelope{{
		IntentDetected:  domain.IntentBill,
		ConfidenceScore: 0.9,
		Draft:           &domain.BillDraft{VendorName: "City Power"},
		DraftID:         strPtr("0123456789abcdef"),
		ExpiresAt:       &expires,
	}}, now))

	assert.Contains(t, out, "PENDING DRAFTS (1)")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "89abcdef")
	assert.Contains(t, out, "City Power")
	assert.Contains(t, out, "90%")
	assert.Contains(t, out, "in 30m")
}

func TestFormatDecision(t *testing.T) {
	out := stripANSI(FormatDecision(&service.DecisionResult{
		DraftID: "d1", Status: domain.DraftApproved, CreatedEntityID: strPtr("task-9"), EntityType: domain.IntentTask,
	}))
	assert.Contains(t, out, "Draft approved.")
	assert.Contains(t, out, "TASK task-9")

	out = stripANSI(FormatDecision(&service.DecisionResult{DraftID: "d1", Status: domain.DraftRejected}))
	assert.Contains(t, out, "Nothing was created")
	assert.NotContains(t, out, "ENTITY")
}

func TestFormatGC(t *testing.T) {
	out := stripANSI(FormatGC(&service.GCResult{ExpiredDrafts: 3, PurgedSessions: 1}))
	assert.Equal(t, "Expired 3 drafts, purged 1 sessions.\n", out)
}

func TestRenderConfidence(t *testing.T) {
	assert.Equal(t, "[██████████] 100%", stripANSI(RenderConfidence(1.7, 10)))
	assert.Equal(t, "[░░]   0%", stripANSI(RenderConfidence(-1, 1)))
	assert.Equal(t, "[████░░░░░░]  45%", stripANSI(RenderConfidence(0.45, 10)))
}

func TestRenderQuestionBudget(t *testing.T) {
	assert.Equal(t, "●●○ 2/3 asked", stripANSI(RenderQuestionBudget(2, 3)))
	assert.Equal(t, "●●● 3/3 asked", stripANSI(RenderQuestionBudget(7, 3)))
	assert.Equal(t, "no questions", stripANSI(RenderQuestionBudget(0, 0)))
}

func TestExpiresIn(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "in <1m"},
		{45 * time.Minute, "in 45m"},
		{26 * time.Hour, "in 26h"},
		{72 * time.Hour, "in 3d"},
		{-2 * time.Hour, "expired 2h ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripANSI(ExpiresIn(now.Add(tt.in), now)))
	}
}

func TestRelativeDateFrom(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"ID", "TITLE"},
		[][]string{{StyleDim.Render("a1"), "Call mom"}, {"abcdef", "x"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	col := strings.Index(lines[0], "TITLE")
	assert.Equal(t, col, strings.Index(lines[2], "Call mom"))
	assert.Equal(t, col, strings.Index(lines[3], "x"))
	assert.Empty(t, RenderTable(nil, nil))
}
