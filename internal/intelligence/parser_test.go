package intelligence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_CallMomTomorrow(t *testing.T) {
	raw := `{
		"intentDetected": "task",
		"confidenceScore": 0.95,
		"reasoning": "A single action with a date.",
		"suggestions": ["Add a reminder"],
		"draft": {
			"title": "Call mom",
			"description": "",
			"lifeAreaCode": "relationships",
			"priorityQuadrantCode": "Q2",
			"suggestedEpicId": null,
			"suggestedSprintId": "null",
			"dueDate": "2026-10-20",
			"recurring": false
		}
	}`

	parsed := ParseResponse(raw)

	require.Nil(t, parsed.FallbackCause)
	assert.Equal(t, domain.IntentTask, parsed.Intent)
	assert.InDelta(t, 0.95, parsed.Confidence, 1e-9)
	assert.Equal(t, []string{"Add a reminder"}, parsed.Suggestions)

	task, ok := parsed.Draft.(*domain.TaskDraft)
	require.True(t, ok)
	assert.Equal(t, "Call mom", task.Title)
	assert.Equal(t, domain.LifeAreaRelationships, task.LifeAreaCode)
	assert.LessOrEqual(t, task.EffortPoints, 3)
	assert.Nil(t, task.EpicRef)
	assert.Nil(t, task.SprintRef)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-10-20", task.DueDate.String())
}

func TestParseResponse_VariantMatchesIntent(t *testing.T) {
	cases := map[string]domain.Intent{
		"task":      domain.IntentTask,
		"EPIC":      domain.IntentEpic,
		"Challenge": domain.IntentChallenge,
		"event":     domain.IntentEvent,
		"Bill":      domain.IntentBill,
		"note":      domain.IntentNote,
		"reminder":  domain.IntentNote,
	}
	for tag, want := range cases {
		t.Run(tag, func(t *testing.T) {
			parsed := ParseResponse(fmt.Sprintf(`{"intentDetected": %q, "confidenceScore": 0.9, "draft": {}}`, tag))

			require.Nil(t, parsed.FallbackCause)
			assert.Equal(t, want, parsed.Intent)
			assert.Equal(t, want, parsed.Draft.Intent())
		})
	}
}

func TestParseResponse_MalformedFallsBackToNote(t *testing.T) {
	inputs := []string{
		"",
		"I think this is a task",
		`{"intentDetected": "task", "confidenceScore": 0.9, "draft": {"title": "Call`,
		`{"intentDetected": "task", "draft": "Call mom"}`,
		`{"intentDetected": "task", "confidenceScore": 0.9}`,
		`[{"intentDetected": "task"}]`,
		`null`,
	}
	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			var parsed *ParsedResponse
			require.NotPanics(t, func() { parsed = ParseResponse(raw) })

			assert.Error(t, parsed.FallbackCause)
			assert.Equal(t, domain.IntentNote, parsed.Intent)
			assert.Equal(t, FallbackConfidence, parsed.Confidence)

			note, ok := parsed.Draft.(*domain.NoteDraft)
			require.True(t, ok)
			assert.Equal(t, strings.TrimSpace(raw), note.Content)
			assert.Len(t, note.ClarifyingQuestions, 2)
		})
	}
}

func TestParseResponse_FencedJSON(t *testing.T) {
	raw := "```json\n{\"intentDetected\": \"note\", \"confidenceScore\": 0.85, \"draft\": {\"title\": \"Idea\", \"content\": \"Try rust\"}}\n```"

	parsed := ParseResponse(raw)

	require.Nil(t, parsed.FallbackCause)
	note := parsed.Draft.(*domain.NoteDraft)
	assert.Equal(t, "Idea", note.Title)
	assert.Equal(t, "Try rust", note.Content)
}

func TestParseResponse_EnvelopeDefaults(t *testing.T) {
	parsed := ParseResponse(`{"draft": {"content": "something"}}`)

	require.Nil(t, parsed.FallbackCause)
	assert.Equal(t, domain.IntentNote, parsed.Intent)
	assert.Equal(t, 0.5, parsed.Confidence)
	assert.Equal(t, "", parsed.Reasoning)
	assert.NotNil(t, parsed.Suggestions)
	assert.Empty(t, parsed.Suggestions)
	assert.Equal(t, "Untitled Note", domain.DraftTitle(parsed.Draft))
}

func TestParseResponse_ConfidenceClamped(t *testing.T) {
	assert.Equal(t, 1.0, ParseResponse(`{"confidenceScore": 1.7, "draft": {}}`).Confidence)
	assert.Equal(t, 0.0, ParseResponse(`{"confidenceScore": -2, "draft": {}}`).Confidence)
	assert.Equal(t, 0.8, ParseResponse(`{"confidenceScore": "0.8", "draft": {}}`).Confidence)
	assert.Equal(t, 0.8, ParseResponse(`{"confidenceScore": .8, "draft": {}}`).Confidence)
}

func TestExtractTask_Defaults(t *testing.T) {
	task := ParseResponse(`{"intentDetected": "task", "draft": {}}`).Draft.(*domain.TaskDraft)

	assert.Equal(t, "Untitled Task", task.Title)
	assert.Equal(t, 3, task.EffortPoints)
	assert.Equal(t, domain.DefaultLifeArea, task.LifeAreaCode)
	assert.Equal(t, domain.QuadrantImportant, task.PriorityQuadrantCode)
	assert.Nil(t, task.DueDate)
	assert.False(t, task.Recurring)
}

func TestExtractTask_EffortPoints(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`5`, 5},
		{`13`, 13},
		{`4`, 3},
		{`0`, 3},
		{`-2`, 3},
		{`21`, 3},
		{`"8"`, 8},
		{`"large"`, 3},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			task := ParseResponse(`{"intentDetected": "task", "draft": {"effortPoints": ` + tc.raw + `}}`).Draft.(*domain.TaskDraft)
			assert.Equal(t, tc.want, task.EffortPoints)
		})
	}
}

func TestExtractTask_UnparseableOptionalsAreAbsent(t *testing.T) {
	raw := `{"intentDetected": "task", "draft": {
		"title": "Renew passport",
		"dueDate": "sometime soon",
		"suggestedEpicId": "",
		"recurrence": "null",
		"lifeAreaCode": "Admin",
		"priorityQuadrantCode": "q1"
	}}`

	task := ParseResponse(raw).Draft.(*domain.TaskDraft)

	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.EpicRef)
	assert.Nil(t, task.Recurrence)
	assert.Equal(t, domain.DefaultLifeArea, task.LifeAreaCode)
	assert.Equal(t, domain.QuadrantUrgentImportant, task.PriorityQuadrantCode)
}

func TestExtractChallenge_Defaults(t *testing.T) {
	c := ParseResponse(`{"intentDetected": "challenge", "draft": {"name": "Read daily", "graceDays": -1}}`).Draft.(*domain.ChallengeDraft)

	assert.Equal(t, "Read daily", c.Name)
	assert.Equal(t, 30, c.DurationDays)
	assert.Equal(t, 2, c.GraceDays)
	assert.Equal(t, "YESNO", c.MetricType)
	assert.Equal(t, "DAILY", c.RecurrenceFrequency)
	assert.Nil(t, c.TargetValue)
	assert.Nil(t, c.ReminderTime)
}

func TestExtractChallenge_Fields(t *testing.T) {
	raw := `{"intentDetected": "challenge", "draft": {
		"name": "Run", "metricType": "distance", "targetValue": 5, "unit": "km",
		"durationDays": 21, "recurrenceFrequency": "weekly", "graceDays": 0, "reminderTime": "6:45 am"
	}}`

	c := ParseResponse(raw).Draft.(*domain.ChallengeDraft)

	assert.Equal(t, "distance", c.MetricType)
	require.NotNil(t, c.TargetValue)
	assert.Equal(t, 5.0, *c.TargetValue)
	assert.Equal(t, 21, c.DurationDays)
	assert.Equal(t, 0, c.GraceDays)
	require.NotNil(t, c.ReminderTime)
	assert.Equal(t, "06:45", c.ReminderTime.String())
}

func TestExtractBill_AlwaysFinance(t *testing.T) {
	raw := `{"intentDetected": "bill", "draft": {"vendorName": "Gym", "amount": "49.99", "currency": "eur", "lifeAreaCode": "health", "dueDate": "2026-11-01T00:00:00Z"}}`

	bill := ParseResponse(raw).Draft.(*domain.BillDraft)

	assert.Equal(t, domain.LifeAreaFinance, bill.LifeAreaCode)
	assert.Equal(t, "EUR", bill.Currency)
	require.NotNil(t, bill.Amount)
	assert.Equal(t, 49.99, *bill.Amount)
	require.NotNil(t, bill.DueDate)
	assert.Equal(t, "2026-11-01", bill.DueDate.String())
}

func TestExtractBill_Defaults(t *testing.T) {
	bill := ParseResponse(`{"intentDetected": "bill", "draft": {"currency": "dollars"}}`).Draft.(*domain.BillDraft)

	assert.Equal(t, "Unknown Vendor", bill.VendorName)
	assert.Equal(t, "USD", bill.Currency)
	assert.Nil(t, bill.Amount)
	assert.Equal(t, domain.LifeAreaFinance, bill.LifeAreaCode)
}

func TestExtractEvent_DateFromStartTimestamp(t *testing.T) {
	raw := `{"intentDetected": "event", "draft": {"title": "Dentist", "startTime": "2026-10-22T14:30:00", "endTime": "15:00", "attendees": ["Dr. Lee", ""]}}`

	ev := ParseResponse(raw).Draft.(*domain.EventDraft)

	require.NotNil(t, ev.Date)
	assert.Equal(t, "2026-10-22", ev.Date.String())
	require.NotNil(t, ev.StartTime)
	assert.Equal(t, "14:30", ev.StartTime.String())
	require.NotNil(t, ev.EndTime)
	assert.Equal(t, "15:00", ev.EndTime.String())
	assert.Equal(t, []string{"Dr. Lee"}, ev.Attendees)
}

func TestExtractEpic_SuggestedTasksDefaulted(t *testing.T) {
	raw := `{"intentDetected": "epic", "draft": {"title": "Move house", "suggestedTasks": [{"title": "Book movers", "effortPoints": 2}, {}, "junk"]}}`

	epic := ParseResponse(raw).Draft.(*domain.EpicDraft)

	assert.Equal(t, defaultEpicColor, epic.Color)
	require.Len(t, epic.SuggestedTasks, 2)
	assert.Equal(t, "Book movers", epic.SuggestedTasks[0].Title)
	assert.Equal(t, 2, epic.SuggestedTasks[0].EffortPoints)
	assert.Equal(t, "Untitled Task", epic.SuggestedTasks[1].Title)
	assert.Equal(t, 3, epic.SuggestedTasks[1].EffortPoints)
}

func TestParseResponse_ClarificationQuestions(t *testing.T) {
	var qs []string
	for i := 1; i <= 8; i++ {
		qs = append(qs, fmt.Sprintf(`{"id": "q%d", "prompt": "Question %d?", "kind": "text", "field": "description"}`, i, i))
	}
	raw := `{"intentDetected": "task", "confidenceScore": 0.6, "draft": {"title": "x"},
		"clarificationFlow": {"questions": [` + strings.Join(qs, ",") + `]}}`

	parsed := ParseResponse(raw)

	assert.Len(t, parsed.Questions, 8, "the parser keeps every question; the session applies the cap")
}

func TestParseQuestions_Normalization(t *testing.T) {
	raw := `{"intentDetected": "task", "draft": {}, "clarificationFlow": {"questions": [
		{"question": "Which area?", "type": "select", "options": ["health", "career"], "field": "lifeAreaCode", "required": true},
		{"id": "q2", "prompt": "Recurring?", "kind": "boolean", "field": "recurring", "default": "no"},
		{"id": "q2", "prompt": "Pick one", "kind": "single_choice"},
		{"id": "empty", "prompt": ""}
	]}}`

	qs := ParseResponse(raw).Questions

	require.Len(t, qs, 3)
	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, domain.QuestionSingleChoice, qs[0].Kind)
	assert.True(t, qs[0].Required)
	assert.Equal(t, domain.QuestionYesNo, qs[1].Kind)
	require.NotNil(t, qs[1].Default)
	assert.Equal(t, "no", *qs[1].Default)
	assert.Equal(t, "q2-3", qs[2].ID, "duplicate ids are made unique")
	assert.Equal(t, domain.QuestionText, qs[2].Kind, "a choice without options is free text")
}

func TestParseResponse_SuggestedAlternative(t *testing.T) {
	raw := `{
		"intentDetected": "task",
		"confidenceScore": 0.6,
		"reasoning": "Could be a one-off or a habit.",
		"draft": {"title": "Meditate every morning", "lifeAreaCode": "health", "recurring": true},
		"clarificationFlow": {
			"questions": [
				{"id": "q1", "prompt": "How many minutes?", "kind": "number", "field": "targetValue"},
				{"id": "q2", "prompt": "What time?", "kind": "time", "field": "reminderTime"},
				{"id": "q3", "prompt": "Why does this matter?", "kind": "text", "field": "whyStatement"}
			],
			"suggestedAlternative": {
				"intent": "challenge",
				"reason": "Daily repetition fits a habit challenge.",
				"draft": {"metricType": "duration", "unit": "minutes"}
			}
		}
	}`

	parsed := ParseResponse(raw)

	require.NotNil(t, parsed.Alternative)
	assert.Equal(t, domain.IntentChallenge, parsed.Alternative.Intent)
	assert.Equal(t, "Daily repetition fits a habit challenge.", parsed.Alternative.Reason)

	c, ok := parsed.Alternative.Draft.(*domain.ChallengeDraft)
	require.True(t, ok)
	assert.Equal(t, "Meditate every morning", c.Name, "carried over from the primary draft")
	assert.Equal(t, domain.LifeAreaHealth, c.LifeAreaCode)
	assert.Equal(t, "duration", c.MetricType)
	require.NotNil(t, c.Unit)
	assert.Equal(t, "minutes", *c.Unit)
	assert.Len(t, parsed.Questions, 3)
}

func TestParseResponse_AlternativeSameIntentIgnored(t *testing.T) {
	raw := `{"intentDetected": "task", "draft": {}, "suggestedAlternative": {"intent": "task"}}`
	assert.Nil(t, ParseResponse(raw).Alternative)

	raw = `{"intentDetected": "task", "draft": {}, "suggestedAlternative": {"intent": "meeting"}}`
	assert.Nil(t, ParseResponse(raw).Alternative)
}

func TestConvertDraft(t *testing.T) {
	amount := 12.5
	bill := &domain.BillDraft{VendorName: "Netflix", Amount: &amount, Currency: "USD", LifeAreaCode: domain.LifeAreaFinance}

	task, ok := ConvertDraft(bill, domain.IntentTask).(*domain.TaskDraft)
	require.True(t, ok)
	assert.Equal(t, "Netflix", task.Title)
	assert.Equal(t, domain.LifeAreaFinance, task.LifeAreaCode)
	assert.Equal(t, 3, task.EffortPoints)

	note, ok := ConvertDraft(&domain.TaskDraft{Title: "Idea", Description: "details"}, domain.IntentNote).(*domain.NoteDraft)
	require.True(t, ok)
	assert.Equal(t, "Idea", note.Title)
	assert.Equal(t, "details", note.Content)

	back, ok := ConvertDraft(task, domain.IntentBill).(*domain.BillDraft)
	require.True(t, ok)
	assert.Equal(t, "Netflix", back.VendorName)
}
