package intelligence

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/llm"
)

const (
	// FallbackConfidence is the score of a draft built from an unreadable reply.
	FallbackConfidence = 0.3

	defaultConfidence   = 0.5
	defaultEffortPoints = 3
	defaultDuration     = 30
	defaultGraceDays    = 2
	defaultCurrency     = "USD"
	defaultEpicColor    = "#6366F1"
	defaultMetric       = "YESNO"
	defaultFrequency    = "DAILY"
)

var fallbackQuestions = []string{
	"What would you like to do with this?",
	"Is this a task, an event, a bill or just a note?",
}

// ParsedResponse is the model reply turned into a typed draft plus its
// envelope metadata.
type ParsedResponse struct {
	Intent      domain.Intent
	Confidence  float64
	Reasoning   string
	Suggestions []string
	Draft       domain.Draft
	Questions   []domain.Question
	Alternative *domain.AlternativeSuggestion

	// FallbackCause is non-nil when the reply could not be read and Draft
	// is the fallback note.
	FallbackCause error
}

// ParseResponse never fails: a reply that is not a usable envelope yields a
// NoteDraft holding the raw text at FallbackConfidence.
func ParseResponse(raw string) *ParsedResponse {
	parsed, err := parseEnvelope(raw)
	if err != nil {
		return FallbackResponse(raw, err)
	}
	return parsed
}

// FallbackResponse wraps raw text in a low-confidence note.
func FallbackResponse(raw string, cause error) *ParsedResponse {
	content := strings.TrimSpace(llm.StripCodeFences(raw))
	if content == "" {
		content = strings.TrimSpace(raw)
	}
	return &ParsedResponse{
		Intent:      domain.IntentNote,
		Confidence:  FallbackConfidence,
		Reasoning:   "The input could not be categorized automatically and was saved as a note.",
		Suggestions: []string{},
		Draft: &domain.NoteDraft{
			Title:               "Untitled Note",
			Content:             content,
			LifeAreaCode:        domain.DefaultLifeArea,
			Tags:                []string{},
			ClarifyingQuestions: append([]string(nil), fallbackQuestions...),
		},
		FallbackCause: cause,
	}
}

var errMissingDraft = errors.New("envelope has no draft object")

func parseEnvelope(raw string) (*ParsedResponse, error) {
	obj, err := llm.ExtractObject(raw)
	if err != nil {
		return nil, err
	}
	env := loose(obj)

	intent, ok := domain.ParseIntent(env.str(string(domain.IntentNote), "intentDetected", "intent"))
	if !ok {
		intent = domain.IntentNote
	}

	body, ok := env.object("draft")
	if !ok {
		if _, present := env.value("draft"); present {
			return nil, fmt.Errorf("%w: draft is not an object", llm.ErrInvalidOutput)
		}
		return nil, errMissingDraft
	}
	draft := extractDraft(intent, body)

	flow := env
	if f, ok := env.object("clarificationFlow"); ok {
		flow = f
	}
	alt := parseAlternative(flow, intent, draft)
	if alt == nil {
		alt = parseAlternative(env, intent, draft)
	}

	return &ParsedResponse{
		Intent:      intent,
		Confidence:  clampUnit(env.optNumber("confidenceScore", "confidence"), defaultConfidence),
		Reasoning:   env.str("", "reasoning"),
		Suggestions: env.strs("suggestions"),
		Draft:       draft,
		Questions:   parseQuestions(flow),
		Alternative: alt,
	}, nil
}

func clampUnit(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return def
	}
	return math.Max(0, math.Min(1, *v))
}

// extractDraft builds the variant for intent from a loose object, applying
// every per-field default. Unknown intents become notes.
func extractDraft(intent domain.Intent, l loose) domain.Draft {
	switch intent {
	case domain.IntentTask:
		return extractTask(l)
	case domain.IntentEpic:
		return extractEpic(l)
	case domain.IntentChallenge:
		return extractChallenge(l)
	case domain.IntentEvent:
		return extractEvent(l)
	case domain.IntentBill:
		return extractBill(l)
	default:
		return extractNote(l)
	}
}

// ConvertDraft re-reads d as another variant. Shared fields carry over
// (title, name and vendor name are interchangeable, as are description and
// content); the rest take target defaults.
func ConvertDraft(d domain.Draft, target domain.Intent) domain.Draft {
	return extractDraft(target, draftFields(d))
}

func lifeArea(l loose) string {
	code := strings.ToLower(l.str("", "lifeAreaCode", "lifeArea"))
	if domain.IsLifeArea(code) {
		return code
	}
	return domain.DefaultLifeArea
}

func quadrant(l loose) string {
	code := strings.ToUpper(l.str("", "priorityQuadrantCode", "priorityQuadrant", "quadrant"))
	if domain.IsQuadrant(code) {
		return code
	}
	return domain.QuadrantImportant
}

// effortPoints keeps values from the effort scale and maps everything else,
// oversized estimates included, to the default.
func effortPoints(l loose) int {
	n := l.intOr(defaultEffortPoints, "effortPoints", "effort", "storyPoints")
	if !domain.ValidEffortPoints[n] {
		return defaultEffortPoints
	}
	return n
}

func extractTask(l loose) *domain.TaskDraft {
	return &domain.TaskDraft{
		Title:                l.str("Untitled Task", "title", "name", "vendorName"),
		Description:          l.str("", "description", "content", "notes"),
		LifeAreaCode:         lifeArea(l),
		PriorityQuadrantCode: quadrant(l),
		EffortPoints:         effortPoints(l),
		EpicRef:              l.optStr("suggestedEpicId", "epicRef", "epicId"),
		SprintRef:            l.optStr("suggestedSprintId", "sprintRef", "sprintId"),
		DueDate:              l.date("dueDate", "date"),
		Recurring:            l.boolOr(false, "recurring", "isRecurring"),
		Recurrence:           l.optStr("recurrence", "recurrencePattern"),
	}
}

func extractEpic(l loose) *domain.EpicDraft {
	tasks := []domain.TaskDraft{}
	for _, t := range l.objects("suggestedTasks", "tasks") {
		tasks = append(tasks, *extractTask(t))
	}
	return &domain.EpicDraft{
		Title:          l.str("Untitled Epic", "title", "name", "vendorName"),
		Description:    l.str("", "description", "content", "notes"),
		LifeAreaCode:   lifeArea(l),
		SuggestedTasks: tasks,
		Color:          l.str(defaultEpicColor, "color"),
		Icon:           l.optStr("icon"),
		StartDate:      l.date("startDate"),
		EndDate:        l.date("endDate", "dueDate"),
	}
}

func extractChallenge(l loose) *domain.ChallengeDraft {
	duration := l.intOr(defaultDuration, "durationDays", "duration")
	if duration <= 0 {
		duration = defaultDuration
	}
	grace := l.intOr(defaultGraceDays, "graceDays")
	if grace < 0 {
		grace = defaultGraceDays
	}
	return &domain.ChallengeDraft{
		Name:                l.str("Untitled Challenge", "name", "title", "vendorName"),
		Description:         l.str("", "description", "content", "notes"),
		LifeAreaCode:        lifeArea(l),
		MetricType:          l.str(defaultMetric, "metricType", "metric"),
		TargetValue:         l.optNumber("targetValue", "target"),
		Unit:                l.optStr("unit"),
		DurationDays:        duration,
		RecurrenceFrequency: l.str(defaultFrequency, "recurrenceFrequency", "frequency", "recurrence"),
		WhyStatement:        l.optStr("whyStatement", "why"),
		RewardDescription:   l.optStr("rewardDescription", "reward"),
		GraceDays:           grace,
		ReminderTime:        l.clock("reminderTime", "reminder"),
	}
}

func extractEvent(l loose) *domain.EventDraft {
	date := l.date("date", "dueDate", "startDate")
	if date == nil {
		// A full timestamp in startTime also pins the day.
		date = l.date("startTime")
	}
	return &domain.EventDraft{
		Title:        l.str("Untitled Event", "title", "name", "vendorName"),
		Description:  l.str("", "description", "content", "notes"),
		LifeAreaCode: lifeArea(l),
		Date:         date,
		StartTime:    l.clock("startTime", "time"),
		EndTime:      l.clock("endTime"),
		Location:     l.optStr("location"),
		AllDay:       l.boolOr(false, "allDay"),
		Recurrence:   l.optStr("recurrence"),
		Attendees:    l.strs("attendees"),
	}
}

// extractBill pins the life area to finance whatever the model said.
func extractBill(l loose) *domain.BillDraft {
	currency := strings.ToUpper(l.str(defaultCurrency, "currency"))
	if len(currency) != 3 {
		currency = defaultCurrency
	}
	return &domain.BillDraft{
		VendorName:   l.str("Unknown Vendor", "vendorName", "vendor", "payee", "title", "name"),
		Amount:       l.optNumber("amount", "total"),
		Currency:     currency,
		DueDate:      l.date("dueDate", "date"),
		Category:     l.optStr("category"),
		LifeAreaCode: domain.LifeAreaFinance,
		Recurring:    l.boolOr(false, "recurring", "isRecurring"),
		Recurrence:   l.optStr("recurrence"),
		Notes:        l.optStr("notes", "description", "content"),
	}
}

func extractNote(l loose) *domain.NoteDraft {
	return &domain.NoteDraft{
		Title:               l.str("Untitled Note", "title", "name", "vendorName"),
		Content:             l.str("", "content", "description", "notes", "text"),
		LifeAreaCode:        lifeArea(l),
		Tags:                l.strs("tags"),
		ClarifyingQuestions: l.strs("clarifyingQuestions"),
	}
}

func parseQuestions(l loose) []domain.Question {
	var out []domain.Question
	seen := map[string]bool{}
	for i, q := range l.objects("questions") {
		prompt := q.str("", "prompt", "question", "text", "label")
		if prompt == "" {
			continue
		}
		id := q.str(fmt.Sprintf("q%d", i+1), "id")
		if seen[id] {
			id = fmt.Sprintf("%s-%d", id, i+1)
		}
		seen[id] = true

		options := q.strs("options", "choices")
		kind := questionKind(q.str("", "kind", "type", "inputType"))
		if kind == domain.QuestionSingleChoice && len(options) == 0 {
			kind = domain.QuestionText
		}
		out = append(out, domain.Question{
			ID:       id,
			Prompt:   prompt,
			Kind:     kind,
			Options:  options,
			Field:    q.str("", "field", "targetField"),
			Required: q.boolOr(false, "required"),
			Default:  q.optStr("default", "defaultValue"),
		})
	}
	return out
}

func questionKind(s string) domain.QuestionKind {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "single_choice", "choice", "select", "multiple_choice", "radio":
		return domain.QuestionSingleChoice
	case "yes_no", "yesno", "boolean", "bool", "confirm":
		return domain.QuestionYesNo
	case "number", "numeric", "integer":
		return domain.QuestionNumber
	case "date":
		return domain.QuestionDate
	case "time":
		return domain.QuestionTime
	default:
		return domain.QuestionText
	}
}

// parseAlternative reads a suggested different intent. A partial alternative
// draft is layered over the primary draft's fields.
func parseAlternative(l loose, primary domain.Intent, primaryDraft domain.Draft) *domain.AlternativeSuggestion {
	alt, ok := l.object("suggestedAlternative", "alternative")
	if !ok {
		return nil
	}
	intent, ok := domain.ParseIntent(alt.str("", "intent", "intentDetected", "type"))
	if !ok || intent == primary {
		return nil
	}
	fields := draftFields(primaryDraft)
	if body, ok := alt.object("draft"); ok {
		fields = fields.overlay(body)
	}
	return &domain.AlternativeSuggestion{
		Intent: intent,
		Reason: alt.str("", "reason", "reasoning"),
		Draft:  extractDraft(intent, fields),
	}
}
