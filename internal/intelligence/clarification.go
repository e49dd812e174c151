package intelligence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/inbox/internal/domain"
)

const (
	MinQuestionCap = 3
	MaxQuestionCap = 5
)

// ClampMaxQuestions keeps a configured question cap within [3, 5].
func ClampMaxQuestions(n int) int {
	if n < MinQuestionCap {
		return MinQuestionCap
	}
	if n > MaxQuestionCap {
		return MaxQuestionCap
	}
	return n
}

// Answer is one reply to a clarification question.
type Answer struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// SessionSeed carries the request metadata a session keeps for the
// PendingDraft it eventually becomes.
type SessionSeed struct {
	ID              string
	UserID          string
	InputText       string
	VoiceTranscript *string
	AttachmentCount int
}

// NewSession opens a clarification session for a parsed reply. Questions
// beyond maxQuestions (clamped to [3, 5]) are dropped.
func NewSession(seed SessionSeed, parsed *ParsedResponse, maxQuestions int, now time.Time, idleTTL time.Duration) *domain.ClarificationSession {
	maxQuestions = ClampMaxQuestions(maxQuestions)
	questions := parsed.Questions
	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return &domain.ClarificationSession{
		ID:              seed.ID,
		UserID:          seed.UserID,
		OriginalIntent:  parsed.Intent,
		Draft:           parsed.Draft,
		Alternative:     parsed.Alternative,
		Questions:       append([]domain.Question{}, questions...),
		Answers:         map[string]string{},
		MaxQuestions:    maxQuestions,
		Confidence:      parsed.Confidence,
		Reasoning:       parsed.Reasoning,
		Suggestions:     parsed.Suggestions,
		InputText:       seed.InputText,
		VoiceTranscript: seed.VoiceTranscript,
		AttachmentCount: seed.AttachmentCount,
		CreatedAt:       now,
		UpdatedAt:       now,
		ExpiresAt:       now.Add(idleTTL),
	}
}

// ApplyAnswers validates every answer, then merges them into the session and
// writes each into the draft field its question names. Nothing is changed
// if any answer is rejected.
func ApplyAnswers(s *domain.ClarificationSession, answers []Answer, now time.Time) error {
	type accepted struct {
		q       domain.Question
		display string
		value   any
	}
	var valid []accepted
	for _, a := range answers {
		q, ok := s.Question(a.QuestionID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownQuestion, a.QuestionID)
		}
		display, value, err := coerceAnswer(q, a.Value, now)
		if err != nil {
			return err
		}
		valid = append(valid, accepted{q: q, display: display, value: value})
	}

	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	for _, a := range valid {
		if _, answered := s.Answers[a.q.ID]; !answered {
			s.QuestionsAsked++
		}
		s.Answers[a.q.ID] = a.display
		if a.q.Field == "" || a.value == nil {
			continue
		}
		s.Draft = setDraftField(s.Draft, a.q.Field, a.value)
		if s.Alternative != nil {
			s.Alternative.Draft = setDraftField(s.Alternative.Draft, a.q.Field, a.value)
		}
	}
	return nil
}

// DecideAlternative records the user's choice on the suggested alternative.
// Declining keeps the originally detected intent and its draft.
func DecideAlternative(s *domain.ClarificationSession, accepted bool) error {
	if s.Alternative == nil {
		return ErrNoAlternative
	}
	if s.AlternativeDecision != domain.AlternativeUnset {
		return fmt.Errorf("%w: %s", ErrAlternativeDecided, s.AlternativeDecision)
	}
	if accepted {
		s.AlternativeDecision = domain.AlternativeAccepted
	} else {
		s.AlternativeDecision = domain.AlternativeRejected
	}
	return nil
}

// AwaitingAlternative reports whether a suggested alternative still needs a
// decision.
func AwaitingAlternative(s *domain.ClarificationSession) bool {
	return s.Alternative != nil && s.AlternativeDecision == domain.AlternativeUnset
}

// SessionReady reports whether the session can become a pending draft:
// the questions are done (every one answered, the cap reached, or all
// required ones answered after at least one round) and no alternative is
// waiting for a decision.
func SessionReady(s *domain.ClarificationSession) bool {
	if AwaitingAlternative(s) {
		return false
	}
	if s.BudgetExhausted() || len(s.Answers) >= len(s.Questions) {
		return true
	}
	return s.QuestionsAsked > 0 && s.RequiredAnswered()
}

// FinalDraft is the draft the session resolves to.
func FinalDraft(s *domain.ClarificationSession) domain.Draft {
	if s.Alternative != nil && s.AlternativeDecision == domain.AlternativeAccepted {
		return s.Alternative.Draft
	}
	return s.Draft
}

func coerceAnswer(q domain.Question, raw string, now time.Time) (string, any, error) {
	value := strings.TrimSpace(raw)
	if value == "" && q.Default != nil {
		value = strings.TrimSpace(*q.Default)
	}
	if value == "" {
		if q.Required {
			return "", nil, fmt.Errorf("%w: %s requires an answer", ErrInvalidAnswer, q.ID)
		}
		return "", nil, nil
	}

	invalid := func(want string) error {
		return fmt.Errorf("%w: %s expects %s, got %q", ErrInvalidAnswer, q.ID, want, value)
	}

	switch q.Kind {
	case domain.QuestionYesNo:
		b, ok := parseYesNo(value)
		if !ok {
			return "", nil, invalid("yes or no")
		}
		if b {
			return "yes", true, nil
		}
		return "no", false, nil
	case domain.QuestionNumber:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", nil, invalid("a number")
		}
		return strconv.FormatFloat(f, 'f', -1, 64), f, nil
	case domain.QuestionDate:
		d, ok := parseAnswerDate(value, now)
		if !ok {
			return "", nil, invalid("a date (YYYY-MM-DD)")
		}
		return d.String(), d.String(), nil
	case domain.QuestionTime:
		c, err := domain.ParseClock(value)
		if err != nil {
			return "", nil, invalid("a time (HH:MM)")
		}
		return c.String(), c.String(), nil
	case domain.QuestionSingleChoice:
		for _, opt := range q.Options {
			if strings.EqualFold(opt, value) {
				return opt, opt, nil
			}
		}
		if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1], q.Options[n-1], nil
		}
		return "", nil, invalid("one of " + strings.Join(q.Options, ", "))
	default:
		return value, value, nil
	}
}

func parseAnswerDate(s string, now time.Time) (domain.Date, bool) {
	switch strings.ToLower(s) {
	case "today":
		return domain.NewDate(now), true
	case "tomorrow":
		return domain.NewDate(now.AddDate(0, 0, 1)), true
	}
	d, err := domain.ParseDate(s)
	return d, err == nil
}

// fieldAliases maps answer field names onto each variant's JSON name.
var fieldAliases = map[domain.Intent]map[string]string{
	domain.IntentTask: {
		"name": "title", "content": "description", "date": "dueDate",
		"suggestedEpicId": "epicRef", "suggestedSprintId": "sprintRef",
		"effort": "effortPoints", "priority": "priorityQuadrantCode", "lifeArea": "lifeAreaCode",
	},
	domain.IntentEpic: {
		"name": "title", "content": "description", "lifeArea": "lifeAreaCode",
	},
	domain.IntentChallenge: {
		"title": "name", "content": "description", "metric": "metricType", "target": "targetValue",
		"duration": "durationDays", "frequency": "recurrenceFrequency", "recurrence": "recurrenceFrequency",
		"reminder": "reminderTime", "lifeArea": "lifeAreaCode",
	},
	domain.IntentEvent: {
		"name": "title", "content": "description", "dueDate": "date", "time": "startTime", "lifeArea": "lifeAreaCode",
	},
	domain.IntentBill: {
		"title": "vendorName", "name": "vendorName", "vendor": "vendorName", "date": "dueDate",
		"description": "notes", "content": "notes",
	},
	domain.IntentNote: {
		"name": "title", "description": "content", "lifeArea": "lifeAreaCode",
	},
}

func setDraftField(d domain.Draft, field string, value any) domain.Draft {
	if alias, ok := fieldAliases[d.Intent()][field]; ok {
		field = alias
	}
	fields := draftFields(d)
	fields[field] = value
	return extractDraft(d.Intent(), fields)
}
