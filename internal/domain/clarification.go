package domain

import "time"

// QuestionKind determines how an answer is collected and coerced.
type QuestionKind string

const (
	QuestionSingleChoice QuestionKind = "single_choice"
	QuestionYesNo        QuestionKind = "yes_no"
	QuestionNumber       QuestionKind = "number"
	QuestionDate         QuestionKind = "date"
	QuestionTime         QuestionKind = "time"
	QuestionText         QuestionKind = "text"
)

// Question is one follow-up proposed by the model. Field names the draft
// field the answer populates.
type Question struct {
	ID       string       `json:"id"`
	Prompt   string       `json:"prompt"`
	Kind     QuestionKind `json:"kind"`
	Options  []string     `json:"options"`
	Field    string       `json:"field"`
	Required bool         `json:"required"`
	Default  *string      `json:"default,omitempty"`
}

// AlternativeDecision is the tri-state answer to a suggested alternative
// entity type. The zero value means the user has not decided yet.
type AlternativeDecision string

const (
	AlternativeUnset    AlternativeDecision = ""
	AlternativeAccepted AlternativeDecision = "ACCEPTED"
	AlternativeRejected AlternativeDecision = "REJECTED"
)

// AlternativeSuggestion is a different entity type the model proposes for
// the same input, e.g. a challenge instead of a one-off task.
type AlternativeSuggestion struct {
	Intent Intent
	Reason string
	Draft  Draft
}

// ClarificationSession accumulates answers until the draft is ready to be
// stored as a PendingDraft. It is destroyed once converted.
type ClarificationSession struct {
	ID                  string
	UserID              string
	OriginalIntent      Intent
	Draft               Draft
	Alternative         *AlternativeSuggestion
	AlternativeDecision AlternativeDecision
	Questions           []Question
	Answers             map[string]string
	QuestionsAsked      int
	MaxQuestions        int
	Confidence          float64
	Reasoning           string
	Suggestions         []string
	InputText           string
	VoiceTranscript     *string
	AttachmentCount     int
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ExpiresAt           time.Time
	Version             int
}

// IsAbandoned reports whether the session has been idle past its horizon.
func (s *ClarificationSession) IsAbandoned(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Question returns the question with the given id.
func (s *ClarificationSession) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// RequiredAnswered reports whether every required question has an answer.
func (s *ClarificationSession) RequiredAnswered() bool {
	for _, q := range s.Questions {
		if !q.Required {
			continue
		}
		if _, ok := s.Answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// BudgetExhausted reports whether the question cap has been reached.
func (s *ClarificationSession) BudgetExhausted() bool {
	return s.QuestionsAsked >= s.MaxQuestions
}
