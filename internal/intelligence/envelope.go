package intelligence

import (
	"time"

	"github.com/alexanderramin/inbox/internal/domain"
)

// EnvelopeStatus tells the client what to do next with an intake reply.
type EnvelopeStatus string

const (
	StatusReady              EnvelopeStatus = "READY"
	StatusNeedsClarification EnvelopeStatus = "NEEDS_CLARIFICATION"
	StatusSuggestAlternative EnvelopeStatus = "SUGGEST_ALTERNATIVE"
)

// Envelope is the draft plus confidence, status and clarification metadata
// returned by every intake operation and by draft queries.
type Envelope struct {
	Status            EnvelopeStatus      `json:"status"`
	IntentDetected    domain.Intent       `json:"intentDetected"`
	ConfidenceScore   float64             `json:"confidenceScore"`
	Draft             domain.Draft        `json:"draft"`
	Reasoning         string              `json:"reasoning"`
	Suggestions       []string            `json:"suggestions"`
	DraftID           *string             `json:"draftId,omitempty"`
	ClarificationFlow *ClarificationFlow  `json:"clarificationFlow,omitempty"`
	DraftStatus       *domain.DraftStatus `json:"draftStatus,omitempty"`
	ExpiresAt         *time.Time          `json:"expiresAt,omitempty"`
	CreatedEntityID   *string             `json:"createdEntityId,omitempty"`
}

// ClarificationFlow is the client view of an open clarification session.
type ClarificationFlow struct {
	SessionID            string            `json:"sessionId"`
	Questions            []domain.Question `json:"questions"`
	Answers              map[string]string `json:"answers"`
	QuestionsAsked       int               `json:"questionsAsked"`
	MaxQuestions         int               `json:"maxQuestions"`
	SuggestedAlternative *AlternativeView  `json:"suggestedAlternative,omitempty"`
	AlternativeAccepted  *bool             `json:"alternativeAccepted,omitempty"`
	ExpiresAt            time.Time         `json:"expiresAt"`
}

type AlternativeView struct {
	Intent domain.Intent `json:"intent"`
	Reason string        `json:"reason"`
	Draft  domain.Draft  `json:"draft"`
}

// PendingEnvelope describes a stored draft. Every stored draft reads as
// READY; its lifecycle is in DraftStatus.
func PendingEnvelope(d *domain.PendingDraft) *Envelope {
	id := d.ID
	status := d.Status
	expires := d.ExpiresAt
	return &Envelope{
		Status:          StatusReady,
		IntentDetected:  d.Intent,
		ConfidenceScore: d.Confidence,
		Draft:           d.Draft,
		Reasoning:       d.Reasoning,
		Suggestions:     nonNil(d.Suggestions),
		DraftID:         &id,
		DraftStatus:     &status,
		ExpiresAt:       &expires,
		CreatedEntityID: d.CreatedEntityID,
	}
}

// SessionEnvelope describes a session that is still collecting answers.
func SessionEnvelope(s *domain.ClarificationSession) *Envelope {
	status := StatusNeedsClarification
	if AwaitingAlternative(s) {
		status = StatusSuggestAlternative
	}

	flow := &ClarificationFlow{
		SessionID:      s.ID,
		Questions:      s.Questions,
		Answers:        s.Answers,
		QuestionsAsked: s.QuestionsAsked,
		MaxQuestions:   s.MaxQuestions,
		ExpiresAt:      s.ExpiresAt,
	}
	if flow.Questions == nil {
		flow.Questions = []domain.Question{}
	}
	if s.Alternative != nil {
		flow.SuggestedAlternative = &AlternativeView{
			Intent: s.Alternative.Intent,
			Reason: s.Alternative.Reason,
			Draft:  s.Alternative.Draft,
		}
		if s.AlternativeDecision != domain.AlternativeUnset {
			accepted := s.AlternativeDecision == domain.AlternativeAccepted
			flow.AlternativeAccepted = &accepted
		}
	}

	return &Envelope{
		Status:            status,
		IntentDetected:    s.Draft.Intent(),
		ConfidenceScore:   s.Confidence,
		Draft:             s.Draft,
		Reasoning:         s.Reasoning,
		Suggestions:       nonNil(s.Suggestions),
		ClarificationFlow: flow,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
