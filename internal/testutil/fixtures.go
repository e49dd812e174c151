package testutil

import (
	"time"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/google/uuid"
)

// DraftOption customizes a test PendingDraft.
type DraftOption func(*domain.PendingDraft)

func WithDraftUser(userID string) DraftOption {
	return func(d *domain.PendingDraft) {
		d.UserID = userID
	}
}

func WithDraftStatus(s domain.DraftStatus) DraftOption {
	return func(d *domain.PendingDraft) {
		d.Status = s
	}
}

// WithDraftContent replaces the draft variant and keeps Intent in step.
func WithDraftContent(draft domain.Draft) DraftOption {
	return func(d *domain.PendingDraft) {
		d.Draft = draft
		d.Intent = draft.Intent()
	}
}

func WithDraftCreatedAt(t time.Time) DraftOption {
	return func(d *domain.PendingDraft) {
		d.CreatedAt = t
		d.ExpiresAt = t.Add(24 * time.Hour)
	}
}

func WithDraftExpiresAt(t time.Time) DraftOption {
	return func(d *domain.PendingDraft) {
		d.ExpiresAt = t
	}
}

// NewTestTaskDraft returns a fully defaulted task draft.
func NewTestTaskDraft(title string) *domain.TaskDraft {
	return &domain.TaskDraft{
		Title:                title,
		LifeAreaCode:         domain.DefaultLifeArea,
		PriorityQuadrantCode: domain.QuadrantImportant,
		EffortPoints:         3,
	}
}

// NewTestPendingDraft returns a task draft awaiting approval, created now
// and expiring in 24h.
func NewTestPendingDraft(userID, title string, opts ...DraftOption) *domain.PendingDraft {
	now := time.Now().UTC()
	d := &domain.PendingDraft{
		ID:          uuid.New().String(),
		UserID:      userID,
		Intent:      domain.IntentTask,
		Draft:       NewTestTaskDraft(title),
		Confidence:  0.9,
		Reasoning:   "test",
		Suggestions: []string{},
		InputText:   title,
		Status:      domain.DraftPendingApproval,
		CreatedAt:   now,
		ExpiresAt:   now.Add(24 * time.Hour),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SessionOption customizes a test ClarificationSession.
type SessionOption func(*domain.ClarificationSession)

func WithSessionQuestions(qs ...domain.Question) SessionOption {
	return func(s *domain.ClarificationSession) {
		s.Questions = qs
	}
}

func WithSessionAlternative(alt *domain.AlternativeSuggestion) SessionOption {
	return func(s *domain.ClarificationSession) {
		s.Alternative = alt
	}
}

func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(s *domain.ClarificationSession) {
		s.ExpiresAt = t
	}
}

// NewTestSession returns a task clarification session with no answers.
func NewTestSession(userID, title string, opts ...SessionOption) *domain.ClarificationSession {
	now := time.Now().UTC()
	s := &domain.ClarificationSession{
		ID:             uuid.New().String(),
		UserID:         userID,
		OriginalIntent: domain.IntentTask,
		Draft:          NewTestTaskDraft(title),
		Answers:        map[string]string{},
		MaxQuestions:   5,
		Confidence:     0.6,
		Suggestions:    []string{},
		InputText:      title,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
