package service

import (
	"context"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
)

// IntakeService turns raw input into either a stored pending draft or an
// open clarification session.
type IntakeService interface {
	Submit(ctx context.Context, userID string, in intelligence.IntakeInput) (*intelligence.Envelope, error)
	AnswerClarification(ctx context.Context, userID, sessionID string, answers []intelligence.Answer) (*intelligence.Envelope, error)
	ConfirmAlternative(ctx context.Context, userID, sessionID string, accepted bool) (*intelligence.Envelope, error)
	GetSession(ctx context.Context, userID, sessionID string) (*intelligence.Envelope, error)
}

// DecisionRequest is an approve, modify or reject action on a pending draft.
// ModifiedDraft is required for MODIFY and ignored otherwise.
type DecisionRequest struct {
	DraftID       string
	Action        domain.DecisionAction
	ModifiedDraft domain.Draft
}

type DecisionResult struct {
	DraftID         string             `json:"draftId"`
	Status          domain.DraftStatus `json:"status"`
	CreatedEntityID *string            `json:"createdEntityId,omitempty"`
	EntityType      domain.Intent      `json:"entityType"`
}

// GCResult counts what a maintenance pass cleaned up.
type GCResult struct {
	ExpiredDrafts  int64 `json:"expiredDrafts"`
	PurgedSessions int64 `json:"purgedSessions"`
}

type DraftService interface {
	Decide(ctx context.Context, userID string, req DecisionRequest) (*DecisionResult, error)
	ListPending(ctx context.Context, userID string) ([]*intelligence.Envelope, error)
	Get(ctx context.Context, userID, draftID string) (*intelligence.Envelope, error)
	GC(ctx context.Context) (*GCResult, error)
}

// EventPublisher receives domain events after their transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.DraftEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.DraftEvent) {}

// TaskCreator, EpicCreator and ChallengeCreator are the creation
// collaborators the dispatcher materializes drafts through.
type TaskCreator interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
}

type EpicCreator interface {
	CreateEpic(ctx context.Context, req CreateEpicRequest) (*domain.Epic, error)
}

type ChallengeCreator interface {
	CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*domain.Challenge, error)
}

type TaskService interface {
	TaskCreator
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Task, error)
}

type EpicService interface {
	EpicCreator
	GetByID(ctx context.Context, id string) (*domain.Epic, error)
}

type ChallengeService interface {
	ChallengeCreator
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
}
