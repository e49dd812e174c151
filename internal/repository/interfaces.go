package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/inbox/internal/domain"
)

type PendingDraftRepo interface {
	Create(ctx context.Context, d *domain.PendingDraft) error
	GetByID(ctx context.Context, id string) (*domain.PendingDraft, error)
	// ListPendingByUser returns PENDING_APPROVAL drafts not yet expired at
	// now, newest first.
	ListPendingByUser(ctx context.Context, userID string, now time.Time) ([]*domain.PendingDraft, error)
	// Transition moves a PENDING_APPROVAL draft to d.Status, writing the
	// draft content, entity id and decision time. Returns ErrStatusConflict
	// if the stored row is no longer pending.
	Transition(ctx context.Context, d *domain.PendingDraft) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type ClarificationSessionRepo interface {
	Create(ctx context.Context, s *domain.ClarificationSession) error
	GetByID(ctx context.Context, id string) (*domain.ClarificationSession, error)
	// Update writes s if the stored version equals s.Version, then bumps
	// s.Version. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, s *domain.ClarificationSession) error
	// Delete removes the session at the given version.
	Delete(ctx context.Context, id string, version int) error
	PurgeIdle(ctx context.Context, now time.Time) (int64, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Task, error)
}

type EpicRepo interface {
	Create(ctx context.Context, e *domain.Epic) error
	GetByID(ctx context.Context, id string) (*domain.Epic, error)
}

type ChallengeRepo interface {
	Create(ctx context.Context, c *domain.Challenge) error
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
}
