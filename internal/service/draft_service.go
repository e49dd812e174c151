package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/repository"
)

type draftService struct {
	drafts    repository.PendingDraftRepo
	uow       db.UnitOfWork
	creators  CreatorsFactory
	publisher EventPublisher
	observer  UseCaseObserver
	now       func() time.Time
}

type DraftOption func(*draftService)

// WithCreators replaces the bundled SQLite creation collaborators.
func WithCreators(factory CreatorsFactory) DraftOption {
	return func(s *draftService) {
		if factory != nil {
			s.creators = factory
		}
	}
}

func WithEventPublisher(p EventPublisher) DraftOption {
	return func(s *draftService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithDraftObserver(observer UseCaseObserver) DraftOption {
	return func(s *draftService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func WithDraftClock(now func() time.Time) DraftOption {
	return func(s *draftService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewDraftService(
	drafts repository.PendingDraftRepo,
	uow db.UnitOfWork,
	opts ...DraftOption,
) DraftService {
	s := &draftService{
		drafts:    drafts,
		uow:       uow,
		creators:  SQLiteCreators,
		publisher: noopPublisher{},
		observer:  NoopUseCaseObserver{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide applies an approve, modify or reject action. Entity creation and
// the status change commit in one transaction; a draft found expired is
// flipped to EXPIRED and ErrDraftExpired is returned.
func (s *draftService) Decide(ctx context.Context, userID string, req DecisionRequest) (result *DecisionResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"draft_id": req.DraftID, "action": string(req.Action)}
	defer func() {
		if result != nil {
			fields["status"] = string(result.Status)
			fields["intent"] = string(result.EntityType)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "draft.decide",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	action, ok := domain.ParseDecisionAction(string(req.Action))
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidRequest, req.Action)
	}

	var decided *domain.PendingDraft
	var expired bool
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		drafts := repository.NewSQLitePendingDraftRepo(tx)
		now := s.now().UTC()

		d, err := drafts.GetByID(ctx, req.DraftID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDraftNotFound, req.DraftID)
		}
		if err != nil {
			return err
		}
		if d.UserID != userID {
			return fmt.Errorf("%w: %s", ErrDraftNotFound, req.DraftID)
		}
		if d.Status.IsTerminal() {
			return &AlreadyProcessedError{DraftID: d.ID, Status: d.Status}
		}

		d.DecidedAt = &now
		if d.IsExpired(now) {
			d.Status = domain.DraftExpired
			if err := transition(ctx, drafts, d); err != nil {
				return err
			}
			s.publishAfterCommit(ctx, d)
			decided, expired = d, true
			return nil
		}

		switch action {
		case domain.ActionApprove:
			id, err := NewDispatcher(s.creators(tx)).Materialize(ctx, d.UserID, d.Draft, d.Confidence)
			if err != nil {
				return err
			}
			d.Status = domain.DraftApproved
			d.CreatedEntityID = &id
		case domain.ActionModify:
			if req.ModifiedDraft == nil {
				return ErrModifyRequiresDraft
			}
			// Edited drafts get the same defaults and pins as parsed ones.
			replacement := intelligence.ConvertDraft(req.ModifiedDraft, req.ModifiedDraft.Intent())
			id, err := NewDispatcher(s.creators(tx)).Materialize(ctx, d.UserID, replacement, d.Confidence)
			if err != nil {
				return err
			}
			d.Draft = replacement
			d.Intent = replacement.Intent()
			d.Status = domain.DraftModified
			d.CreatedEntityID = &id
		case domain.ActionReject:
			d.Status = domain.DraftRejected
		}

		if err := transition(ctx, drafts, d); err != nil {
			return err
		}
		s.publishAfterCommit(ctx, d)
		decided = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expired {
		return nil, fmt.Errorf("%w: %s", ErrDraftExpired, decided.ID)
	}
	return &DecisionResult{
		DraftID:         decided.ID,
		Status:          decided.Status,
		CreatedEntityID: decided.CreatedEntityID,
		EntityType:      decided.Intent,
	}, nil
}

func (s *draftService) publishAfterCommit(ctx context.Context, d *domain.PendingDraft) {
	event := draftEvent(d)
	db.AfterCommit(ctx, func() { s.publisher.Publish(context.WithoutCancel(ctx), event) })
}

// transition writes d's new status, turning a lost compare-and-set into an
// AlreadyProcessedError carrying the winner's status.
func transition(ctx context.Context, drafts *repository.SQLitePendingDraftRepo, d *domain.PendingDraft) error {
	err := drafts.Transition(ctx, d)
	if !errors.Is(err, repository.ErrStatusConflict) {
		return err
	}
	current, getErr := drafts.GetByID(ctx, d.ID)
	if getErr != nil {
		return err
	}
	return &AlreadyProcessedError{DraftID: d.ID, Status: current.Status}
}

func draftEvent(d *domain.PendingDraft) domain.DraftEvent {
	var name domain.EventName
	switch d.Status {
	case domain.DraftApproved:
		name = domain.EventDraftApproved
	case domain.DraftModified:
		name = domain.EventDraftModified
	case domain.DraftRejected:
		name = domain.EventDraftRejected
	default:
		name = domain.EventDraftExpired
	}
	occurred := time.Now().UTC()
	if d.DecidedAt != nil {
		occurred = *d.DecidedAt
	}
	return domain.DraftEvent{
		Name:       name,
		DraftID:    d.ID,
		UserID:     d.UserID,
		Intent:     d.Intent,
		Title:      domain.DraftTitle(d.Draft),
		EntityID:   d.CreatedEntityID,
		OccurredAt: occurred,
	}
}

// ListPending returns the caller's drafts awaiting a decision, newest first.
func (s *draftService) ListPending(ctx context.Context, userID string) ([]*intelligence.Envelope, error) {
	drafts, err := s.drafts.ListPendingByUser(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	out := make([]*intelligence.Envelope, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, intelligence.PendingEnvelope(d))
	}
	return out, nil
}

// Get returns one of the caller's drafts in any status.
func (s *draftService) Get(ctx context.Context, userID, draftID string) (*intelligence.Envelope, error) {
	d, err := s.drafts.GetByID(ctx, draftID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, draftID)
	}
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, draftID)
	}
	return intelligence.PendingEnvelope(d), nil
}

// GC expires overdue pending drafts and purges abandoned sessions. Rejected
// drafts are left in place.
func (s *draftService) GC(ctx context.Context) (result *GCResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		if result != nil {
			fields["expired_drafts"] = result.ExpiredDrafts
			fields["purged_sessions"] = result.PurgedSessions
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "draft.gc",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	now := s.now().UTC()
	result = &GCResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if result.ExpiredDrafts, err = repository.NewSQLitePendingDraftRepo(tx).ExpireStale(ctx, now); err != nil {
			return err
		}
		result.PurgedSessions, err = repository.NewSQLiteClarificationRepo(tx).PurgeIdle(ctx, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
