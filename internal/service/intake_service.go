package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/repository"
	"github.com/google/uuid"
)

// Policy holds the intake thresholds and horizons.
type Policy struct {
	// A reply at or above HighConfidence with no alternative is stored
	// directly, skipping any proposed questions.
	HighConfidence float64
	// At or above MediumConfidence a session asks at most
	// intelligence.MinQuestionCap questions; below it, MaxQuestions.
	MediumConfidence float64
	MaxQuestions     int
	DraftTTL         time.Duration
	SessionIdleTTL   time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		HighConfidence:   0.8,
		MediumConfidence: 0.5,
		MaxQuestions:     intelligence.MaxQuestionCap,
		DraftTTL:         24 * time.Hour,
		SessionIdleTTL:   24 * time.Hour,
	}
}

// questionCap is the session cap for a reply of the given confidence.
func (p Policy) questionCap(confidence float64) int {
	if confidence >= p.MediumConfidence {
		return intelligence.MinQuestionCap
	}
	return intelligence.ClampMaxQuestions(p.MaxQuestions)
}

// needsSession reports whether a parsed reply must be clarified before it
// can be stored for approval.
func (p Policy) needsSession(parsed *intelligence.ParsedResponse) bool {
	if parsed.Alternative != nil {
		return true
	}
	return len(parsed.Questions) > 0 && parsed.Confidence < p.HighConfidence
}

type intakeService struct {
	analyzer intelligence.IntakeAnalyzer
	drafts   repository.PendingDraftRepo
	sessions repository.ClarificationSessionRepo
	uow      db.UnitOfWork
	policy   Policy
	observer UseCaseObserver
	now      func() time.Time
}

type IntakeOption func(*intakeService)

func WithIntakePolicy(p Policy) IntakeOption {
	return func(s *intakeService) { s.policy = p }
}

func WithIntakeClock(now func() time.Time) IntakeOption {
	return func(s *intakeService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIntakeObserver(observer UseCaseObserver) IntakeOption {
	return func(s *intakeService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func NewIntakeService(
	analyzer intelligence.IntakeAnalyzer,
	drafts repository.PendingDraftRepo,
	sessions repository.ClarificationSessionRepo,
	uow db.UnitOfWork,
	opts ...IntakeOption,
) IntakeService {
	s := &intakeService{
		analyzer: analyzer,
		drafts:   drafts,
		sessions: sessions,
		uow:      uow,
		policy:   DefaultPolicy(),
		observer: NoopUseCaseObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *intakeService) Submit(ctx context.Context, userID string, in intelligence.IntakeInput) (env *intelligence.Envelope, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"attachments": len(in.Attachments)}
	defer func() {
		s.observe(ctx, "intake.submit", startedAt, err, fields, env)
	}()

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	analysis := s.analyzer.Analyze(ctx, in)
	parsed := analysis.Parsed
	fields["fallback"] = parsed.FallbackCause != nil
	now := s.now().UTC()

	if s.policy.needsSession(parsed) {
		session := intelligence.NewSession(intelligence.SessionSeed{
			ID:              uuid.New().String(),
			UserID:          userID,
			InputText:       in.Text,
			VoiceTranscript: domain.OptionalStr(in.VoiceTranscript),
			AttachmentCount: len(in.Attachments),
		}, parsed, s.policy.questionCap(parsed.Confidence), now, s.policy.SessionIdleTTL)

		if err := s.sessions.Create(ctx, session); err != nil {
			return nil, fmt.Errorf("opening clarification session: %w", err)
		}
		return intelligence.SessionEnvelope(session), nil
	}

	draft := &domain.PendingDraft{
		ID:              uuid.New().String(),
		UserID:          userID,
		Intent:          parsed.Draft.Intent(),
		Draft:           parsed.Draft,
		Confidence:      parsed.Confidence,
		Reasoning:       parsed.Reasoning,
		Suggestions:     parsed.Suggestions,
		InputText:       in.Text,
		VoiceTranscript: domain.OptionalStr(in.VoiceTranscript),
		AttachmentCount: len(in.Attachments),
		Status:          domain.DraftPendingApproval,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.policy.DraftTTL),
	}
	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("storing pending draft: %w", err)
	}
	return intelligence.PendingEnvelope(draft), nil
}

func (s *intakeService) AnswerClarification(ctx context.Context, userID, sessionID string, answers []intelligence.Answer) (env *intelligence.Envelope, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session_id": sessionID, "answers": len(answers)}
	defer func() {
		s.observe(ctx, "intake.answer", startedAt, err, fields, env)
	}()

	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: at least one answer is required", ErrInvalidRequest)
	}
	return s.advanceSession(ctx, userID, sessionID, func(session *domain.ClarificationSession, now time.Time) error {
		return intelligence.ApplyAnswers(session, answers, now)
	})
}

func (s *intakeService) ConfirmAlternative(ctx context.Context, userID, sessionID string, accepted bool) (env *intelligence.Envelope, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session_id": sessionID, "accepted": accepted}
	defer func() {
		s.observe(ctx, "intake.confirm_alternative", startedAt, err, fields, env)
	}()

	return s.advanceSession(ctx, userID, sessionID, func(session *domain.ClarificationSession, _ time.Time) error {
		return intelligence.DecideAlternative(session, accepted)
	})
}

func (s *intakeService) GetSession(ctx context.Context, userID, sessionID string) (*intelligence.Envelope, error) {
	session, err := s.loadSession(ctx, s.sessions, userID, sessionID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return intelligence.SessionEnvelope(session), nil
}

// advanceSession applies step to the caller's session in one transaction.
// A session that becomes ready is replaced by a pending draft; otherwise it
// is written back with a fresh idle horizon.
func (s *intakeService) advanceSession(
	ctx context.Context,
	userID, sessionID string,
	step func(*domain.ClarificationSession, time.Time) error,
) (*intelligence.Envelope, error) {
	var env *intelligence.Envelope
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteClarificationRepo(tx)
		txDrafts := repository.NewSQLitePendingDraftRepo(tx)
		now := s.now().UTC()

		session, err := s.loadSession(ctx, txSessions, userID, sessionID, now)
		if err != nil {
			return err
		}
		if err := step(session, now); err != nil {
			return err
		}
		session.UpdatedAt = now
		session.ExpiresAt = now.Add(s.policy.SessionIdleTTL)

		if !intelligence.SessionReady(session) {
			if err := txSessions.Update(ctx, session); err != nil {
				return sessionWriteError(err)
			}
			env = intelligence.SessionEnvelope(session)
			return nil
		}

		draft := s.pendingFromSession(session, now)
		if err := txDrafts.Create(ctx, draft); err != nil {
			return fmt.Errorf("storing pending draft: %w", err)
		}
		if err := txSessions.Delete(ctx, session.ID, session.Version); err != nil {
			return sessionWriteError(err)
		}
		env = intelligence.PendingEnvelope(draft)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (s *intakeService) loadSession(ctx context.Context, sessions repository.ClarificationSessionRepo, userID, sessionID string, now time.Time) (*domain.ClarificationSession, error) {
	session, err := sessions.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", intelligence.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("%w: %s", intelligence.ErrSessionNotFound, sessionID)
	}
	if session.IsAbandoned(now) {
		return nil, fmt.Errorf("%w: %s", intelligence.ErrSessionExpired, sessionID)
	}
	return session, nil
}

func (s *intakeService) pendingFromSession(session *domain.ClarificationSession, now time.Time) *domain.PendingDraft {
	final := intelligence.FinalDraft(session)
	return &domain.PendingDraft{
		ID:              uuid.New().String(),
		UserID:          session.UserID,
		Intent:          final.Intent(),
		Draft:           final,
		Confidence:      session.Confidence,
		Reasoning:       session.Reasoning,
		Suggestions:     session.Suggestions,
		InputText:       session.InputText,
		VoiceTranscript: session.VoiceTranscript,
		AttachmentCount: session.AttachmentCount,
		Status:          domain.DraftPendingApproval,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.policy.DraftTTL),
	}
}

func sessionWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return fmt.Errorf("%w: %v", intelligence.ErrSessionVersionConflict, err)
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", intelligence.ErrSessionNotFound, err)
	default:
		return err
	}
}

func (s *intakeService) observe(ctx context.Context, name string, startedAt time.Time, err error, fields map[string]any, env *intelligence.Envelope) {
	if env != nil {
		fields["status"] = string(env.Status)
		fields["intent"] = string(env.IntentDetected)
		fields["confidence"] = env.ConfidenceScore
		if env.DraftID != nil {
			fields["draft_id"] = *env.DraftID
		}
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
