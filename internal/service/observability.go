package service

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/inbox/internal/intelligence"
)

// UseCaseEvent is emitted once per intake or draft operation.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type slogUseCaseObserver struct {
	logger *slog.Logger
}

// NewSlogUseCaseObserver logs one "service_use_case" line per event. Caller
// mistakes log at WARN, everything else that failed at ERROR.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &slogUseCaseObserver{logger: logger.With("component", "service")}
}

func (o *slogUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []any{
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"outcome", outcome(event.Err),
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, k, event.Fields[k])
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
	}

	level := slog.LevelInfo
	switch outcome(event.Err) {
	case "rejected":
		level = slog.LevelWarn
	case "failed":
		level = slog.LevelError
	}
	o.logger.Log(ctx, level, "service_use_case", attrs...)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isCallerError(err):
		return "rejected"
	default:
		return "failed"
	}
}

// isCallerError reports failures caused by the request rather than the
// service: unknown ids, stale decisions, bad answers.
func isCallerError(err error) bool {
	var processed *AlreadyProcessedError
	if errors.As(err, &processed) {
		return true
	}
	for _, target := range []error{
		ErrDraftNotFound,
		ErrDraftExpired,
		ErrModifyRequiresDraft,
		ErrInvalidRequest,
		intelligence.ErrSessionNotFound,
		intelligence.ErrSessionExpired,
		intelligence.ErrSessionVersionConflict,
		intelligence.ErrUnknownQuestion,
		intelligence.ErrInvalidAnswer,
		intelligence.ErrNoAlternative,
		intelligence.ErrAlternativeDecided,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
