package events

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/inbox/internal/domain"
)

// LogHandler writes one structured line per event.
func LogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event domain.DraftEvent) {
		attrs := []any{
			"event", string(event.Name),
			"draft_id", event.DraftID,
			"user_id", event.UserID,
			"intent", string(event.Intent),
		}
		if event.EntityID != nil {
			attrs = append(attrs, "entity_id", *event.EntityID)
		}
		logger.InfoContext(ctx, "draft_event", attrs...)
	}
}
