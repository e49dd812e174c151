package domain

import "time"

// EventName identifies a domain event published by the approval workflow.
type EventName string

const (
	EventDraftApproved EventName = "draft.approved"
	EventDraftModified EventName = "draft.modified"
	EventDraftRejected EventName = "draft.rejected"
	EventDraftExpired  EventName = "draft.expired"
)

// DraftEvent is emitted after a draft decision has been committed.
type DraftEvent struct {
	Name       EventName `json:"name"`
	DraftID    string    `json:"draftId"`
	UserID     string    `json:"userId"`
	Intent     Intent    `json:"intent"`
	Title      string    `json:"title"`
	EntityID   *string   `json:"entityId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
