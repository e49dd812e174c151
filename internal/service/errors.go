package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/inbox/internal/domain"
)

var (
	ErrDraftNotFound       = errors.New("draft not found")
	ErrDraftExpired        = errors.New("draft has expired")
	ErrModifyRequiresDraft = errors.New("modify requires a replacement draft")
	ErrInvalidRequest      = errors.New("invalid request")
)

// AlreadyProcessedError is returned when a decision targets a draft that is
// no longer pending. Status is the stored terminal status.
type AlreadyProcessedError struct {
	DraftID string
	Status  domain.DraftStatus
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("draft %s already processed: %s", e.DraftID, e.Status)
}
