package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStatusConflict is returned when a compare-and-set on a draft's
	// status finds it no longer PENDING_APPROVAL.
	ErrStatusConflict = errors.New("draft status changed concurrently")

	// ErrVersionConflict is returned when an optimistic update finds a
	// newer version of the row.
	ErrVersionConflict = errors.New("stale version")
)
