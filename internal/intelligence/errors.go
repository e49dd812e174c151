package intelligence

import "errors"

var (
	ErrSessionNotFound        = errors.New("clarification session not found")
	ErrSessionExpired         = errors.New("clarification session expired")
	ErrSessionVersionConflict = errors.New("clarification session was updated concurrently")
	ErrUnknownQuestion        = errors.New("unknown question")
	ErrInvalidAnswer          = errors.New("invalid answer")
	ErrNoAlternative          = errors.New("session has no suggested alternative")
	ErrAlternativeDecided     = errors.New("alternative already decided")
)
