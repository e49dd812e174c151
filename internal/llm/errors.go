package llm

import (
	"errors"
	"net"
)

// Model-call failures. The intake pipeline treats every one of them as
// "extraction unavailable" and falls back to a note.
var (
	ErrUnavailable    = errors.New("llm provider unavailable")
	ErrTimeout        = errors.New("llm request timed out")
	ErrInvalidOutput  = errors.New("invalid llm output format")
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
	// ErrRejected is a 4xx from the provider: unknown model, bad options.
	// Retrying the same request cannot help.
	ErrRejected      = errors.New("llm provider rejected the request")
	ErrMissingAPIKey = errors.New("llm api key missing")
)

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

// errorCode is the short label carried in LLMCallEvent.ErrorCode.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	case errors.Is(err, ErrMissingAPIKey):
		return "MISSING_API_KEY"
	default:
		return "UNKNOWN"
	}
}
