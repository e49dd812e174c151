package llm

import (
	"context"
	"fmt"
)

// disabledClient stands in when no model is configured. Every call fails
// with ErrUnavailable so callers take their offline path.
type disabledClient struct{}

// NewDisabledClient returns an LLMClient that never reaches a model.
func NewDisabledClient() LLMClient {
	return disabledClient{}
}

func (disabledClient) Generate(context.Context, GenerateRequest) (*GenerateResponse, error) {
	return nil, fmt.Errorf("%w: llm disabled (set INBOX_LLM_ENABLED=true)", ErrUnavailable)
}

func (disabledClient) Available(context.Context) bool { return false }
