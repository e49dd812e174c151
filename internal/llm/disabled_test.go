package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledClient(t *testing.T) {
	c := NewDisabledClient()

	resp, err := c.Generate(context.Background(), GenerateRequest{Task: TaskIntake, UserPrompt: "buy milk"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "UNAVAILABLE", errorCode(err))
	assert.False(t, c.Available(context.Background()))
}
