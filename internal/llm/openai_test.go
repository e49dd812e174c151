package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAITestConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Provider = ProviderOpenAI
	cfg.Endpoint = endpoint
	cfg.Model = "gpt-4o-mini"
	cfg.APIKey = "sk-test"
	cfg.MaxRetries = 0
	return cfg
}

func TestOpenAIClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		msgs, ok := body["messages"].([]any)
		require.True(t, ok)
		assert.Len(t, msgs, 2)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1760000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"intentDetected\":\"note\"}"}}]
		}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(openAITestConfig(srv.URL+"/v1/"), NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskIntake,
		SystemPrompt: "system",
		UserPrompt:   "user",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"intentDetected":"note"}`, resp.Text)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
}

func TestOpenAIClient_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}
	client, err := NewOpenAIClient(openAITestConfig(srv.URL+"/v1/"), obs)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskIntake, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.False(t, captured.Success)
}

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	cfg := openAITestConfig("")
	cfg.APIKey = ""
	_, err := NewOpenAIClient(cfg, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_SelectsProvider(t *testing.T) {
	c, err := NewClient(DefaultConfig(), nil)
	require.NoError(t, err)
	_, isOllama := c.(*ollamaClient)
	assert.True(t, isOllama)

	c, err = NewClient(openAITestConfig("http://localhost/v1/"), nil)
	require.NoError(t, err)
	_, isOpenAI := c.(*openAIClient)
	assert.True(t, isOpenAI)
}
