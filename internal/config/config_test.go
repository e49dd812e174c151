package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so neither the host environment
// nor an earlier .env load leaks in. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"INBOX_DB", "INBOX_ADDR", "INBOX_USER", "INBOX_DEBUG",
		"INBOX_HIGH_CONFIDENCE", "INBOX_MEDIUM_CONFIDENCE", "INBOX_MAX_QUESTIONS",
		"INBOX_DRAFT_TTL", "INBOX_SESSION_IDLE_TTL", "INBOX_LLM_ENABLED",
		"INBOX_MAINTENANCE_TOKEN",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "local", cfg.User)
	assert.False(t, cfg.Debug)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".inbox", "inbox.db"), cfg.DBPath)
	assert.Equal(t, 0.8, cfg.Policy.HighConfidence)
	assert.Equal(t, 0.5, cfg.Policy.MediumConfidence)
	assert.Equal(t, 5, cfg.Policy.MaxQuestions)
	assert.Equal(t, 24*time.Hour, cfg.Policy.DraftTTL)
	assert.Equal(t, 24*time.Hour, cfg.Policy.SessionIdleTTL)
	assert.False(t, cfg.LLM.Enabled)
	assert.Empty(t, cfg.MaintenanceToken)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("INBOX_DB", "/tmp/inbox-test.db")
	t.Setenv("INBOX_ADDR", "127.0.0.1:9090")
	t.Setenv("INBOX_USER", "alice")
	t.Setenv("INBOX_DEBUG", "true")
	t.Setenv("INBOX_HIGH_CONFIDENCE", "0.9")
	t.Setenv("INBOX_MEDIUM_CONFIDENCE", "0.4")
	t.Setenv("INBOX_MAX_QUESTIONS", "9")
	t.Setenv("INBOX_DRAFT_TTL", "48h")
	t.Setenv("INBOX_SESSION_IDLE_TTL", "30m")
	t.Setenv("INBOX_MAINTENANCE_TOKEN", " s3cret ")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/inbox-test.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, "alice", cfg.User)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 0.9, cfg.Policy.HighConfidence)
	assert.Equal(t, 0.4, cfg.Policy.MediumConfidence)
	assert.Equal(t, 5, cfg.Policy.MaxQuestions, "cap is clamped")
	assert.Equal(t, 48*time.Hour, cfg.Policy.DraftTTL)
	assert.Equal(t, 30*time.Minute, cfg.Policy.SessionIdleTTL)
	assert.Equal(t, "s3cret", cfg.MaintenanceToken)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("INBOX_USER=from-file\nINBOX_MAX_QUESTIONS=1\n"), 0o600))
	t.Setenv("INBOX_DB", filepath.Join(dir, "inbox.db"))
	t.Setenv("INBOX_ADDR", ":7070")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.User)
	assert.Equal(t, 3, cfg.Policy.MaxQuestions)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"INBOX_HIGH_CONFIDENCE", "high"},
		{"INBOX_HIGH_CONFIDENCE", "1.5"},
		{"INBOX_MEDIUM_CONFIDENCE", "0.95"},
		{"INBOX_MAX_QUESTIONS", "five"},
		{"INBOX_DRAFT_TTL", "tomorrow"},
		{"INBOX_SESSION_IDLE_TTL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("INBOX_DB", "/tmp/x.db")
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
