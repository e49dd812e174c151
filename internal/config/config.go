// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/llm"
	"github.com/alexanderramin/inbox/internal/service"
)

// Config is everything cmd/inbox needs to wire the application.
type Config struct {
	DBPath string
	Addr   string
	User   string
	Debug  bool
	Policy service.Policy
	LLM    llm.LLMConfig

	// MaintenanceToken guards the cross-user maintenance routes. Empty
	// leaves them unregistered.
	MaintenanceToken string
}

// Load reads envFiles (default ".env") if present, then the environment.
// Variables already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	dbPath := os.Getenv("INBOX_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".inbox", "inbox.db")
	}

	cfg := &Config{
		DBPath: dbPath,
		Addr:   getEnv("INBOX_ADDR", ":8080"),
		User:   getEnv("INBOX_USER", "local"),
		Debug:  getEnvBool("INBOX_DEBUG", false),
		Policy: service.DefaultPolicy(),
		LLM:    llm.LoadConfig(),

		MaintenanceToken: strings.TrimSpace(os.Getenv("INBOX_MAINTENANCE_TOKEN")),
	}

	p := &cfg.Policy
	var err error
	if p.HighConfidence, err = getEnvUnit("INBOX_HIGH_CONFIDENCE", p.HighConfidence); err != nil {
		return nil, err
	}
	if p.MediumConfidence, err = getEnvUnit("INBOX_MEDIUM_CONFIDENCE", p.MediumConfidence); err != nil {
		return nil, err
	}
	if p.MediumConfidence > p.HighConfidence {
		return nil, fmt.Errorf("INBOX_MEDIUM_CONFIDENCE (%.2f) exceeds INBOX_HIGH_CONFIDENCE (%.2f)", p.MediumConfidence, p.HighConfidence)
	}
	if v := os.Getenv("INBOX_MAX_QUESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("INBOX_MAX_QUESTIONS: %w", err)
		}
		p.MaxQuestions = intelligence.ClampMaxQuestions(n)
	}
	if p.DraftTTL, err = getEnvDuration("INBOX_DRAFT_TTL", p.DraftTTL); err != nil {
		return nil, err
	}
	if p.SessionIdleTTL, err = getEnvDuration("INBOX_SESSION_IDLE_TTL", p.SessionIdleTTL); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return v == "yes"
	}
	return b
}

// getEnvUnit parses a value in [0, 1].
func getEnvUnit(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("%s: %v is outside [0, 1]", key, f)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}
