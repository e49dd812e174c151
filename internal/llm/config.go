package llm

import (
	"os"
	"strconv"
	"strings"
)

type TaskType string

const (
	TaskIntake TaskType = "intake"
	TaskOCR    TaskType = "ocr"
)

// Provider selects the text-completion backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// TaskConfig tunes one task. TimeoutMs of zero falls back to LLMConfig.TimeoutMs.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int
}

type LLMConfig struct {
	Enabled     bool
	LogCalls    bool
	Provider    Provider
	Endpoint    string
	Model       string
	VisionModel string
	APIKey      string
	TimeoutMs   int
	MaxRetries  int
	Tasks       map[TaskType]TaskConfig
}

const defaultOpenAIModel = "gpt-4o-mini"

// DefaultConfig targets a local Ollama and leaves the subsystem disabled.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:    ProviderOllama,
		Endpoint:    "http://localhost:11434",
		Model:       "llama3.2",
		VisionModel: "llava",
		TimeoutMs:   15000,
		MaxRetries:  1,
		Tasks: map[TaskType]TaskConfig{
			TaskIntake: {Temperature: 0.2, MaxTokens: 2048, TimeoutMs: 20000},
			TaskOCR:    {Temperature: 0, MaxTokens: 1024, TimeoutMs: 15000},
		},
	}
}

// LoadConfig overlays INBOX_LLM_* variables on DefaultConfig. Malformed
// values are ignored. Choosing the openai provider swaps in its default
// model and the SDK's base URL unless those are set explicitly.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	envBool("INBOX_LLM_ENABLED", &cfg.Enabled)
	envBool("INBOX_LLM_LOG_CALLS", &cfg.LogCalls)
	if v, ok := lookup("INBOX_LLM_PROVIDER"); ok && Provider(strings.ToLower(v)) == ProviderOpenAI {
		cfg.Provider = ProviderOpenAI
		cfg.Endpoint = ""
		cfg.Model = defaultOpenAIModel
	}
	envString("INBOX_LLM_ENDPOINT", &cfg.Endpoint)
	envString("INBOX_LLM_MODEL", &cfg.Model)
	envString("INBOX_LLM_VISION_MODEL", &cfg.VisionModel)
	envString("INBOX_LLM_API_KEY", &cfg.APIKey)
	if cfg.APIKey == "" && cfg.Provider == ProviderOpenAI {
		envString("OPENAI_API_KEY", &cfg.APIKey)
	}
	envInt("INBOX_LLM_TIMEOUT_MS", 1, &cfg.TimeoutMs)
	envInt("INBOX_LLM_MAX_RETRIES", 0, &cfg.MaxRetries)

	for task, name := range map[TaskType]string{
		TaskIntake: "INBOX_LLM_INTAKE_TIMEOUT_MS",
		TaskOCR:    "INBOX_LLM_OCR_TIMEOUT_MS",
	} {
		tc := cfg.Tasks[task]
		envInt(name, 1, &tc.TimeoutMs)
		cfg.Tasks[task] = tc
	}
	return cfg
}

// TaskTimeout returns the task's own timeout when set, else the global one.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func envString(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envBool(name string, dst *bool) {
	if v, ok := lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, floor int, dst *int) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= floor {
			*dst = n
		}
	}
}
