package llm

import (
	"log/slog"
)

// LLMCallEvent describes one finished model call, retries included.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes one "llm_call" line per call. Failures log at WARN
// because the intake pipeline swallows them into a note fallback.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With("component", "llm")}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []any{
		"task", string(event.Task),
		"model", event.Model,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.logger.Warn("llm_call", append(attrs, "status", "err:"+event.ErrorCode)...)
		return
	}
	o.logger.Info("llm_call", append(attrs, "status", "ok")...)
}

// NoopObserver drops every event.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
