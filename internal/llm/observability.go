package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// CallEvent records metadata about a single provider invocation.
type CallEvent struct {
	Provider  domain.ProviderKey
	Operation string
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about provider calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	o.logger.LogAttrs(context.Background(), level, "llm_call",
		slog.String("provider", string(event.Provider)),
		slog.String("op", event.Operation),
		slog.String("model", event.Model),
		slog.Int64("latency_ms", event.LatencyMs),
		slog.Bool("success", event.Success),
		slog.String("error_code", event.ErrorCode),
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

func report(o Observer, p domain.ProviderKey, op, model string, start time.Time, err error) {
	o.OnCallComplete(CallEvent{
		Provider:  p,
		Operation: op,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: ErrorCode(err),
	})
}
