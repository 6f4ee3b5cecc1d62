// Package slog provides log/slog decorators for collapse services.
package slog

import (
	"log/slog"

	"github.com/fwojciec/collapse"
)

// Ensure LoggingBus implements collapse.EventBus.
var _ collapse.EventBus = (*LoggingBus)(nil)

// LoggingBus wraps an EventBus and logs every event it delivers.
type LoggingBus struct {
	next   collapse.EventBus
	logger *slog.Logger
}

// NewLoggingBus creates a new LoggingBus.
func NewLoggingBus(next collapse.EventBus, logger *slog.Logger) *LoggingBus {
	return &LoggingBus{next: next, logger: logger}
}

// Notify logs e and delegates to the wrapped bus.
func (b *LoggingBus) Notify(e collapse.Event) {
	attrs := []any{"event", string(e.Name)}
	if e.Source != "" {
		attrs = append(attrs, "source", string(e.Source))
	}
	b.logger.Info("event", attrs...)
	b.next.Notify(e)
}

// Subscribe delegates to the wrapped bus.
func (b *LoggingBus) Subscribe(name collapse.EventName, h collapse.Handler) func() {
	b.logger.Debug("subscribe", "event", string(name))
	return b.next.Subscribe(name, h)
}
