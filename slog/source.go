package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/collapse"
)

// Ensure LoggingSource implements collapse.Source.
var _ collapse.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with logging.
type LoggingSource struct {
	next   collapse.Source
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next collapse.Source, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Load delegates to the wrapped source and logs the operation.
func (s *LoggingSource) Load(ctx context.Context, location string) (in *collapse.Input, err error) {
	defer func(begin time.Time) {
		bytes := 0
		if in != nil {
			bytes = len(in.Content)
		}
		s.logger.Info("load",
			"location", location,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, location)
}
