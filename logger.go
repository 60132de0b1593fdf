package rankeval

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with rankeval-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithMetric adds a metric field to the logger.
func (l *Logger) WithMetric(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", name),
	}
}

// WithLabel adds a group label field to the logger.
func (l *Logger) WithLabel(label string) *Logger {
	return &Logger{
		Logger: l.Logger.With("label", label),
	}
}

// LogRunStart logs the start of an evaluation run.
func (l *Logger) LogRunStart(ctx context.Context, points, groups, bins, workers int) {
	l.InfoContext(ctx, "evaluation started",
		"points", points,
		"groups", groups,
		"bins", bins,
		"workers", workers,
	)
}

// LogGroup logs the scoring of one group.
func (l *Logger) LogGroup(ctx context.Context, label string, size int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "group scoring failed",
			"label", label,
			"size", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "group scored",
			"label", label,
			"size", size,
			"duration", duration,
		)
	}
}

// LogGroupSkipped logs a group excluded from the result.
func (l *Logger) LogGroupSkipped(ctx context.Context, label string, size int, err error) {
	l.WarnContext(ctx, "group skipped",
		"label", label,
		"size", size,
		"reason", err,
	)
}

// LogRun logs the outcome of an evaluation run.
func (l *Logger) LogRun(ctx context.Context, groups, points, skipped int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "evaluation failed",
			"groups", groups,
			"points", points,
			"error", err,
		)
	} else if skipped > 0 {
		l.WarnContext(ctx, "evaluation completed with skipped groups",
			"groups", groups,
			"points", points,
			"skipped", skipped,
			"duration", duration,
		)
	} else {
		l.InfoContext(ctx, "evaluation completed",
			"groups", groups,
			"points", points,
			"duration", duration,
		)
	}
}
