package anchorgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with anchorgo-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithCount adds a count (number of boxes) field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogIteration logs a single clustering pass at debug level.
func (l *Logger) LogIteration(ctx context.Context, it Iteration) {
	l.DebugContext(ctx, "kmeans iteration",
		"iteration", it.Index,
		"loss", it.Loss,
		"mean_iou", it.MeanIoU,
		"reassigned", it.Reassigned,
	)
}

// LogProgress logs clustering progress at info level.
func (l *Logger) LogProgress(ctx context.Context, it Iteration) {
	l.InfoContext(ctx, "kmeans progress",
		"iteration", it.Index,
		"loss", it.Loss,
		"mean_iou", it.MeanIoU,
	)
}

// LogRun logs the outcome of a clustering run.
func (l *Logger) LogRun(ctx context.Context, res *Result, duration time.Duration, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "kmeans failed",
			"duration", duration,
			"error", err,
		)
	case !res.Converged:
		l.WarnContext(ctx, "kmeans stopped without convergence",
			"iterations", res.Iterations,
			"mean_iou", res.MeanIoU,
			"duration", duration,
		)
	default:
		l.InfoContext(ctx, "kmeans converged",
			"iterations", res.Iterations,
			"mean_iou", res.MeanIoU,
			"empty_clusters", res.EmptyClusters,
			"duration", duration,
		)
	}
}
