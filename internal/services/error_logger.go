package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type contextKey string

// TraceIDKey carries the request trace id through request contexts.
const TraceIDKey contextKey = "trace_id"

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// TraceIDFromContext returns the trace id stored by WithTraceID, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// ErrorLogger writes server failures with full detail to a dedicated log,
// mirrored to the process logger.
type ErrorLogger struct {
	logger  *slog.Logger
	process *slog.Logger
	closer  io.Closer
}

// NewErrorLogger writes JSON records to w.
func NewErrorLogger(w io.Writer, process *slog.Logger) *ErrorLogger {
	if process == nil {
		process = slog.Default()
	}
	return &ErrorLogger{
		logger:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelError})),
		process: process,
	}
}

// OpenErrorLogger appends to the file at path, creating it and its directory.
func OpenErrorLogger(path string, process *slog.Logger) (*ErrorLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create error log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}

	el := NewErrorLogger(f, process)
	el.closer = f
	return el, nil
}

func (el *ErrorLogger) LogError(ctx context.Context, operation string, err error, attrs ...any) {
	if err == nil {
		return
	}

	args := append([]any{
		slog.String("event_type", "server_error"),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.Time("timestamp", time.Now()),
		slog.String("trace_id", TraceIDFromContext(ctx)),
	}, attrs...)

	el.logger.ErrorContext(ctx, "server error", args...)
	el.process.ErrorContext(ctx, operation+" failed", append([]any{"error", err}, attrs...)...)
}

// Close releases the underlying file, if OpenErrorLogger created one.
func (el *ErrorLogger) Close() error {
	if el.closer == nil {
		return nil
	}
	return el.closer.Close()
}
