package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogContext carries the structured identifiers attached to every log line
// of a build run.
type LogContext struct {
	BuildID string
	Stage   string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuild attaches a fresh build ID to the context. Called once per run.
func WithBuild(ctx context.Context) context.Context {
	lc := extract(ctx)
	lc.BuildID = uuid.NewString()
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage attaches a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extract(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// BuildID returns the run's build ID, if any.
func BuildID(ctx context.Context) string {
	return extract(ctx).BuildID
}

func extract(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func attrs(ctx context.Context) []slog.Attr {
	lc := extract(ctx)
	var out []slog.Attr
	if lc.BuildID != "" {
		out = append(out, slog.String("build.id", lc.BuildID))
	}
	if lc.Stage != "" {
		out = append(out, slog.String("stage", lc.Stage))
	}
	return out
}

// Debug logs a debug message with the context identifiers.
func Debug(ctx context.Context, msg string, extra ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, append(attrs(ctx), extra...)...)
}

// Info logs an info message with the context identifiers.
func Info(ctx context.Context, msg string, extra ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, append(attrs(ctx), extra...)...)
}

// Warn logs a warning with the context identifiers.
func Warn(ctx context.Context, msg string, extra ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelWarn, msg, append(attrs(ctx), extra...)...)
}

// Error logs an error with the context identifiers.
func Error(ctx context.Context, msg string, extra ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelError, msg, append(attrs(ctx), extra...)...)
}
