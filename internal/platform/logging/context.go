package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext returns the request logger, or the process default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, nil)
}

// FromContextOr prefers the request logger, then fallback, then the
// process default. A nil ctx is allowed.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	if fallback != nil {
		return fallback
	}

	return defaultLogger
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// The With*ID helpers stamp one id on every later log line of the request.

func WithRequestID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, "request_id", id)
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, "correlation_id", id)
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, "trace_id", id)
}

func withAttr(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(slog.String(key, value)))
}

// SetDefault replaces the fallback logger and slog's global default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
