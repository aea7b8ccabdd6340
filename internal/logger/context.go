package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// WithRequestID stores base, tagged with requestID when set, in ctx.
func WithRequestID(ctx context.Context, base *zap.Logger, requestID string) context.Context {
	l := base
	if requestID != "" {
		l = base.With(zap.String("request_id", requestID))
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request logger stored in ctx.
// Without one it returns fallback, or a no-op logger when fallback is nil.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}
