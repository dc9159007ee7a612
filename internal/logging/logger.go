// Package logging defines the context-aware structured logger used across the
// service and its logrus-backed implementation.
package logging

import "context"

// Logger takes key-value pairs after the message:
//
//	log.Info(ctx, "checked in", "analyst_id", id, "campaign_id", campaignID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

type contextKey struct{}

// ContextWithFields attaches request-scoped pairs (request id, analyst id)
// that every log call made with the context will carry.
func ContextWithFields(ctx context.Context, args ...any) context.Context {
	existing, _ := ctx.Value(contextKey{}).([]any)
	merged := make([]any, 0, len(existing)+len(args))
	merged = append(merged, existing...)
	merged = append(merged, args...)
	return context.WithValue(ctx, contextKey{}, merged)
}

func fieldsFromContext(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextKey{}).([]any)
	return fields
}
