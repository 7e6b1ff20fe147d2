// Package logging is the structured logger shared by the skywatch server.
// Records are JSON lines from log/slog; HTTP handlers put a per-request
// logger carrying http.req.id into the context and services pick it up with
// FromContext.
package logging

import "context"

// Logger takes a message plus alternating keys and values:
//
//	log.Error(ctx, "weather lookup failed", "err", err, "area", area)
//
// Secrets such as passwords, tokens or the weather API key are never passed
// as values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for degraded paths the request survives, like a cache miss
	// caused by a redis error.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}

type ctxKeyLogger struct{}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger{}, l)
}

// FromContext returns the request-scoped logger stored in ctx, or fallback
// when there is none.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(ctxKeyLogger{}).(Logger); ok && l != nil {
		return l
	}
	return fallback
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
