package recinject

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var (
	slogCtxKey = ctxKey{}
)

// LoggingContext returns a copy of ctx that carries logger. Assemble and
// Render log through it; without one, nothing is logged.
func LoggingContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, slogCtxKey, logger)
}

func logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(slogCtxKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
