// Package logger provides the structured logger of the API, built on
// log/slog. The access log middleware stores a logger tagged with the
// request id in the request context; handlers fetch it with WithCtx so their
// log lines correlate with the request:
//
//	log := logger.WithCtx(r.Context())
//	log.Error("insert product", "error", err)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// L is the base logger. Setup replaces it at start up.
var L = slog.Default()

// Setup builds the base logger: JSON in production, text otherwise.
func Setup(production bool) *slog.Logger {
	L = New(os.Stdout, production)
	slog.SetDefault(L)
	return L
}

// New returns a logger writing to w, as JSON at info level in production
// and as text at debug level otherwise.
func New(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type ctxKey struct{}

// InjectLogger stores log in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// WithCtx returns the request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}
