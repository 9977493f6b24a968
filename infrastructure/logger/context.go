package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
)

type ctxKey struct{}

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContextOr returns the logger stored in ctx, or def when the request
// never passed through the request ID middleware.
func FromContextOr(ctx context.Context, def Logger) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return def
}

// FromContext returns the logger stored in ctx, or the shared stderr logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return stderrLogger()
}

var stderrFallback struct {
	once sync.Once
	log  Logger
}

// stderrLogger is built once at warn level. A broken zap config degrades to Nop.
func stderrLogger() Logger {
	stderrFallback.once.Do(func() {
		l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "trendboard: stderr logger unavailable: %v\n", err)
			l = NewNop()
		}
		stderrFallback.log = l
	})
	return stderrFallback.log
}
