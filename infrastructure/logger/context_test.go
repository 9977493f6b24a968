package logger_test

import (
	"context"
	"testing"

	"github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	nop := logger.NewNop()
	ctx := logger.WithContext(context.Background(), nop)

	assert.Same(t, nop, logger.FromContext(ctx))
}

func TestFromContext_NoLogger_ReturnsUsableFallback(t *testing.T) {
	t.Parallel()

	fallback := logger.FromContext(context.Background())
	require.NotNil(t, fallback)

	// Warn-level fallback filters debug and info but must accept every call.
	fallback.Debug("debug message")
	fallback.Info("info message")
	fallback.Warn("message with field", logger.String("key", "value"))
}

func TestWithContext_OverwritesPrevious(t *testing.T) {
	t.Parallel()

	first := mustTestLogger(t)
	second := mustTestLogger(t)

	ctx := logger.WithContext(context.Background(), first)
	ctx = logger.WithContext(ctx, second)

	assert.Same(t, second, logger.FromContext(ctx))
}

func TestWith_ReturnsDistinctLogger(t *testing.T) {
	t.Parallel()

	base := mustTestLogger(t)
	enriched := base.With(logger.String("service", "trendboard"))

	assert.NotSame(t, base, enriched)
	assert.Same(t, enriched, logger.FromContext(logger.WithContext(context.Background(), enriched)))
}

func TestFromContextOr(t *testing.T) {
	t.Parallel()

	stored := mustTestLogger(t)
	def := logger.NewNop()

	assert.Same(t, def, logger.FromContextOr(context.Background(), def))
	assert.Same(t, stored, logger.FromContextOr(logger.WithContext(context.Background(), stored), def))
}

func TestFromContext_FallbackIsShared(t *testing.T) {
	t.Parallel()

	assert.Same(t, logger.FromContext(context.Background()), logger.FromContext(context.TODO()))
}

func mustTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	l, err := logger.New(logger.Config{Level: "error", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	return l
}
