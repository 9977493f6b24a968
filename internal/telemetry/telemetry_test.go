package telemetry_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jonesrussell/trendboard/internal/telemetry"
)

func TestNewProvider_IndependentRegistries(t *testing.T) {
	t.Parallel()

	a := telemetry.NewProvider()
	b := telemetry.NewProvider()

	require.NotNil(t, a.Tracer)
	require.NotNil(t, a.Metrics)
	assert.NotSame(t, a.Registry(), b.Registry())

	a.RecordClassified(context.Background(), 6)
	assert.InDelta(t, 6, testutil.ToFloat64(a.Metrics.CategoriesClassified), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Metrics.CategoriesClassified), 0)
}

func TestRecordScoring(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider()
	p.RecordScoring(context.Background(), "rank", 10, 2*time.Millisecond)
	p.RecordScoring(context.Background(), "rank", 5, time.Millisecond)

	assert.InDelta(t, 15, testutil.ToFloat64(p.Metrics.DocumentsScored.WithLabelValues("rank")), 0)
}

func TestRecordCache(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider()
	ctx := context.Background()
	p.RecordCache(ctx, "categories", true)
	p.RecordCache(ctx, "categories", false)
	p.RecordCache(ctx, "categories", false)

	assert.InDelta(t, 1, testutil.ToFloat64(p.Metrics.CacheHits.WithLabelValues("categories")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(p.Metrics.CacheMisses.WithLabelValues("categories")), 0)
}

func TestRecordReload(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider()
	ctx := context.Background()
	p.RecordReload(ctx, true, 42, 6)
	p.RecordReload(ctx, false, 0, 0)

	assert.InDelta(t, 42, testutil.ToFloat64(p.Metrics.SnapshotSize), 0)
	assert.InDelta(t, 6, testutil.ToFloat64(p.Metrics.CategoryCount), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.Metrics.Reloads.WithLabelValues("failed")), 0)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider()
	p.RecordReload(context.Background(), true, 3, 1)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "trendboard_snapshot_documents 3")
}

func TestStartSpan(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider()
	ctx, span := p.StartSpan(context.Background(), "test", attribute.Int("documents", 2))
	defer span.End()

	assert.NotNil(t, ctx)
}
