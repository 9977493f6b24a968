// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for the
// trendboard engine and service.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "trendboard"

// Metrics holds all trendboard Prometheus metrics
type Metrics struct {
	// Engine metrics
	ScoringDuration      *prometheus.HistogramVec
	DocumentsScored      *prometheus.CounterVec
	CategoriesClassified prometheus.Counter

	// Memo metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Snapshot metrics
	Reloads       *prometheus.CounterVec
	SnapshotSize  prometheus.Gauge
	CategoryCount prometheus.Gauge
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider initializes telemetry on a private Prometheus registry.
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		registry: reg,
	}
}

// Registry exposes the provider's registry.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func initMetrics(f promauto.Factory) *Metrics {
	m := &Metrics{}
	initEngineMetrics(f, m)
	initCacheMetrics(f, m)
	initSnapshotMetrics(f, m)
	return m
}

func initEngineMetrics(f promauto.Factory, m *Metrics) {
	m.ScoringDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendboard_scoring_duration_seconds",
		Help:    "Time to score or classify a document collection",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"operation"})

	m.DocumentsScored = f.NewCounterVec(prometheus.CounterOpts{
		Name: "trendboard_documents_scored_total",
		Help: "Total documents evaluated by the relevance engine",
	}, []string{"operation"})

	m.CategoriesClassified = f.NewCounter(prometheus.CounterOpts{
		Name: "trendboard_categories_classified_total",
		Help: "Total category metrics computed",
	})
}

func initCacheMetrics(f promauto.Factory, m *Metrics) {
	m.CacheHits = f.NewCounterVec(prometheus.CounterOpts{
		Name: "trendboard_cache_hits_total",
		Help: "Memoized results served from Redis",
	}, []string{"operation"})

	m.CacheMisses = f.NewCounterVec(prometheus.CounterOpts{
		Name: "trendboard_cache_misses_total",
		Help: "Memo lookups that fell through to the engine",
	}, []string{"operation"})
}

func initSnapshotMetrics(f promauto.Factory, m *Metrics) {
	m.Reloads = f.NewCounterVec(prometheus.CounterOpts{
		Name: "trendboard_reloads_total",
		Help: "Snapshot reloads by outcome",
	}, []string{"status"})

	m.SnapshotSize = f.NewGauge(prometheus.GaugeOpts{
		Name: "trendboard_snapshot_documents",
		Help: "Documents in the current snapshot",
	})

	m.CategoryCount = f.NewGauge(prometheus.GaugeOpts{
		Name: "trendboard_snapshot_categories",
		Help: "Categories in the current snapshot",
	})
}

// RecordScoring records one pass of the engine over a collection.
func (p *Provider) RecordScoring(ctx context.Context, operation string, documents int, duration time.Duration) {
	p.Metrics.ScoringDuration.WithLabelValues(operation).Observe(duration.Seconds())
	p.Metrics.DocumentsScored.WithLabelValues(operation).Add(float64(documents))
}

// RecordClassified counts computed category metrics.
func (p *Provider) RecordClassified(ctx context.Context, categories int) {
	p.Metrics.CategoriesClassified.Add(float64(categories))
}

// RecordCache records a memo lookup outcome.
func (p *Provider) RecordCache(ctx context.Context, operation string, hit bool) {
	if hit {
		p.Metrics.CacheHits.WithLabelValues(operation).Inc()
		return
	}
	p.Metrics.CacheMisses.WithLabelValues(operation).Inc()
}

// RecordReload records a snapshot reload and the resulting sizes.
func (p *Provider) RecordReload(ctx context.Context, success bool, documents, categories int) {
	if !success {
		p.Metrics.Reloads.WithLabelValues("failed").Inc()
		return
	}
	p.Metrics.Reloads.WithLabelValues("ok").Inc()
	p.Metrics.SnapshotSize.Set(float64(documents))
	p.Metrics.CategoryCount.Set(float64(categories))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
