// Package service owns the document snapshot and exposes the relevance engine to
// the API and CLI.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/classifier"
	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/filter"
	"github.com/jonesrussell/trendboard/internal/ranker"
	"github.com/jonesrussell/trendboard/internal/relevance"
	"github.com/jonesrussell/trendboard/internal/telemetry"
)

//go:generate mockgen -source=dashboard.go -destination=mocks/mock_sources.go -package=mocks

const tracerName = "trendboard/service"

// ErrDocumentNotFound is returned when an ID is not in the current snapshot.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentSource loads the document collection.
type DocumentSource interface {
	Load(ctx context.Context) ([]domain.Document, error)
}

// CategorySource lists the configured categories.
type CategorySource interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// Memo caches computed results. Implemented by cache.Memo.
type Memo interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Options configures a Dashboard. Documents and Categories are required.
type Options struct {
	Documents  DocumentSource
	Categories CategorySource
	Scorer     *relevance.Scorer
	Trend      classifier.TrendConfig
	Memo       Memo
	Telemetry  *telemetry.Provider
	Logger     infralogger.Logger
	Clock      func() time.Time
}

type snapshot struct {
	docs        []domain.Document
	byID        map[string]int
	categories  []domain.Category
	fingerprint string
	loadedAt    time.Time
}

// Dashboard serves engine results over an atomically swapped snapshot.
type Dashboard struct {
	documents  DocumentSource
	categories CategorySource

	scorer     *relevance.Scorer
	classifier *classifier.Classifier
	ranker     *ranker.Ranker
	filter     *filter.Filter

	memo      Memo
	telemetry *telemetry.Provider
	tracer    trace.Tracer
	logger    infralogger.Logger
	now       func() time.Time

	// reloadMu serializes reloads so a slow load never replaces a newer one.
	reloadMu sync.Mutex
	mu       sync.RWMutex
	snap     snapshot
}

// New creates a dashboard with an empty snapshot. Call Reload before serving.
func New(opts Options) *Dashboard {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = relevance.NewScorer(relevance.DefaultWeights(), nil)
	}
	trend := opts.Trend
	if trend == (classifier.TrendConfig{}) {
		trend = classifier.DefaultTrendConfig()
	}
	log := opts.Logger
	if log == nil {
		log = infralogger.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	d := &Dashboard{
		documents:  opts.Documents,
		categories: opts.Categories,
		scorer:     scorer,
		classifier: classifier.New(scorer, trend),
		ranker:     ranker.New(scorer),
		filter:     filter.New(scorer).WithClock(now),
		memo:       opts.Memo,
		telemetry:  opts.Telemetry,
		logger:     log,
		now:        now,
		snap:       snapshot{byID: map[string]int{}},
	}
	if opts.Telemetry != nil {
		d.tracer = opts.Telemetry.Tracer
	} else {
		d.tracer = otel.Tracer(tracerName)
	}
	return d
}

// Reload replaces the snapshot with freshly loaded documents and categories.
// On error the previous snapshot stays in place. Concurrent calls run one at
// a time in arrival order.
func (d *Dashboard) Reload(ctx context.Context) error {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()

	ctx, span := d.tracer.Start(ctx, "dashboard.reload")
	defer span.End()

	docs, err := d.documents.Load(ctx)
	if err != nil {
		d.recordReload(ctx, false, 0, 0)
		span.RecordError(err)
		return fmt.Errorf("failed to load documents: %w", err)
	}
	categories, err := d.categories.List(ctx)
	if err != nil {
		d.recordReload(ctx, false, 0, 0)
		span.RecordError(err)
		return fmt.Errorf("failed to load categories: %w", err)
	}

	next := snapshot{
		docs:       docs,
		byID:       make(map[string]int, len(docs)),
		categories: categories,
		loadedAt:   d.now(),
	}
	for i := range docs {
		if _, dup := next.byID[docs[i].ID]; !dup {
			next.byID[docs[i].ID] = i
		}
	}
	next.fingerprint, err = fingerprint(docs, categories)
	if err != nil {
		d.recordReload(ctx, false, 0, 0)
		return err
	}

	d.mu.Lock()
	d.snap = next
	d.mu.Unlock()

	d.recordReload(ctx, true, len(docs), len(categories))
	span.SetAttributes(
		attribute.Int("documents", len(docs)),
		attribute.Int("categories", len(categories)),
	)
	d.logger.Info("Snapshot reloaded",
		infralogger.Int("documents", len(docs)),
		infralogger.Int("categories", len(categories)),
		infralogger.String("fingerprint", next.fingerprint[:12]),
	)
	return nil
}

func fingerprint(docs []domain.Document, categories []domain.Category) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(docs); err != nil {
		return "", fmt.Errorf("fingerprint documents: %w", err)
	}
	if err := enc.Encode(categories); err != nil {
		return "", fmt.Errorf("fingerprint categories: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (d *Dashboard) current() snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// Documents returns the current collection. Callers must not modify it.
func (d *Dashboard) Documents() []domain.Document {
	return d.current().docs
}

// Categories returns the configured categories.
func (d *Dashboard) Categories() []domain.Category {
	return d.current().categories
}

// Fingerprint identifies the current snapshot contents.
func (d *Dashboard) Fingerprint() string {
	return d.current().fingerprint
}

// LoadedAt is when the current snapshot was loaded; zero before the first reload.
func (d *Dashboard) LoadedAt() time.Time {
	return d.current().loadedAt
}

// Sources lists the distinct document sources in collection order.
func (d *Dashboard) Sources() []string {
	return filter.Sources(d.current().docs)
}

// Document returns the document with id.
func (d *Dashboard) Document(id string) (domain.Document, error) {
	s := d.current()
	i, ok := s.byID[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return s.docs[i], nil
}

func (d *Dashboard) recordReload(ctx context.Context, ok bool, docs, categories int) {
	if d.telemetry != nil {
		d.telemetry.RecordReload(ctx, ok, docs, categories)
	}
}

func (d *Dashboard) recordScoring(ctx context.Context, op string, docs int, started time.Time) {
	if d.telemetry != nil {
		d.telemetry.RecordScoring(ctx, op, docs, time.Since(started))
	}
}

// memoize serves op from the memo when possible and stores fresh results.
// Memo failures are logged and never fail the request.
func memoize[T any](ctx context.Context, d *Dashboard, op, key string, compute func() T) T {
	if d.memo == nil {
		return compute()
	}

	var cached T
	hit, err := d.memo.Get(ctx, key, &cached)
	if err != nil {
		d.logger.Warn("Memo lookup failed",
			infralogger.String("operation", op),
			infralogger.Error(err),
		)
	}
	if d.telemetry != nil {
		d.telemetry.RecordCache(ctx, op, hit)
	}
	if hit {
		return cached
	}

	v := compute()
	if err = d.memo.Set(ctx, key, v); err != nil {
		d.logger.Warn("Memo store failed",
			infralogger.String("operation", op),
			infralogger.Error(err),
		)
	}
	return v
}
