package service_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/trendboard/internal/cache"
	"github.com/jonesrussell/trendboard/internal/classifier"
	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/export"
	"github.com/jonesrussell/trendboard/internal/filter"
	"github.com/jonesrussell/trendboard/internal/ranker"
	"github.com/jonesrussell/trendboard/internal/service"
	"github.com/jonesrussell/trendboard/internal/telemetry"
)

type fakeDocuments struct {
	mu   sync.Mutex
	docs []domain.Document
	err  error
}

func (f *fakeDocuments) Load(_ context.Context) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Document(nil), f.docs...), nil
}

func (f *fakeDocuments) set(docs []domain.Document, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = docs
	f.err = err
}

func date(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func fixtures() []domain.Document {
	return []domain.Document{
		{
			ID: "1", Title: "Eco-friendly packaging trends", Summary: "Brands move to recycled boxes.",
			Source: "PPAI", PublishedAt: date("2025-05-01"), Keywords: []string{"packaging", "sustainable"},
		},
		{
			ID: "2", Title: "Smart desk gadgets", Summary: "Wireless chargers for the office.",
			Source: "Big Impex", PublishedAt: date("2025-04-15"), Keywords: []string{"tech", "desk"},
		},
		{
			ID: "3", Title: "Wellness retreat kits", Summary: "Mindfulness for remote staff.",
			Source: "PPAI", Keywords: []string{"wellness"},
		},
	}
}

func categories() classifier.StaticCategories {
	return classifier.StaticCategories{
		{Name: "Tech", Terms: []string{"tech"}},
		{Name: "Eco", Terms: []string{"eco-friendly"}},
	}
}

func ids(docs []domain.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

var now = time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC)

func newDashboard(t *testing.T, opts service.Options) (*service.Dashboard, *fakeDocuments) {
	t.Helper()

	docs := &fakeDocuments{docs: fixtures()}
	opts.Documents = docs
	if opts.Categories == nil {
		opts.Categories = categories()
	}
	opts.Clock = func() time.Time { return now }

	d := service.New(opts)
	require.NoError(t, d.Reload(context.Background()))
	return d, docs
}

func TestDashboard_Articles(t *testing.T) {
	t.Parallel()

	d, _ := newDashboard(t, service.Options{})
	ctx := context.Background()

	testCases := []struct {
		name      string
		query     service.ArticleQuery
		wantTotal int
		wantIDs   []string
	}{
		{name: "default sort is newest first", wantTotal: 3, wantIDs: []string{"1", "2", "3"}},
		{
			name:      "relevance to selected terms",
			query:     service.ArticleQuery{Sort: ranker.ByRelevance, Terms: []string{"tech"}},
			wantTotal: 3,
			wantIDs:   []string{"2", "1", "3"},
		},
		{
			name:      "limit keeps total",
			query:     service.ArticleQuery{Limit: 1},
			wantTotal: 3,
			wantIDs:   []string{"1"},
		},
		{
			name:      "source filter",
			query:     service.ArticleQuery{Filter: filter.Criteria{Source: "PPAI"}},
			wantTotal: 2,
			wantIDs:   []string{"1", "3"},
		},
		{
			name:      "keyword filter uses presence",
			query:     service.ArticleQuery{Filter: filter.Criteria{Keywords: []string{"gadget"}}},
			wantTotal: 1,
			wantIDs:   []string{"2"},
		},
		{
			name:      "relative date range",
			query:     service.ArticleQuery{Filter: filter.Criteria{DateRange: filter.RangeLast90}},
			wantTotal: 2,
			wantIDs:   []string{"1", "2"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			page := d.Articles(ctx, tc.query)
			assert.Equal(t, tc.wantTotal, page.Total)
			assert.Equal(t, tc.wantIDs, ids(page.Articles))
		})
	}
}

func TestDashboard_Score(t *testing.T) {
	t.Parallel()

	d, _ := newDashboard(t, service.Options{})

	report, err := d.Score(context.Background(), "2", []string{"tech"})
	require.NoError(t, err)
	assert.Equal(t, "2", report.Document.ID)
	assert.Equal(t, 8, report.Weighted.Score)
	assert.True(t, report.Presence.Related)

	_, err = d.Score(context.Background(), "missing", []string{"tech"})
	require.ErrorIs(t, err, service.ErrDocumentNotFound)
}

func TestDashboard_CategoryMetrics(t *testing.T) {
	t.Parallel()

	d, _ := newDashboard(t, service.Options{})

	metrics := d.CategoryMetrics(context.Background(), 0)
	require.Len(t, metrics, 2)
	assert.Equal(t, "Tech", metrics[0].Category.Name)
	assert.Equal(t, 1, metrics[0].Count)
	assert.Equal(t, 3, metrics[0].Total)
	assert.Equal(t, 77, metrics[0].TrendScore)
	assert.Equal(t, domain.PopularityHigh, metrics[0].Popularity)
	assert.Equal(t, []string{"2"}, ids(metrics[0].Sample))
	assert.Equal(t, "Eco", metrics[1].Category.Name)
	assert.Equal(t, []string{"1"}, ids(metrics[1].Sample))

	assert.Equal(t, []string{"Tech"}, d.Membership(&fixtures()[1]))
}

func TestDashboard_TopicsSortedByCount(t *testing.T) {
	t.Parallel()

	d, _ := newDashboard(t, service.Options{})

	topics := d.Topics(context.Background())
	require.Len(t, topics, len(classifier.TrendingTopics()))
	for i := 1; i < len(topics); i++ {
		assert.GreaterOrEqual(t, topics[i-1].Count, topics[i].Count)
	}
	for _, m := range topics {
		assert.LessOrEqual(t, len(m.Sample), classifier.TrendingTopicSampleSize)
	}

	assert.Len(t, d.Themes(context.Background()), len(classifier.Themes()))
}

func TestDashboard_Insights(t *testing.T) {
	t.Parallel()

	d, _ := newDashboard(t, service.Options{})

	insights := d.Insights(context.Background())
	assert.Equal(t, 3, insights.Summary.TotalArticles)
	assert.Equal(t, 2, insights.Summary.Sources)
	assert.Equal(t, []string{"PPAI", "Big Impex"}, d.Sources())
}

func TestDashboard_ReloadFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	tp := telemetry.NewProvider()
	d, docs := newDashboard(t, service.Options{Telemetry: tp})
	before := d.Fingerprint()
	require.NotEmpty(t, before)

	docs.set(nil, errors.New("disk on fire"))
	err := d.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load documents")

	assert.Equal(t, before, d.Fingerprint())
	assert.Len(t, d.Documents(), 3)
	assert.InDelta(t, 1, testutil.ToFloat64(tp.Metrics.Reloads.WithLabelValues("failed")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(tp.Metrics.SnapshotSize), 0)
}

// gatedDocuments blocks its first Load until release is closed.
type gatedDocuments struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	first   []domain.Document
	later   []domain.Document
}

func (g *gatedDocuments) Load(ctx context.Context) ([]domain.Document, error) {
	if g.calls.Add(1) == 1 {
		close(g.entered)
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return g.first, nil
	}
	return g.later, nil
}

func TestDashboard_ReloadsDoNotOverlap(t *testing.T) {
	t.Parallel()

	docs := fixtures()
	gate := &gatedDocuments{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		first:   docs[:1],
		later:   docs,
	}
	d := service.New(service.Options{Documents: gate, Categories: categories()})
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- d.Reload(ctx) }()
	<-gate.entered

	fast := make(chan error, 1)
	go func() { fast <- d.Reload(ctx) }()

	select {
	case err := <-fast:
		t.Fatalf("second reload finished while the first was still loading: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(gate.release)
	require.NoError(t, <-slow)
	require.NoError(t, <-fast)

	assert.Equal(t, []string{"1", "2", "3"}, ids(d.Documents()))
	assert.Equal(t, int32(2), gate.calls.Load())
}

func TestDashboard_MemoizesUntilReload(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tp := telemetry.NewProvider()
	d, docs := newDashboard(t, service.Options{
		Memo:      cache.NewMemo(client, "test", time.Minute, nil),
		Telemetry: tp,
	})
	ctx := context.Background()

	first := d.CategoryMetrics(ctx, 0)
	second := d.CategoryMetrics(ctx, 0)
	assert.Equal(t, first[0].Count, second[0].Count)
	assert.Equal(t, ids(first[0].Sample), ids(second[0].Sample))
	assert.InDelta(t, 1, testutil.ToFloat64(tp.Metrics.CacheMisses.WithLabelValues("categories")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(tp.Metrics.CacheHits.WithLabelValues("categories")), 0)

	more := append(fixtures(), domain.Document{ID: "4", Title: "Tech trends", Source: "PPAI"})
	docs.set(more, nil)
	require.NoError(t, d.Reload(ctx))

	third := d.CategoryMetrics(ctx, 0)
	assert.Equal(t, 2, third[0].Count, "a reload must not reuse memoized results")
	assert.InDelta(t, 2, testutil.ToFloat64(tp.Metrics.CacheMisses.WithLabelValues("categories")), 0)

	page := d.Articles(ctx, service.ArticleQuery{Sort: ranker.ByRelevance, Terms: []string{"tech"}})
	cached := d.Articles(ctx, service.ArticleQuery{Sort: ranker.ByRelevance, Terms: []string{"TECH "}})
	assert.Equal(t, ids(page.Articles), ids(cached.Articles))
	assert.InDelta(t, 1, testutil.ToFloat64(tp.Metrics.CacheHits.WithLabelValues("articles")), 0)
}

func TestDashboard_MemoOutageFallsBackToEngine(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	d, _ := newDashboard(t, service.Options{Memo: cache.NewMemo(client, "", 0, nil)})

	metrics := d.CategoryMetrics(context.Background(), 0)
	require.Len(t, metrics, 2)
	assert.Equal(t, 1, metrics[0].Count)
}

func TestDashboard_Export(t *testing.T) {
	t.Parallel()

	d, _ := newDashboard(t, service.Options{})

	var buf bytes.Buffer
	require.NoError(t, d.Export(context.Background(), &buf, service.ArticleQuery{Sort: ranker.ByTitle}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(export.ArticlesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Eco-friendly packaging trends", rows[1][1])
	assert.Equal(t, "2025-06-30", rows[1][7])
}

func TestDashboard_ConcurrentReadsDuringReload(t *testing.T) {
	t.Parallel()

	d, _ := newDashboard(t, service.Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				page := d.Articles(ctx, service.ArticleQuery{Sort: ranker.ByRelevance, Terms: []string{"eco"}})
				assert.Equal(t, 3, page.Total)
				_ = d.CategoryMetrics(ctx, 2)
			}
		}()
	}
	for range 5 {
		require.NoError(t, d.Reload(ctx))
	}
	wg.Wait()
}
