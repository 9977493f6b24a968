package service

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jonesrussell/trendboard/internal/analytics"
	"github.com/jonesrussell/trendboard/internal/cache"
	"github.com/jonesrussell/trendboard/internal/classifier"
	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/export"
	"github.com/jonesrussell/trendboard/internal/filter"
	"github.com/jonesrussell/trendboard/internal/ranker"
	"github.com/jonesrussell/trendboard/internal/relevance"
)

const (
	opArticles   = "articles"
	opCategories = "categories"
	opTopics     = "topics"
	opThemes     = "themes"
	opInsights   = "insights"
)

// ArticleQuery selects, orders and limits articles. A non-positive Limit
// returns every match.
type ArticleQuery struct {
	Filter filter.Criteria
	Sort   ranker.Criterion
	Terms  []string
	Limit  int
}

// ArticlePage is one page of articles and the number of matches before limiting.
type ArticlePage struct {
	Total    int               `json:"total"`
	Articles []domain.Document `json:"articles"`
}

// ScoreReport explains how one document relates to a term set.
type ScoreReport struct {
	Document domain.Document  `json:"document"`
	Weighted relevance.Result `json:"weighted"`
	Presence relevance.Result `json:"presence"`
}

// Articles filters and ranks the snapshot.
func (d *Dashboard) Articles(ctx context.Context, q ArticleQuery) ArticlePage {
	ctx, span := d.tracer.Start(ctx, "dashboard.articles")
	defer span.End()

	s := d.current()
	if q.Sort == "" {
		q.Sort = ranker.ByDate
	}

	// The day is part of the key because relative date ranges move with the clock.
	key := cache.Key(opArticles, s.fingerprint, q.Terms,
		q.Filter.Search,
		q.Filter.Source,
		string(q.Filter.DateRange),
		strings.Join(q.Filter.Keywords, ","),
		string(q.Sort),
		d.now().Format(time.DateOnly),
	)
	ids := memoize(ctx, d, opArticles, key, func() []string {
		started := time.Now()
		ranked := d.ranker.Rank(d.filter.Apply(s.docs, q.Filter), q.Sort, q.Terms)
		d.recordScoring(ctx, opArticles, len(s.docs), started)

		out := make([]string, len(ranked))
		for i := range ranked {
			out[i] = ranked[i].ID
		}
		return out
	})

	page := ArticlePage{Total: len(ids)}
	if q.Limit > 0 && len(ids) > q.Limit {
		ids = ids[:q.Limit]
	}
	page.Articles = make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.byID[id]; ok {
			page.Articles = append(page.Articles, s.docs[i])
		}
	}

	span.SetAttributes(
		attribute.String("sort", string(q.Sort)),
		attribute.Int("total", page.Total),
	)
	return page
}

// Score reports the weighted and presence scores of one document.
func (d *Dashboard) Score(ctx context.Context, id string, terms []string) (ScoreReport, error) {
	_, span := d.tracer.Start(ctx, "dashboard.score")
	defer span.End()

	doc, err := d.Document(id)
	if err != nil {
		return ScoreReport{}, err
	}
	prepared := d.scorer.Prepare(terms)
	return ScoreReport{
		Document: doc,
		Weighted: prepared.Score(relevance.ModeWeighted, &doc),
		Presence: prepared.Score(relevance.ModePresence, &doc),
	}, nil
}

// CategoryMetrics classifies the snapshot against the configured categories.
// A non-positive sample uses the configured sample size.
func (d *Dashboard) CategoryMetrics(ctx context.Context, sample int) []domain.CategoryMetrics {
	s := d.current()
	return d.classify(ctx, opCategories, s, s.categories, sample, false)
}

// Topics classifies the snapshot against the trending topics, busiest first.
func (d *Dashboard) Topics(ctx context.Context) []domain.CategoryMetrics {
	return d.classify(ctx, opTopics, d.current(), classifier.TrendingTopics(), classifier.TrendingTopicSampleSize, true)
}

// Themes classifies the snapshot against the chart themes.
func (d *Dashboard) Themes(ctx context.Context) []domain.CategoryMetrics {
	return d.classify(ctx, opThemes, d.current(), classifier.Themes(), 0, false)
}

func (d *Dashboard) classify(
	ctx context.Context,
	op string,
	s snapshot,
	categories []domain.Category,
	sample int,
	byCount bool,
) []domain.CategoryMetrics {
	ctx, span := d.tracer.Start(ctx, "dashboard."+op)
	defer span.End()
	span.SetAttributes(attribute.Int("categories", len(categories)))

	key := cache.Key(op, s.fingerprint, categoryNames(categories), strconv.Itoa(sample))
	return memoize(ctx, d, op, key, func() []domain.CategoryMetrics {
		started := time.Now()
		metrics := d.classifier.Classify(categories, s.docs, sample)
		d.recordScoring(ctx, op, len(s.docs)*len(categories), started)
		if d.telemetry != nil {
			d.telemetry.RecordClassified(ctx, len(metrics))
		}
		if byCount {
			metrics = classifier.SortByCount(metrics)
		}
		return metrics
	})
}

func categoryNames(categories []domain.Category) []string {
	names := make([]string, len(categories))
	for i := range categories {
		names[i] = categories[i].Name
	}
	return names
}

// Insights computes the chart datasets for the snapshot.
func (d *Dashboard) Insights(ctx context.Context) analytics.Insights {
	ctx, span := d.tracer.Start(ctx, "dashboard.insights")
	defer span.End()

	s := d.current()
	return memoize(ctx, d, opInsights, cache.Key(opInsights, s.fingerprint, nil), func() analytics.Insights {
		return analytics.Build(s.docs)
	})
}

// Membership lists the configured categories doc belongs to.
func (d *Dashboard) Membership(doc *domain.Document) []string {
	return d.classifier.Membership(d.current().categories, doc)
}

// Export writes the articles selected by q as an Excel workbook.
func (d *Dashboard) Export(ctx context.Context, w io.Writer, q ArticleQuery) error {
	ctx, span := d.tracer.Start(ctx, "dashboard.export")
	defer span.End()

	page := d.Articles(ctx, q)
	if err := export.Write(w, page.Articles, d.now()); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
