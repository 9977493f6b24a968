// Package classifier partitions a document collection against named categories
// using presence-mode relevance and derives the dashboard trend metrics.
package classifier

import (
	"math"
	"sort"

	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/relevance"
)

// Trend score defaults.
const (
	defaultTrendFloor       = 20
	defaultTrendCap         = 100
	defaultShareWeight      = 2
	defaultCountWeight      = 10
	defaultHighThreshold    = 70
	defaultMediumThreshold  = 40
	defaultSampleSize       = 5
	percentScale            = 100
	trendingTopicSampleSize = 3
)

// TrendConfig holds the trend score formula constants and popularity thresholds.
type TrendConfig struct {
	Floor           float64 `yaml:"floor"`
	Cap             float64 `yaml:"cap"`
	ShareWeight     float64 `yaml:"share_weight"`
	CountWeight     float64 `yaml:"count_weight"`
	HighThreshold   int     `yaml:"high_threshold"`
	MediumThreshold int     `yaml:"medium_threshold"`
	SampleSize      int     `yaml:"sample_size"`
}

// DefaultTrendConfig returns floor 20, cap 100, share weight 2, count weight 10,
// thresholds 70/40 and a sample of 5.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		Floor:           defaultTrendFloor,
		Cap:             defaultTrendCap,
		ShareWeight:     defaultShareWeight,
		CountWeight:     defaultCountWeight,
		HighThreshold:   defaultHighThreshold,
		MediumThreshold: defaultMediumThreshold,
		SampleSize:      defaultSampleSize,
	}
}

// Classifier computes category membership and metrics.
type Classifier struct {
	scorer *relevance.Scorer
	trend  TrendConfig
}

// New creates a classifier. A nil scorer uses default weights and synonyms.
func New(scorer *relevance.Scorer, trend TrendConfig) *Classifier {
	if scorer == nil {
		scorer = relevance.NewScorer(relevance.DefaultWeights(), nil)
	}
	return &Classifier{scorer: scorer, trend: trend}
}

// TrendConfig returns the configured formula constants.
func (c *Classifier) TrendConfig() TrendConfig {
	return c.trend
}

// Related returns the documents related to category, in collection order.
func (c *Classifier) Related(category domain.Category, docs []domain.Document) []domain.Document {
	prepared := c.scorer.Prepare(category.Terms)
	var related []domain.Document
	for i := range docs {
		if prepared.Related(&docs[i]) {
			related = append(related, docs[i])
		}
	}
	return related
}

// Metrics classifies docs against category. The sample holds the first n related
// documents in collection order; n <= 0 uses the configured sample size.
func (c *Classifier) Metrics(category domain.Category, docs []domain.Document, n int) domain.CategoryMetrics {
	if n <= 0 {
		n = c.trend.SampleSize
	}

	related := c.Related(category, docs)
	score := c.TrendScore(len(related), len(docs))

	sample := related
	if len(sample) > n {
		sample = sample[:n]
	}

	return domain.CategoryMetrics{
		Category:   category,
		Count:      len(related),
		Total:      len(docs),
		TrendScore: score,
		Popularity: c.Popularity(score),
		Sample:     append([]domain.Document(nil), sample...),
	}
}

// Classify returns metrics for every category in input order.
func (c *Classifier) Classify(categories []domain.Category, docs []domain.Document, n int) []domain.CategoryMetrics {
	out := make([]domain.CategoryMetrics, 0, len(categories))
	for _, category := range categories {
		out = append(out, c.Metrics(category, docs, n))
	}
	return out
}

// Membership returns the names of the categories doc belongs to, in input order.
func (c *Classifier) Membership(categories []domain.Category, doc *domain.Document) []string {
	var names []string
	for _, category := range categories {
		if c.scorer.Prepare(category.Terms).Related(doc) {
			names = append(names, category.Name)
		}
	}
	return names
}

// TrendScore maps a related count to the clamped, rounded display score.
// An empty collection contributes no share, so the score floors.
func (c *Classifier) TrendScore(related, total int) int {
	share := 0.0
	if total > 0 {
		share = float64(related) / float64(total) * percentScale * c.trend.ShareWeight
	}
	raw := share + float64(related)*c.trend.CountWeight
	return int(math.Round(math.Min(c.trend.Cap, math.Max(c.trend.Floor, raw))))
}

// Popularity maps a trend score to its tier.
func (c *Classifier) Popularity(score int) domain.Popularity {
	switch {
	case score > c.trend.HighThreshold:
		return domain.PopularityHigh
	case score > c.trend.MediumThreshold:
		return domain.PopularityMedium
	default:
		return domain.PopularityLow
	}
}

// SortByCount returns metrics ordered by related count, highest first.
// Equal counts keep their input order.
func SortByCount(metrics []domain.CategoryMetrics) []domain.CategoryMetrics {
	out := append([]domain.CategoryMetrics(nil), metrics...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
