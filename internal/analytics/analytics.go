// Package analytics derives the dashboard chart data from a document collection.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/trendboard/internal/domain"
)

const (
	defaultTopKeywords   = 10
	minTrendingFrequency = 2
	maxTrendingWords     = 30
	trendingPanelSize    = 15
	trendingBaseValue    = 100
	trendingValueStep    = 3
	trendingMinValue     = 20
	trendingTier         = 10
	giftingTier          = 20
	timelineLayout       = "2006-01"
)

// Trending word categories.
const (
	CategoryTrending = "trending"
	CategoryGifting  = "gifting"
	CategoryTopic    = "topic"
)

// DefaultExcludedKeywords are too generic to chart.
var DefaultExcludedKeywords = []string{"gift", "corporate", "gifting"}

// Count is a labelled frequency.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TrendingWord is a frequent keyword with its display value.
type TrendingWord struct {
	Term     string `json:"term"`
	Value    int    `json:"value"`
	Category string `json:"category"`
}

// TrendingPanels groups trending words the way the dashboard lays them out.
type TrendingPanels struct {
	TrendingWords  []TrendingWord `json:"trending_words"`
	RelatedQueries []TrendingWord `json:"related_queries"`
	RelatedTopics  []TrendingWord `json:"related_topics"`
}

// Summary holds collection totals.
type Summary struct {
	TotalArticles int        `json:"total_articles"`
	Sources       int        `json:"sources"`
	Keywords      int        `json:"keywords"`
	Earliest      *time.Time `json:"earliest,omitempty"`
	Latest        *time.Time `json:"latest,omitempty"`
}

// Insights bundles every chart dataset.
type Insights struct {
	Summary     Summary        `json:"summary"`
	BySource    []Count        `json:"by_source"`
	TopKeywords []Count        `json:"top_keywords"`
	Timeline    []Count        `json:"timeline"`
	Trending    TrendingPanels `json:"trending"`
}

// Build computes all insights for docs.
func Build(docs []domain.Document) Insights {
	return Insights{
		Summary:     Summarize(docs),
		BySource:    BySource(docs),
		TopKeywords: TopKeywords(docs, defaultTopKeywords),
		Timeline:    Timeline(docs),
		Trending:    SplitTrending(TrendingWords(docs)),
	}
}

// BySource counts documents per source, highest first then by name.
func BySource(docs []domain.Document) []Count {
	counts := make(map[string]int)
	for i := range docs {
		counts[docs[i].Source]++
	}
	return sortedCounts(counts)
}

// TopKeywords returns the limit most frequent lowercased tags. Without explicit
// exclusions DefaultExcludedKeywords are skipped.
func TopKeywords(docs []domain.Document, limit int, exclude ...string) []Count {
	if len(exclude) == 0 {
		exclude = DefaultExcludedKeywords
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	counts := keywordCounts(docs)
	for k := range skip {
		delete(counts, k)
	}
	return limitCounts(sortedCounts(counts), limit)
}

// RankKeywords returns the limit most frequent lowercased tags with nothing excluded.
func RankKeywords(docs []domain.Document, limit int) []Count {
	return limitCounts(sortedCounts(keywordCounts(docs)), limit)
}

func limitCounts(out []Count, limit int) []Count {
	if limit > 0 && len(out) > limit {
		return out[:limit]
	}
	return out
}

// Timeline counts dated documents per month, oldest first.
func Timeline(docs []domain.Document) []Count {
	counts := make(map[string]int)
	for i := range docs {
		if !docs[i].HasDate() {
			continue
		}
		counts[docs[i].PublishedAt.Format(timelineLayout)]++
	}

	out := make([]Count, 0, len(counts))
	for month, n := range counts {
		out = append(out, Count{Name: month, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TrendingWords returns up to 30 tags seen at least twice, most frequent first,
// with a descending display value.
func TrendingWords(docs []domain.Document) []TrendingWord {
	counts := keywordCounts(docs)
	for k, n := range counts {
		if n < minTrendingFrequency {
			delete(counts, k)
		}
	}

	ranked := sortedCounts(counts)
	if len(ranked) > maxTrendingWords {
		ranked = ranked[:maxTrendingWords]
	}

	words := make([]TrendingWord, 0, len(ranked))
	for i, c := range ranked {
		words = append(words, TrendingWord{
			Term:     c.Name,
			Value:    max(trendingMinValue, trendingBaseValue-i*trendingValueStep),
			Category: trendingCategory(i),
		})
	}
	return words
}

func trendingCategory(rank int) string {
	switch {
	case rank < trendingTier:
		return CategoryTrending
	case rank < giftingTier:
		return CategoryGifting
	default:
		return CategoryTopic
	}
}

// SplitTrending lays words out as the first 15, the next 15, and the first 15 again.
func SplitTrending(words []TrendingWord) TrendingPanels {
	head := window(words, 0, trendingPanelSize)
	return TrendingPanels{
		TrendingWords:  head,
		RelatedQueries: window(words, trendingPanelSize, maxTrendingWords),
		RelatedTopics:  append([]TrendingWord(nil), head...),
	}
}

// Summarize counts articles, distinct sources and distinct keywords, and finds
// the date span.
func Summarize(docs []domain.Document) Summary {
	s := Summary{TotalArticles: len(docs)}
	sources := make(map[string]struct{})
	for i := range docs {
		d := &docs[i]
		if d.Source != "" {
			sources[d.Source] = struct{}{}
		}
		if !d.HasDate() {
			continue
		}
		if s.Earliest == nil || d.PublishedAt.Before(*s.Earliest) {
			t := *d.PublishedAt
			s.Earliest = &t
		}
		if s.Latest == nil || d.PublishedAt.After(*s.Latest) {
			t := *d.PublishedAt
			s.Latest = &t
		}
	}
	s.Sources = len(sources)
	s.Keywords = len(keywordCounts(docs))
	return s
}

func keywordCounts(docs []domain.Document) map[string]int {
	counts := make(map[string]int)
	for i := range docs {
		for _, kw := range docs[i].Keywords {
			k := strings.ToLower(strings.TrimSpace(kw))
			if k == "" {
				continue
			}
			counts[k]++
		}
	}
	return counts
}

func sortedCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func window(words []TrendingWord, from, to int) []TrendingWord {
	if from >= len(words) {
		return []TrendingWord{}
	}
	to = min(to, len(words))
	return append([]TrendingWord(nil), words[from:to]...)
}
