// Package filter applies the dashboard filter panel to a document collection.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/relevance"
)

// ErrUnknownDateRange is returned by ParseDateRange for an unsupported range key.
var ErrUnknownDateRange = errors.New("unknown date range")

// DateRange restricts documents by publish date.
type DateRange string

const (
	RangeAll     DateRange = "all"
	Range2025    DateRange = "2025"
	Range2024    DateRange = "2024"
	RangeLast30  DateRange = "last30"
	RangeLast90  DateRange = "last90"
	RangeLast180 DateRange = "last180"
)

const allSources = "all"

var rangeDays = map[DateRange]int{
	RangeLast30:  30,
	RangeLast90:  90,
	RangeLast180: 180,
}

// ParseDateRange maps a range key to a DateRange. Empty means RangeAll.
func ParseDateRange(s string) (DateRange, error) {
	key := DateRange(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "":
		return RangeAll, nil
	case RangeAll, Range2025, Range2024, RangeLast30, RangeLast90, RangeLast180:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDateRange, s)
	}
}

// Criteria are the filter panel selections. Zero values disable each filter.
type Criteria struct {
	Search    string
	Source    string
	DateRange DateRange
	Keywords  []string
}

// Filter applies criteria using presence-mode matching for keywords.
type Filter struct {
	scorer *relevance.Scorer
	now    func() time.Time
}

// New creates a filter. A nil scorer uses default weights and synonyms.
func New(scorer *relevance.Scorer) *Filter {
	if scorer == nil {
		scorer = relevance.NewScorer(relevance.DefaultWeights(), nil)
	}
	return &Filter{scorer: scorer, now: time.Now}
}

// WithClock overrides the clock used for relative date ranges.
func (f *Filter) WithClock(now func() time.Time) *Filter {
	f.now = now
	return f
}

// Apply returns the documents passing every active filter, in input order.
// Filters run in order: search, source, date range, keywords.
func (f *Filter) Apply(docs []domain.Document, c Criteria) []domain.Document {
	search := relevance.Normalize(c.Search)
	source := strings.TrimSpace(c.Source)
	if strings.EqualFold(source, allSources) {
		source = ""
	}
	inRange := f.dateMatcher(c.DateRange)

	var prepared *relevance.Prepared
	if len(c.Keywords) > 0 {
		prepared = f.scorer.Prepare(c.Keywords)
		if prepared.TermSet().Empty() {
			prepared = nil
		}
	}

	out := make([]domain.Document, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if search != "" && !matchesSearch(doc, search) {
			continue
		}
		if source != "" && doc.Source != source {
			continue
		}
		if inRange != nil && !inRange(doc) {
			continue
		}
		if prepared != nil && !prepared.Related(doc) {
			continue
		}
		out = append(out, *doc)
	}
	return out
}

func matchesSearch(doc *domain.Document, search string) bool {
	return strings.Contains(strings.ToLower(doc.Title), search) ||
		strings.Contains(strings.ToLower(doc.Summary), search) ||
		strings.Contains(strings.ToLower(doc.Source), search)
}

// dateMatcher returns nil when no date restriction applies.
func (f *Filter) dateMatcher(r DateRange) func(*domain.Document) bool {
	switch r {
	case "", RangeAll:
		return nil
	case Range2025, Range2024:
		year := 2025
		if r == Range2024 {
			year = 2024
		}
		return func(d *domain.Document) bool {
			return d.HasDate() && d.PublishedAt.Year() == year
		}
	default:
		days, ok := rangeDays[r]
		if !ok {
			return nil
		}
		cutoff := f.now().AddDate(0, 0, -days)
		return func(d *domain.Document) bool {
			return d.HasDate() && !d.PublishedAt.Before(cutoff)
		}
	}
}

// Sources returns the distinct sources in first-seen order.
func Sources(docs []domain.Document) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range docs {
		s := docs[i].Source
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
