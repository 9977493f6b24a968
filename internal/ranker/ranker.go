// Package ranker orders document collections by a sort criterion.
package ranker

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/relevance"
)

// ErrUnknownCriterion is returned by ParseCriterion for an unrecognized sort key.
var ErrUnknownCriterion = errors.New("unknown sort criterion")

// Criterion is a sort order.
type Criterion string

const (
	ByDate         Criterion = "date"
	ByDateAsc      Criterion = "date-asc"
	ByTitle        Criterion = "title"
	BySource       Criterion = "source"
	ByKeywordCount Criterion = "keywords"
	ByRelevance    Criterion = "relevance"
)

// aliases maps alternate sort keys used by the dashboard UI.
var aliases = map[string]Criterion{
	"keyword-relevance": ByRelevance,
}

// Criteria lists every supported criterion.
func Criteria() []Criterion {
	return []Criterion{ByDate, ByDateAsc, ByTitle, BySource, ByKeywordCount, ByRelevance}
}

// ParseCriterion maps a sort key to a criterion. Empty means ByDate.
func ParseCriterion(s string) (Criterion, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return ByDate, nil
	}
	for _, c := range Criteria() {
		if string(c) == key {
			return c, nil
		}
	}
	if c, ok := aliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCriterion, s)
}

// Ranker sorts documents. Relevance uses weighted scoring.
type Ranker struct {
	scorer *relevance.Scorer
	lang   language.Tag
}

// New creates a ranker. A nil scorer uses default weights and synonyms.
func New(scorer *relevance.Scorer) *Ranker {
	if scorer == nil {
		scorer = relevance.NewScorer(relevance.DefaultWeights(), nil)
	}
	return &Ranker{scorer: scorer, lang: language.English}
}

// Rank returns a new slice of docs ordered by criterion. The sort is stable.
// Relevance with no usable terms falls back to keyword count; an unknown
// criterion leaves the input order.
func (r *Ranker) Rank(docs []domain.Document, criterion Criterion, terms []string) []domain.Document {
	out := append([]domain.Document(nil), docs...)

	switch criterion {
	case ByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PublishedTime().After(out[j].PublishedTime())
		})
	case ByDateAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PublishedTime().Before(out[j].PublishedTime())
		})
	case ByTitle:
		// collate.Collator keeps internal buffers and is not safe for concurrent use.
		col := collate.New(r.lang)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		})
	case BySource:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Source < out[j].Source
		})
	case ByKeywordCount:
		sortByKeywordCount(out)
	case ByRelevance:
		prepared := r.scorer.Prepare(terms)
		if prepared.TermSet().Empty() {
			sortByKeywordCount(out)
			break
		}
		scored := make([]scoredDocument, len(out))
		for i := range out {
			scored[i] = scoredDocument{doc: out[i], score: prepared.Weighted(&out[i])}
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].score > scored[j].score
		})
		for i := range scored {
			out[i] = scored[i].doc
		}
	}
	return out
}

type scoredDocument struct {
	doc   domain.Document
	score int
}

func sortByKeywordCount(docs []domain.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return len(docs[i].Keywords) > len(docs[j].Keywords)
	})
}
