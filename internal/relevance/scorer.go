package relevance

import (
	"strings"

	"github.com/jonesrussell/trendboard/internal/domain"
)

// Mode selects the scoring policy.
type Mode int

const (
	// ModeWeighted sums per-signal points; used for search-term ranking.
	ModeWeighted Mode = iota
	// ModePresence is binary: related when any term matches; used for classification.
	ModePresence
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeWeighted:
		return "weighted"
	case ModePresence:
		return "presence"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// TermScore is the weighted breakdown for one term.
type TermScore struct {
	Term        string `json:"term"`
	Title       int    `json:"title"`
	Summary     int    `json:"summary"`
	ExactTag    int    `json:"exact_tag"`
	PartialTags int    `json:"partial_tags"`
	Total       int    `json:"total"`
}

// Result is a score with its trace. In presence mode Score is 1 or 0.
type Result struct {
	Mode    Mode          `json:"mode"`
	Score   int           `json:"score"`
	Related bool          `json:"related"`
	Terms   []TermScore   `json:"terms,omitempty"`
	Matches []MatchResult `json:"matches,omitempty"`
}

// Scorer aggregates matches into relevance scores.
type Scorer struct {
	weights Weights
	matcher *Matcher
}

// NewScorer creates a scorer. A nil matcher uses the default synonym table.
func NewScorer(weights Weights, matcher *Matcher) *Scorer {
	if matcher == nil {
		matcher = NewMatcher(nil)
	}
	return &Scorer{weights: weights, matcher: matcher}
}

// Weights returns the configured weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Matcher returns the underlying matcher.
func (s *Scorer) Matcher() *Matcher {
	return s.matcher
}

// Score scores one document against terms.
func (s *Scorer) Score(mode Mode, terms []string, doc *domain.Document) Result {
	return s.Prepare(terms).Score(mode, doc)
}

// Prepare compiles terms once for scoring many documents.
func (s *Scorer) Prepare(terms []string) *Prepared {
	return &Prepared{weights: s.weights, set: s.matcher.Compile(terms)}
}

// Prepared scores documents against a compiled term set.
type Prepared struct {
	weights Weights
	set     *TermSet
}

// TermSet returns the compiled term set.
func (p *Prepared) TermSet() *TermSet {
	return p.set
}

// Score scores doc in the given mode.
func (p *Prepared) Score(mode Mode, doc *domain.Document) Result {
	if mode == ModePresence {
		matches := p.set.Match(doc)
		res := Result{Mode: ModePresence, Matches: matches}
		for _, m := range matches {
			if m.Matched {
				res.Related = true
				res.Score = 1
				break
			}
		}
		return res
	}

	terms := p.weighted(doc)
	res := Result{Mode: ModeWeighted, Terms: terms}
	for _, ts := range terms {
		res.Score += ts.Total
	}
	res.Related = res.Score > 0
	return res
}

// Weighted returns the weighted score of doc.
func (p *Prepared) Weighted(doc *domain.Document) int {
	total := 0
	for _, ts := range p.weighted(doc) {
		total += ts.Total
	}
	return total
}

// Related reports presence-mode relatedness of doc.
func (p *Prepared) Related(doc *domain.Document) bool {
	return p.set.Any(doc)
}

func (p *Prepared) weighted(doc *domain.Document) []TermScore {
	if p.set.Empty() || doc == nil {
		return nil
	}
	view := newDocumentView(doc)

	scores := make([]TermScore, 0, p.set.Len())
	for _, t := range p.set.terms {
		ts := TermScore{Term: t}
		if strings.Contains(view.title, t) {
			ts.Title = p.weights.Title
		}
		if strings.Contains(view.summary, t) {
			ts.Summary = p.weights.Summary
		}
		for _, tag := range view.tags {
			if tag == t {
				ts.ExactTag = p.weights.ExactTag
				continue
			}
			if related(tag, t) {
				ts.PartialTags += p.weights.PartialTag
			}
		}
		ts.Total = ts.Title + ts.Summary + ts.ExactTag + ts.PartialTags
		scores = append(scores, ts)
	}
	return scores
}
