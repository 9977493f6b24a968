package relevance

import (
	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/trendboard/internal/domain"
)

// TermSet is a compiled, immutable term set. Every text needle the strategies
// can ask about (terms, compound parts, synonym expansions) is loaded into one
// Aho-Corasick automaton so each document text is scanned once.
type TermSet struct {
	matcher   *Matcher
	terms     []string
	needles   []string
	automaton *ahocorasick.Matcher
}

// Compile prepares terms for repeated matching. Terms are normalized and
// de-duplicated in first-seen order; blank terms are dropped.
func (m *Matcher) Compile(terms []string) *TermSet {
	ts := &TermSet{
		matcher: m,
		terms:   normalizeSet(terms),
	}

	seen := make(map[string]struct{})
	addNeedle := func(n string) {
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		ts.needles = append(ts.needles, n)
	}

	for _, t := range ts.terms {
		addNeedle(t)
		for _, part := range SplitCompound(t) {
			addNeedle(part)
		}
		for _, syn := range m.synonyms.Lookup(t) {
			addNeedle(syn)
		}
	}

	if len(ts.needles) > 0 {
		ts.automaton = ahocorasick.NewStringMatcher(ts.needles)
	}
	return ts
}

// Terms returns the normalized distinct terms.
func (ts *TermSet) Terms() []string {
	out := make([]string, len(ts.terms))
	copy(out, ts.terms)
	return out
}

// Len returns the number of distinct non-blank terms.
func (ts *TermSet) Len() int {
	return len(ts.terms)
}

// Empty reports whether the set has no usable terms.
func (ts *TermSet) Empty() bool {
	return len(ts.terms) == 0
}

// Match returns one result per distinct term, in term order.
func (ts *TermSet) Match(doc *domain.Document) []MatchResult {
	if ts.Empty() || doc == nil {
		return nil
	}
	view := newDocumentView(doc)
	contains := ts.scan(view.text)

	results := make([]MatchResult, 0, len(ts.terms))
	for _, t := range ts.terms {
		set := ts.matcher.evaluate(t, ts.terms, view, contains)
		results = append(results, MatchResult{Term: t, Strategies: set, Matched: !set.Empty()})
	}
	return results
}

// Any reports whether at least one term matches doc.
func (ts *TermSet) Any(doc *domain.Document) bool {
	if ts.Empty() || doc == nil {
		return false
	}
	view := newDocumentView(doc)
	contains := ts.scan(view.text)

	for _, t := range ts.terms {
		if !ts.matcher.evaluate(t, ts.terms, view, contains).Empty() {
			return true
		}
	}
	return false
}

// scan runs the automaton over text and returns a membership test for needles.
func (ts *TermSet) scan(text string) func(string) bool {
	hits := make(map[string]struct{})
	if ts.automaton != nil && text != "" {
		for _, idx := range ts.automaton.MatchThreadSafe([]byte(text)) {
			if idx >= 0 && idx < len(ts.needles) {
				hits[ts.needles[idx]] = struct{}{}
			}
		}
	}
	return func(needle string) bool {
		_, ok := hits[needle]
		return ok
	}
}
