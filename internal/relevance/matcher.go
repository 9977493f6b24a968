// Package relevance implements keyword matching and relevance scoring of documents
// against term sets. Every function is pure and safe for concurrent use.
package relevance

import (
	"encoding/json"
	"strings"

	"github.com/jonesrussell/trendboard/internal/domain"
)

// Strategy identifies one way a term can match a document.
type Strategy uint8

const (
	StrategyKeywordTag Strategy = 1 << iota
	StrategyText
	StrategyCompound
	StrategyPartialTag
	StrategySynonym
)

var strategyNames = []struct {
	strategy Strategy
	name     string
}{
	{StrategyKeywordTag, "keyword_tag"},
	{StrategyText, "text"},
	{StrategyCompound, "compound"},
	{StrategyPartialTag, "partial_tag"},
	{StrategySynonym, "synonym"},
}

// String returns the strategy name.
func (s Strategy) String() string {
	for _, sn := range strategyNames {
		if sn.strategy == s {
			return sn.name
		}
	}
	return "unknown"
}

// StrategySet is the set of strategies that fired for one term.
type StrategySet uint8

// Has reports whether s contains strategy.
func (s StrategySet) Has(strategy Strategy) bool {
	return s&StrategySet(strategy) != 0
}

// Empty reports whether no strategy fired.
func (s StrategySet) Empty() bool {
	return s == 0
}

func (s *StrategySet) add(strategy Strategy) {
	*s |= StrategySet(strategy)
}

// Names lists the fired strategies in evaluation order.
func (s StrategySet) Names() []string {
	names := make([]string, 0, len(strategyNames))
	for _, sn := range strategyNames {
		if s.Has(sn.strategy) {
			names = append(names, sn.name)
		}
	}
	return names
}

// MarshalJSON encodes the set as a list of strategy names.
func (s StrategySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// MatchResult records how one term matched one document.
type MatchResult struct {
	Term       string      `json:"term"`
	Strategies StrategySet `json:"strategies"`
	Matched    bool        `json:"matched"`
}

// Matcher evaluates the five matching strategies for a term against a document.
type Matcher struct {
	synonyms *SynonymTable
}

// NewMatcher creates a matcher. A nil table falls back to DefaultSynonyms.
func NewMatcher(synonyms *SynonymTable) *Matcher {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Matcher{synonyms: synonyms}
}

// Synonyms returns the table used for synonym expansion.
func (m *Matcher) Synonyms() *SynonymTable {
	return m.synonyms
}

// Match evaluates term against doc with the term as its own context.
func (m *Matcher) Match(term string, doc *domain.Document) MatchResult {
	return m.MatchInContext(term, []string{term}, doc)
}

// MatchInContext evaluates term against doc. The partial keyword-tag strategy
// considers every term of termSet, so a document can satisfy it through a
// sibling term.
func (m *Matcher) MatchInContext(term string, termSet []string, doc *domain.Document) MatchResult {
	t := Normalize(term)
	result := MatchResult{Term: t}
	if t == "" || doc == nil {
		return result
	}

	view := newDocumentView(doc)
	contains := func(needle string) bool { return strings.Contains(view.text, needle) }

	result.Strategies = m.evaluate(t, normalizeSet(termSet), view, contains)
	result.Matched = !result.Strategies.Empty()
	return result
}

// evaluate runs every strategy for a normalized term. contains answers
// substring questions against the document text.
func (m *Matcher) evaluate(t string, siblings []string, view documentView, contains func(string) bool) StrategySet {
	var set StrategySet

	if view.tagRelated(t) {
		set.add(StrategyKeywordTag)
	}
	if contains(t) {
		set.add(StrategyText)
	}
	for _, part := range SplitCompound(t) {
		if contains(part) || view.tagRelated(part) {
			set.add(StrategyCompound)
			break
		}
	}
	for _, other := range siblings {
		if view.tagRelated(other) {
			set.add(StrategyPartialTag)
			break
		}
	}
	for _, syn := range m.synonyms.Lookup(t) {
		if contains(syn) || view.tagRelated(syn) {
			set.add(StrategySynonym)
			break
		}
	}
	return set
}

// documentView is the normalized form of a document used by matching.
type documentView struct {
	title   string
	summary string
	text    string
	tags    []string
}

func newDocumentView(doc *domain.Document) documentView {
	title := Normalize(doc.Title)
	summary := Normalize(doc.Summary)
	return documentView{
		title:   title,
		summary: summary,
		text:    Normalize(doc.Title + " " + doc.Summary),
		tags:    normalizeSet(doc.Keywords),
	}
}

func (v documentView) tagRelated(term string) bool {
	for _, tag := range v.tags {
		if related(term, tag) {
			return true
		}
	}
	return false
}
