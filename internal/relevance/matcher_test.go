package relevance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/relevance"
)

func TestMatcher_Strategies(t *testing.T) {
	t.Parallel()

	m := relevance.NewMatcher(nil)

	testCases := []struct {
		name     string
		term     string
		doc      domain.Document
		matched  bool
		fired    []relevance.Strategy
		notFired []relevance.Strategy
	}{
		{
			name:    "exact keyword tag",
			term:    "bamboo",
			doc:     domain.Document{Title: "Office ideas", Keywords: []string{"Bamboo"}},
			matched: true,
			fired:   []relevance.Strategy{relevance.StrategyKeywordTag, relevance.StrategyPartialTag},
			notFired: []relevance.Strategy{
				relevance.StrategyText, relevance.StrategyCompound, relevance.StrategySynonym,
			},
		},
		{
			name:     "term contained in tag",
			term:     "wood",
			doc:      domain.Document{Keywords: []string{"woodworking"}},
			matched:  true,
			fired:    []relevance.Strategy{relevance.StrategyKeywordTag},
			notFired: []relevance.Strategy{relevance.StrategyText},
		},
		{
			name:    "tag contained in term",
			term:    "drinkware",
			doc:     domain.Document{Keywords: []string{"drink"}},
			matched: true,
			fired:   []relevance.Strategy{relevance.StrategyKeywordTag},
		},
		{
			name:     "text match in summary",
			term:     "Packaging",
			doc:      domain.Document{Title: "Trends", Summary: "New packaging ideas"},
			matched:  true,
			fired:    []relevance.Strategy{relevance.StrategyText},
			notFired: []relevance.Strategy{relevance.StrategyKeywordTag, relevance.StrategyPartialTag},
		},
		{
			name:    "text match across title and summary boundary",
			term:    "mugs new",
			doc:     domain.Document{Title: "Mugs", Summary: "New designs"},
			matched: true,
			fired:   []relevance.Strategy{relevance.StrategyText},
		},
		{
			name:     "compound part in text",
			term:     "hand-made",
			doc:      domain.Document{Summary: "Made in small batches"},
			matched:  true,
			fired:    []relevance.Strategy{relevance.StrategyCompound},
			notFired: []relevance.Strategy{relevance.StrategyText},
		},
		{
			name:     "synonym in text",
			term:     "gifting",
			doc:      domain.Document{Title: "Holiday swag ideas"},
			matched:  true,
			fired:    []relevance.Strategy{relevance.StrategySynonym},
			notFired: []relevance.Strategy{relevance.StrategyText, relevance.StrategyKeywordTag},
		},
		{
			name:    "synonym related to tag",
			term:    "luxury",
			doc:     domain.Document{Keywords: []string{"premium-leather"}},
			matched: true,
			fired:   []relevance.Strategy{relevance.StrategySynonym},
		},
		{
			name:    "no match",
			term:    "pottery",
			doc:     domain.Document{Title: "Tech gadgets", Summary: "Wireless chargers", Keywords: []string{"tech"}},
			matched: false,
		},
		{
			name:    "blank term never matches",
			term:    "   ",
			doc:     domain.Document{Title: "Anything", Keywords: []string{"anything"}},
			matched: false,
		},
		{
			name:    "blank tags ignored",
			term:    "pottery",
			doc:     domain.Document{Keywords: []string{"", "  "}},
			matched: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := tc.doc
			got := m.Match(tc.term, &doc)

			assert.Equal(t, tc.matched, got.Matched)
			assert.Equal(t, tc.matched, !got.Strategies.Empty())
			for _, s := range tc.fired {
				assert.True(t, got.Strategies.Has(s), "expected %s to fire", s)
			}
			for _, s := range tc.notFired {
				assert.False(t, got.Strategies.Has(s), "expected %s not to fire", s)
			}
		})
	}
}

func TestMatcher_CompoundAgainstSplitTags(t *testing.T) {
	t.Parallel()

	m := relevance.NewMatcher(nil)
	doc := &domain.Document{
		Title:    "Quarterly review",
		Summary:  "Notes from the sales team",
		Keywords: []string{"eco", "friendly-design"},
	}

	got := m.Match("eco-friendly", doc)

	assert.True(t, got.Matched)
	assert.True(t, got.Strategies.Has(relevance.StrategyCompound))
	assert.False(t, got.Strategies.Has(relevance.StrategyText))
}

func TestMatcher_PartialTagUsesWholeTermSet(t *testing.T) {
	t.Parallel()

	m := relevance.NewMatcher(nil)
	doc := &domain.Document{Title: "Office chairs", Keywords: []string{"technology"}}

	alone := m.Match("wellness", doc)
	assert.False(t, alone.Matched)

	inContext := m.MatchInContext("wellness", []string{"wellness", "tech"}, doc)
	assert.True(t, inContext.Matched)
	assert.Equal(t, []string{"partial_tag"}, inContext.Strategies.Names())
}

func TestMatcher_CaseAndWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	m := relevance.NewMatcher(nil)
	docs := []domain.Document{
		{Title: "Sustainable Corporate Gifts", Keywords: []string{"sustainable", "corporate"}},
		{Summary: "eco-friendly packaging trends"},
		{Keywords: []string{"eco", "friendly-design"}},
		{Title: "Smart Desk Gadgets"},
		{},
	}
	terms := []string{"  SUSTAINABLE", "Eco-Friendly ", "Tech", "\tgift", "Corporate Gifts"}

	for i := range docs {
		for _, term := range terms {
			assert.Equal(t,
				m.Match(relevance.Normalize(term), &docs[i]),
				m.Match(term, &docs[i]),
				"doc %d term %q", i, term)
		}
	}
}

func TestMatcher_NilDocument(t *testing.T) {
	t.Parallel()

	got := relevance.NewMatcher(nil).Match("gift", nil)
	assert.False(t, got.Matched)
	assert.Equal(t, "gift", got.Term)
}

func TestStrategySet_MarshalJSON(t *testing.T) {
	t.Parallel()

	m := relevance.NewMatcher(nil)
	got := m.Match("eco-friendly", &domain.Document{Summary: "eco-friendly bags"})

	raw, err := got.Strategies.MarshalJSON()
	assert.NoError(t, err)
	assert.JSONEq(t, `["text","compound","synonym"]`, string(raw))
}
