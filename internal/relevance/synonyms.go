package relevance

import "sort"

// SynonymGroup is a canonical term and the terms interchangeable with it.
type SynonymGroup struct {
	Canonical string   `json:"canonical" yaml:"canonical"`
	Synonyms  []string `json:"synonyms"  yaml:"synonyms"`
}

// SynonymTable resolves a term to every term it shares a group with.
// Lookup is bidirectional: members resolve the same way as the canonical term.
type SynonymTable struct {
	groups []SynonymGroup
	index  map[string][]string
}

var defaultGroups = []SynonymGroup{
	{Canonical: "corporate", Synonyms: []string{"business", "company", "enterprise", "professional", "workplace", "office"}},
	{Canonical: "gift", Synonyms: []string{"gifting", "present", "giveaway", "swag"}},
	{Canonical: "sustainable", Synonyms: []string{"eco", "green", "environmental", "recycled", "eco-friendly", "sustainability"}},
	{Canonical: "tech", Synonyms: []string{"technology", "digital", "smart", "wireless", "innovation", "gadget"}},
	{Canonical: "wellness", Synonyms: []string{"health", "fitness", "self-care", "mindfulness", "wellbeing", "lifestyle"}},
	{Canonical: "remote", Synonyms: []string{"hybrid", "work-from-home", "virtual", "online"}},
	{Canonical: "luxury", Synonyms: []string{"premium", "high-end", "exclusive"}},
	{Canonical: "personalized", Synonyms: []string{"custom", "branded", "customized", "personal", "tailored"}},
	{Canonical: "experience", Synonyms: []string{"subscription", "service", "activity", "event", "adventure"}},
	{Canonical: "professional", Synonyms: []string{"business", "corporate", "executive", "office", "workplace"}},
}

// DefaultSynonyms returns the gifting synonym table.
func DefaultSynonyms() *SynonymTable {
	return NewSynonymTable(defaultGroups)
}

// NewSynonymTable builds a table from groups. Terms are normalized; blank members are ignored.
func NewSynonymTable(groups []SynonymGroup) *SynonymTable {
	t := &SynonymTable{
		groups: make([]SynonymGroup, 0, len(groups)),
		index:  make(map[string][]string),
	}

	for _, g := range groups {
		canonical := Normalize(g.Canonical)
		synonyms := normalizeSet(g.Synonyms)
		if canonical == "" && len(synonyms) == 0 {
			continue
		}
		t.groups = append(t.groups, SynonymGroup{Canonical: canonical, Synonyms: synonyms})

		members := synonyms
		if canonical != "" {
			members = append([]string{canonical}, synonyms...)
		}
		for _, m := range members {
			t.index[m] = append(t.index[m], members...)
		}
	}

	for term, members := range t.index {
		t.index[term] = sortedUnique(members)
	}
	return t
}

// Lookup returns the sorted union of every group the normalized term belongs to,
// or nil when the term is in no group.
func (t *SynonymTable) Lookup(term string) []string {
	if t == nil {
		return nil
	}
	members, ok := t.index[Normalize(term)]
	if !ok {
		return nil
	}
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// Groups returns a copy of the normalized groups.
func (t *SynonymTable) Groups() []SynonymGroup {
	if t == nil {
		return nil
	}
	out := make([]SynonymGroup, len(t.groups))
	for i, g := range t.groups {
		out[i] = SynonymGroup{Canonical: g.Canonical, Synonyms: append([]string(nil), g.Synonyms...)}
	}
	return out
}

func sortedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
