package relevance

// Default weighted-mode points.
const (
	defaultTitleWeight      = 10
	defaultSummaryWeight    = 5
	defaultExactTagWeight   = 8
	defaultPartialTagWeight = 3
)

// Weights are the points awarded per weighted-mode signal.
type Weights struct {
	Title      int `json:"title"       yaml:"title"`
	Summary    int `json:"summary"     yaml:"summary"`
	ExactTag   int `json:"exact_tag"   yaml:"exact_tag"`
	PartialTag int `json:"partial_tag" yaml:"partial_tag"`
}

// DefaultWeights returns title 10, summary 5, exact tag 8, partial tag 3.
func DefaultWeights() Weights {
	return Weights{
		Title:      defaultTitleWeight,
		Summary:    defaultSummaryWeight,
		ExactTag:   defaultExactTagWeight,
		PartialTag: defaultPartialTagWeight,
	}
}

// IsZero reports whether no weight is set.
func (w Weights) IsZero() bool {
	return w == Weights{}
}
