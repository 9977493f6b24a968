package domain

// Category is a named trigger set of terms. Categories are configuration,
// not derived data.
type Category struct {
	Name        string   `db:"name"        json:"name"        yaml:"name"`
	Description string   `db:"description" json:"description,omitempty" yaml:"description"`
	Terms       []string `db:"terms"       json:"terms"       yaml:"terms"`
	Suggestions []string `db:"suggestions" json:"suggestions,omitempty" yaml:"suggestions"`
}

// Popularity is the three-level tier derived from a trend score.
type Popularity string

const (
	PopularityHigh   Popularity = "High"
	PopularityMedium Popularity = "Medium"
	PopularityLow    Popularity = "Low"
)

// CategoryMetrics summarizes how a document collection relates to a category.
// It is recomputed on demand and never stored with the documents.
type CategoryMetrics struct {
	Category   Category   `json:"category"`
	Count      int        `json:"count"`
	Total      int        `json:"total"`
	TrendScore int        `json:"trend_score"`
	Popularity Popularity `json:"popularity"`
	Sample     []Document `json:"sample"`
}
