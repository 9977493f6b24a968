package api

import (
	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/service"
)

// ArticlesResponse is one page of filtered and ranked articles.
type ArticlesResponse struct {
	Articles []domain.Document `json:"articles"`
	Total    int               `json:"total"`
	Count    int               `json:"count"`
}

// ScoreResponse explains one article's relevance to the requested terms.
type ScoreResponse struct {
	service.ScoreReport
	Categories []string `json:"categories"`
}

// CategoriesResponse lists category metrics.
type CategoriesResponse struct {
	Categories []domain.CategoryMetrics `json:"categories"`
	Total      int                      `json:"total"`
}

// SourcesResponse lists the distinct article sources.
type SourcesResponse struct {
	Sources []string `json:"sources"`
}

// ReloadResponse reports the snapshot after a reload.
type ReloadResponse struct {
	Documents   int    `json:"documents"`
	Categories  int    `json:"categories"`
	Fingerprint string `json:"fingerprint"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
