// Package api exposes the trendboard dashboard over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	infrajwt "github.com/jonesrussell/trendboard/infrastructure/jwt"
	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/export"
	"github.com/jonesrussell/trendboard/internal/filter"
	"github.com/jonesrussell/trendboard/internal/ranker"
	"github.com/jonesrussell/trendboard/internal/service"
)

// Handler serves the dashboard API.
type Handler struct {
	dashboard *service.Dashboard
	exports   *rate.Limiter
	logger    infralogger.Logger
}

// NewHandler creates a handler. A nil limiter leaves exports unlimited.
func NewHandler(dashboard *service.Dashboard, exports *rate.Limiter, logger infralogger.Logger) *Handler {
	if exports == nil {
		exports = rate.NewLimiter(rate.Inf, 0)
	}
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &Handler{dashboard: dashboard, exports: exports, logger: logger}
}

// ListArticles handles GET /api/v1/articles
func (h *Handler) ListArticles(c *gin.Context) {
	query, err := parseArticleQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	page := h.dashboard.Articles(c.Request.Context(), query)
	c.JSON(http.StatusOK, ArticlesResponse{
		Articles: page.Articles,
		Total:    page.Total,
		Count:    len(page.Articles),
	})
}

// GetArticleScore handles GET /api/v1/articles/:id/score
func (h *Handler) GetArticleScore(c *gin.Context) {
	id := c.Param("id")
	report, err := h.dashboard.Score(c.Request.Context(), id, listParam(c, "terms"))
	if errors.Is(err, service.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "article not found"})
		return
	}
	if err != nil {
		h.requestLogger(c).Error("Scoring failed", infralogger.String("article_id", id), infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to score article"})
		return
	}

	categories := h.dashboard.Membership(&report.Document)
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, ScoreResponse{ScoreReport: report, Categories: categories})
}

// ListSources handles GET /api/v1/sources
func (h *Handler) ListSources(c *gin.Context) {
	sources := h.dashboard.Sources()
	if sources == nil {
		sources = []string{}
	}
	c.JSON(http.StatusOK, SourcesResponse{Sources: sources})
}

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	sample, err := intParam(c, "sample")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	metrics := h.dashboard.CategoryMetrics(c.Request.Context(), sample)
	c.JSON(http.StatusOK, CategoriesResponse{Categories: metrics, Total: len(metrics)})
}

// GetTopics handles GET /api/v1/trends/topics
func (h *Handler) GetTopics(c *gin.Context) {
	metrics := h.dashboard.Topics(c.Request.Context())
	c.JSON(http.StatusOK, CategoriesResponse{Categories: metrics, Total: len(metrics)})
}

// GetThemes handles GET /api/v1/trends/themes
func (h *Handler) GetThemes(c *gin.Context) {
	metrics := h.dashboard.Themes(c.Request.Context())
	c.JSON(http.StatusOK, CategoriesResponse{Categories: metrics, Total: len(metrics)})
}

// GetInsights handles GET /api/v1/insights
func (h *Handler) GetInsights(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Insights(c.Request.Context()))
}

// Export handles GET /api/v1/export.xlsx
func (h *Handler) Export(c *gin.Context) {
	if !h.exports.Allow() {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "export rate limit exceeded"})
		return
	}

	query, err := parseArticleQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var buf bytes.Buffer
	if err = h.dashboard.Export(c.Request.Context(), &buf, query); err != nil {
		h.requestLogger(c).Error("Export failed", infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// Reload handles POST /api/v1/reload
func (h *Handler) Reload(c *gin.Context) {
	if claims, ok := infrajwt.GetClaims(c); ok {
		h.requestLogger(c).Info("Reload requested", infralogger.String("subject", claims.Sub))
	}
	if err := h.dashboard.Reload(c.Request.Context()); err != nil {
		h.requestLogger(c).Error("Reload failed", infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ReloadResponse{
		Documents:   len(h.dashboard.Documents()),
		Categories:  len(h.dashboard.Categories()),
		Fingerprint: h.dashboard.Fingerprint(),
	})
}

func (h *Handler) requestLogger(c *gin.Context) infralogger.Logger {
	return infralogger.FromContextOr(c.Request.Context(), h.logger)
}

func parseArticleQuery(c *gin.Context) (service.ArticleQuery, error) {
	criterion, err := ranker.ParseCriterion(c.Query("sort"))
	if err != nil {
		return service.ArticleQuery{}, err
	}
	dateRange, err := filter.ParseDateRange(c.Query("date_range"))
	if err != nil {
		return service.ArticleQuery{}, err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return service.ArticleQuery{}, err
	}

	return service.ArticleQuery{
		Filter: filter.Criteria{
			Search:    c.Query("q"),
			Source:    c.Query("source"),
			DateRange: dateRange,
			Keywords:  listParam(c, "keywords"),
		},
		Sort:  criterion,
		Terms: listParam(c, "terms"),
		Limit: limit,
	}, nil
}

// listParam accepts both repeated and comma-separated values.
func listParam(c *gin.Context, name string) []string {
	var out []string
	for _, v := range c.QueryArray(name) {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func intParam(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return n, nil
}
