package api

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. metrics may be nil. admin middleware
// guards the routes that change server state.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler, admin ...gin.HandlerFunc) {
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1")
	{
		articles := v1.Group("/articles")
		{
			articles.GET("", handler.ListArticles)              // GET /api/v1/articles
			articles.GET("/:id/score", handler.GetArticleScore) // GET /api/v1/articles/:id/score
		}

		v1.GET("/sources", handler.ListSources)       // GET /api/v1/sources
		v1.GET("/categories", handler.ListCategories) // GET /api/v1/categories

		trends := v1.Group("/trends")
		{
			trends.GET("/topics", handler.GetTopics) // GET /api/v1/trends/topics
			trends.GET("/themes", handler.GetThemes) // GET /api/v1/trends/themes
		}

		v1.GET("/insights", handler.GetInsights) // GET /api/v1/insights
		v1.GET("/export.xlsx", handler.Export)   // GET /api/v1/export.xlsx

		reload := append(slices.Clip(admin), handler.Reload)
		v1.POST("/reload", reload...) // POST /api/v1/reload
	}
}
