package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	infragin "github.com/jonesrussell/trendboard/infrastructure/gin"
	infrajwt "github.com/jonesrussell/trendboard/infrastructure/jwt"
	"github.com/jonesrussell/trendboard/internal/api"
)

// NewServer builds the HTTP server with health checks for every connected backend.
func NewServer(c *Components) *infragin.Server {
	cfg := c.Config
	limiter := rate.NewLimiter(rate.Limit(cfg.Export.RatePerSecond), cfg.Export.Burst)
	handler := api.NewHandler(c.Dashboard, limiter, c.Logger)

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(c.Logger).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.CORSOrigins).
		WithRoutes(func(router *gin.Engine) {
			api.SetupRoutes(router, handler, c.Telemetry.Handler(), adminMiddleware(c)...)
		})

	if c.Storage != nil {
		builder = builder.WithHealthCheck("elasticsearch", infragin.PingChecker(func() error {
			return c.Storage.TestConnection(context.Background())
		}))
	}
	if c.Database != nil {
		builder = builder.WithHealthCheck("postgres", infragin.PingChecker(c.Database.DB.Ping))
	}

	return builder.Build()
}

// adminMiddleware requires a bearer token on admin routes when a secret is set.
func adminMiddleware(c *Components) []gin.HandlerFunc {
	if c.Config.Auth.JWTSecret == "" {
		c.Logger.Warn("auth.jwt_secret is empty, admin routes are unauthenticated")
		return nil
	}
	return []gin.HandlerFunc{infrajwt.Middleware(c.Config.Auth.JWTSecret)}
}
