package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/alchemorsel-ideas/backend/config"
	"github.com/pageza/alchemorsel-ideas/backend/internal/api"
	"github.com/pageza/alchemorsel-ideas/backend/internal/middleware"
)

// SetupRouter configures the application routes. limiter may be nil, in
// which case requests are not rate limited.
func SetupRouter(
	cfg *config.Config,
	log zerolog.Logger,
	ideaHandler *api.IdeaHandler,
	tokens middleware.TokenValidator,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/health", api.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authenticate(tokens))
	if limiter != nil {
		v1.Use(limiter.RateLimitMiddleware())
	}
	ideaHandler.RegisterRoutes(v1)

	return router
}
