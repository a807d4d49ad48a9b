package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-ideas/backend/config"
	"github.com/pageza/alchemorsel-ideas/backend/internal/api"
	"github.com/pageza/alchemorsel-ideas/backend/internal/database"
	"github.com/pageza/alchemorsel-ideas/backend/internal/logger"
	"github.com/pageza/alchemorsel-ideas/backend/internal/middleware"
	"github.com/pageza/alchemorsel-ideas/backend/internal/router"
	"github.com/pageza/alchemorsel-ideas/backend/internal/server"
	"github.com/pageza/alchemorsel-ideas/backend/internal/service"
	"github.com/pageza/alchemorsel-ideas/backend/internal/store/gormstore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := logger.New("alchemorsel-ideas", "info")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New("alchemorsel-ideas", cfg.LogLevel)
	log.Info().Str("environment", string(cfg.Environment)).Msg("Starting server")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	var limiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			// Continue without rate limiting if Redis is not available
			log.Warn().Err(err).Msg("Redis unavailable, rate limiting disabled")
		} else {
			defer redisClient.Close()
			limiter = middleware.NewAPIRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, log)
		}
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	ideas := service.NewIdeaService(gormstore.New(db), service.WithLogger(log))
	handler := router.SetupRouter(cfg, log, api.NewIdeaHandler(ideas, log), tokens, limiter)

	if err := server.New(cfg, handler, log).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
	log.Info().Msg("Server stopped")
}
