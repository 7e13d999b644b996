package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymbook-promotions/config"
	"gymbook-promotions/internal/delivery/http/middleware"
	v1 "gymbook-promotions/internal/delivery/http/v1"
	"gymbook-promotions/internal/infrastructure/cache"
	"gymbook-promotions/internal/infrastructure/metrics"
	"gymbook-promotions/internal/pricing"
	"gymbook-promotions/internal/repository/pgrepo"
	"gymbook-promotions/internal/usecase"
	"gymbook-promotions/pkg/logger"
	"gymbook-promotions/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "gymbook-promotions"

var version = "dev"

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)

	// Initialize Database with pgx
	pgxPool, err := pgrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	logger.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	promotionRepo := pgrepo.NewPromotionRepository(pgxPool)
	packageRepo := pgrepo.NewPackageRepository(pgxPool)

	// Initialize Cache (In-Memory)
	memCache := cache.NewMemoryCache(cfg.CachePromotionTTL, cfg.CacheCleanupInterval)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promotionMetrics := metrics.New(registry)

	// Promotion Module
	promotionUC := usecase.NewPromotionUsecase(
		promotionRepo,
		packageRepo,
		memCache,
		pricing.NewCalculator(nil),
		promotionMetrics,
		usecase.CacheTTL{Candidates: cfg.CachePromotionTTL, Package: cfg.CachePackageTTL},
	)

	mux := v1.NewRouter(v1.Handlers{
		Promotion:      v1.NewPromotionHandler(promotionUC),
		AdminPromotion: v1.NewAdminPromotionHandler(promotionUC),
		Health:         v1.NewHealthHandler(pgxPool),
		Metrics:        metrics.Handler(registry),
	})

	// Initialize Rate Limiter with lifecycle management
	rateLimiter := middleware.NewRateLimiter(context.Background(), middleware.RateLimitConfig{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
		Sweep: time.Minute,
		Idle:  3 * time.Minute,
	})

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, version, cfg.Port)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
