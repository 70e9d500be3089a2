package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/schedly/catalog-api/internal/config"
	healthHandler "github.com/schedly/catalog-api/internal/handler/health"
	serviceHandler "github.com/schedly/catalog-api/internal/handler/service"
	"github.com/schedly/catalog-api/internal/middleware"
	"github.com/schedly/catalog-api/internal/repository/postgres"
	"github.com/schedly/catalog-api/internal/router"
	catalogService "github.com/schedly/catalog-api/internal/service/catalog"
	"github.com/schedly/catalog-api/pkg/auth"
	"github.com/schedly/catalog-api/pkg/logger"
	redisbroker "github.com/schedly/catalog-api/pkg/messaging/redis"
	"github.com/schedly/catalog-api/pkg/metrics"
	"github.com/schedly/catalog-api/pkg/security"
	"github.com/schedly/catalog-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	serviceRepo := postgres.NewServiceRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	appMetrics := metrics.NewMetrics("catalog", "api")
	catalogSvc := catalogService.NewService(serviceRepo, cfg.Catalog.CacheTTL, appMetrics)

	// Broker for outbox event publication
	zl := log.Logger
	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(
		auth.NewJWTVerifier(cfg.Auth.JWTSecret),
		security.NewBcryptHasher(0),
		cfg.Auth.APIKeyHashes,
	)

	// Handlers
	serviceH := serviceHandler.NewHandler(catalogSvc)
	healthH := healthHandler.NewHandler(map[string]healthHandler.Check{
		"postgres": db.PingContext,
		"redis":    broker.Ping,
	})

	r := router.NewRouter(authMiddleware, serviceH, healthH, router.Config{
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		CORSConfig:     middleware.DefaultCORSConfig(),
		MetricsPrefix:  "catalog_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Outbox processor publishes catalog events to Redis
	processorCtx, cancelProcessor := context.WithCancel(context.Background())
	defer cancelProcessor()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:       cfg.Outbox.BatchSize,
		PollInterval:    cfg.Outbox.PollInterval,
		RetryAttempts:   cfg.Outbox.RetryAttempts,
		RetryDelay:      cfg.Outbox.RetryDelay,
		CleanupInterval: cfg.Outbox.CleanupInterval,
		RetentionPeriod: cfg.Outbox.RetentionPeriod,
	}, logger.NewLogger(nil), appMetrics)
	go outboxProcessor.Start(processorCtx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("catalog API listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	cancelProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
