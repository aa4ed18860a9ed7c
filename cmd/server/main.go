package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dermalog/backend/config"
	httpDelivery "github.com/dermalog/backend/internal/delivery/http"
	"github.com/dermalog/backend/internal/infrastructure/cache"
	"github.com/dermalog/backend/internal/infrastructure/metrics"
	"github.com/dermalog/backend/internal/logging"
	"github.com/dermalog/backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	os.Exit(execute())
}

// execute returns the process exit code once every deferred cleanup has run.
func execute() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Printf("Failed to build logger: %v", err)
		return 1
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting Dermalog backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	ingredientCache, err := cache.New(cfg.Cache.Type, cfg.Cache.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	if redisCache, ok := ingredientCache.(*cache.RedisCache); ok {
		defer redisCache.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Unreachable Redis is not fatal: analysis degrades to "not analyzed"
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis not reachable at startup", zap.Error(err))
		}
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	interactionService := usecase.NewInteractionService(
		ingredientCache,
		recorder,
		logger.Named("interactions"),
		usecase.InteractionServiceConfig{
			CacheName: cfg.Cache.Name,
			CacheTTL:  cfg.Cache.TTL,
		},
	)

	handler := httpDelivery.NewHandler(interactionService, logger.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, logger.Named("http"), registry)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
