package http

import (
	"github.com/dermalog/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router. When gatherer is nil
// the /metrics endpoint is not mounted.
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := RegisterValidators(); err != nil {
		logger.Error("failed to register request validators", zap.Error(err))
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		v1.POST("/interactions/analyze", handler.AnalyzeInteractions)

		profiles := v1.Group("/profiles/:profileId")
		{
			profiles.GET("/interactions", handler.GetInteractions)
			profiles.GET("/ingredients", handler.GetIngredients)
			profiles.PUT("/ingredients", handler.PutIngredients)
			profiles.DELETE("/ingredients", handler.DeleteIngredients)
		}
	}

	return router
}
