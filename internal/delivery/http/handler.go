package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dermalog/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the health check
const Version = "1.0.0"

// InteractionUsecase is the behavior the handlers need from the interaction service
type InteractionUsecase interface {
	Analyze(ctx context.Context, products domain.ProductIngredients) *domain.InteractionReport
	GetInteractions(ctx context.Context, profileID string) (*domain.InteractionReport, error)
	GetIngredients(ctx context.Context, profileID string) (domain.ProductIngredients, error)
	SaveIngredients(ctx context.Context, profileID string, products domain.ProductIngredients) error
	ClearIngredients(ctx context.Context, profileID string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	interactions InteractionUsecase
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil usecase makes the API
// endpoints answer 501.
func NewHandler(interactions InteractionUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		interactions: interactions,
		logger:       logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dermalog-backend",
		"version": Version,
	})
}

// AnalyzeInteractions analyzes the ingredient map in the request body
func (h *Handler) AnalyzeInteractions(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req domain.IngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.Join(domain.ErrInvalidRequest, err))
		return
	}

	c.JSON(http.StatusOK, h.interactions.Analyze(c.Request.Context(), req.Products))
}

// GetInteractions analyzes the cached ingredient map of a profile
func (h *Handler) GetInteractions(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	report, err := h.interactions.GetInteractions(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetIngredients returns the cached ingredient map of a profile
func (h *Handler) GetIngredients(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	products, err := h.interactions.GetIngredients(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// PutIngredients stores the ingredient map of a profile
func (h *Handler) PutIngredients(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req domain.IngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.Join(domain.ErrInvalidRequest, err))
		return
	}

	if err := h.interactions.SaveIngredients(c.Request.Context(), c.Param("profileId"), req.Products); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteIngredients clears the cached ingredient map of a profile
func (h *Handler) DeleteIngredients(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	if err := h.interactions.ClearIngredients(c.Request.Context(), c.Param("profileId")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.interactions == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Interaction service not configured",
		})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrCacheMiss):
		status = http.StatusNotFound
		message = "no ingredient analysis stored for this profile"
	case errors.Is(err, domain.ErrMalformedIngredients):
		status = http.StatusUnprocessableEntity
		message = "stored ingredient data is malformed"
	case errors.Is(err, domain.ErrCacheUnavailable):
		status = http.StatusServiceUnavailable
		message = "ingredient cache unavailable"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"error": message})
}
