package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gondola/backend/internal/domain"
	"github.com/gondola/backend/internal/infrastructure/jsonfile"
	"github.com/gondola/backend/internal/usecase"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Categorizer groups validated product records into categories
type Categorizer interface {
	Categorize(ctx context.Context, records []domain.ProductRecord) ([]domain.CategoryGroup, error)
	Signature(title string) domain.Signature
}

// StatsProvider exposes cache counters for the health endpoint
type StatsProvider interface {
	Stats() domain.CacheStats
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	categorizer Categorizer
	cache       StatsProvider
	logger      *zap.Logger
	maxRecords  int
}

// NewHandler creates a new HTTP handler. A nil categorizer makes the API
// endpoints answer 503; cache may be nil when caching is disabled.
func NewHandler(categorizer Categorizer, cache StatsProvider, logger *zap.Logger, maxRecords int) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		categorizer: categorizer,
		cache:       cache,
		logger:      logger,
		maxRecords:  maxRecords,
	}
}

// SignatureRequest is the body of POST /api/v1/signature
type SignatureRequest struct {
	Title string `json:"title" binding:"required"`
}

// SignatureResponse explains how a title was reduced
type SignatureResponse struct {
	Title      string           `json:"title"`
	Normalized string           `json:"normalized"`
	Signature  string           `json:"signature"`
	Slots      domain.Signature `json:"slots"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "gondola-backend",
		"version": Version,
	}
	if h.cache != nil {
		body["cache"] = h.cache.Stats()
	}
	c.JSON(http.StatusOK, body)
}

// Categorize groups the JSON array of products in the request body
func (h *Handler) Categorize(c *gin.Context) {
	if h.categorizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "categorization service not configured"})
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	records, err := jsonfile.Parse(data)
	if err != nil {
		h.respondInvalidInput(c, err)
		return
	}

	if h.maxRecords > 0 && len(records) > h.maxRecords {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": domain.ErrTooManyRecords.Error(),
			"limit": h.maxRecords,
		})
		return
	}

	groups, err := h.categorizer.Categorize(c.Request.Context(), records)
	if err != nil {
		h.logger.Error("categorization failed", zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "categorization failed"})
		return
	}

	c.JSON(http.StatusOK, groups)
}

// Signature reports the normalized form and signature of one title
func (h *Handler) Signature(c *gin.Context) {
	if h.categorizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "categorization service not configured"})
		return
	}

	var req SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be {\"title\": \"...\"}"})
		return
	}

	sig := h.categorizer.Signature(req.Title)
	c.JSON(http.StatusOK, SignatureResponse{
		Title:      req.Title,
		Normalized: usecase.Normalize(req.Title),
		Signature:  sig.String(),
		Slots:      sig,
	})
}

func (h *Handler) respondInvalidInput(c *gin.Context, err error) {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fieldErr.Error(),
			"index": fieldErr.Index,
			"field": fieldErr.Field,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
	}
}
