package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skinlens/backend/internal/domain"
	"github.com/skinlens/backend/internal/usecase"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysisService *usecase.AnalysisService
	logger          *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes every
// ingredient endpoint answer 503.
func NewHandler(analysisService *usecase.AnalysisService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		analysisService: analysisService,
		logger:          logger,
	}
}

// HealthCheck returns the health status of the API. modelLoaded reports
// whether a classifier is configured; it does not probe a remote model.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "skinlens-backend",
		"version":     Version,
		"modelLoaded": h.analysisService != nil && h.analysisService.Labels() != nil,
	})
}

// AnalyzeIngredients classifies an ingredient list and flags known irritants
// and comedogenic ingredients
func (h *Handler) AnalyzeIngredients(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	analysis, err := h.analysisService.Analyze(c.Request.Context(), req.Ingredients)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// NormalizeIngredients returns the canonical form of an ingredient list
func (h *Handler) NormalizeIngredients(c *gin.Context) {
	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"canonical": usecase.NormalizeOptional(req.Ingredients),
	})
}

// FlagIngredients reports catalog hits without running the classifier
func (h *Handler) FlagIngredients(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	canonical, flags := h.analysisService.Flag(req.Ingredients)
	if canonical == "" {
		h.handleError(c, domain.ErrEmptyIngredients)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"canonical": canonical,
		"flags":     flags,
		"flagged":   len(flags) > 0,
	})
}

// GetCatalog returns the active flag catalog
func (h *Handler) GetCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	catalog := h.analysisService.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"irritants":   catalog.Irritants(),
		"comedogenic": catalog.Comedogenic(),
	})
}

// GetLabels returns the classifier's labels
func (h *Handler) GetLabels(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	labels := h.analysisService.Labels()
	if labels == nil {
		h.handleError(c, domain.ErrClassifierUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

// GetExamples returns ready-made ingredient lists
func (h *Handler) GetExamples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"examples": usecase.Examples()})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.analysisService == nil {
		respondError(c, http.StatusServiceUnavailable, "analysis service not configured")
		return false
	}
	return true
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyIngredients):
		respondError(c, http.StatusBadRequest, "please provide an ingredient list to analyze")
	case errors.Is(err, domain.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrClassifierUnavailable):
		respondError(c, http.StatusServiceUnavailable, "classifier not configured")
	case errors.Is(err, domain.ErrClassifierFailure):
		h.logger.Error("classifier failure", zap.Error(err), zap.String("requestId", c.GetString(requestIDKey)))
		respondError(c, http.StatusBadGateway, "classifier request failed")
	case errors.Is(err, domain.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, "rate limit exceeded")
	default:
		h.logger.Error("analysis failed", zap.Error(err), zap.String("requestId", c.GetString(requestIDKey)))
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
