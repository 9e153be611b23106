package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/service"
	"github.com/fleveque/print-quote-service/internal/storage"
)

// QuoteHandler prices configurations and serves stored quotes.
type QuoteHandler struct {
	quotes *service.QuoteService
	logger *zap.Logger
}

func NewQuoteHandler(quotes *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, logger: logger}
}

// Evaluate prices a configuration without storing anything.
// Route: POST /api/v1/quotes/evaluate
func (h *QuoteHandler) Evaluate(c *gin.Context) {
	cfg, ok := bindConfiguration(c)
	if !ok {
		return
	}

	quote, err := h.quotes.Evaluate(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Create prices and stores a configuration. Invalid configurations get 422
// with the validation result unless ?allow_invalid=true.
// Route: POST /api/v1/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	cfg, ok := bindConfiguration(c)
	if !ok {
		return
	}

	allowInvalid, err := strconv.ParseBool(c.DefaultQuery("allow_invalid", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid allow_invalid: must be a boolean"})
		return
	}

	quote, err := h.quotes.Create(c.Request.Context(), cfg, allowInvalid)
	switch {
	case errors.Is(err, service.ErrMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidConfiguration):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"validation": quote.Validation,
		})
	case err != nil:
		h.logger.Error("creating quote", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusCreated, quote)
	}
}

// Get returns a stored quote.
// Route: GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	id := c.Param("id")

	quote, err := h.quotes.Get(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "quote not found"})
		return
	}
	if err != nil {
		h.logger.Error("loading quote", zap.String("quote_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// bindConfiguration decodes a Configuration body and rejects unknown enum
// members before anything reaches the pricing core. It writes the 400
// response itself and reports whether the handler should continue.
func bindConfiguration(c *gin.Context) (model.Configuration, bool) {
	var cfg model.Configuration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid configuration body: " + err.Error()})
		return cfg, false
	}
	if err := cfg.Check(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return cfg, false
	}
	return cfg, true
}
