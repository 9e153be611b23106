package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/advisor"
	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/service"
)

// AdviceHandler asks the LLM advisor to review a configuration.
type AdviceHandler struct {
	advisor *advisor.Advisor
	quotes  *service.QuoteService
	logger  *zap.Logger
}

func NewAdviceHandler(adv *advisor.Advisor, quotes *service.QuoteService, logger *zap.Logger) *AdviceHandler {
	return &AdviceHandler{advisor: adv, quotes: quotes, logger: logger}
}

// AdviceResponse pairs the advice with the quote it was given for.
type AdviceResponse struct {
	Quote  *model.Quote    `json:"quote"`
	Advice *advisor.Result `json:"advice"`
}

// Advise reviews a configuration before ordering.
// Route: POST /api/v1/advice
func (h *AdviceHandler) Advise(c *gin.Context) {
	if !h.advisor.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": advisor.ErrUnavailable.Error()})
		return
	}

	cfg, ok := bindConfiguration(c)
	if !ok {
		return
	}

	quote, err := h.quotes.Evaluate(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.advisor.Advise(c.Request.Context(), quote)
	if errors.Is(err, advisor.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Warn("advisor failed", zap.String("quote_id", quote.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "advisor unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, AdviceResponse{Quote: quote, Advice: result})
}
