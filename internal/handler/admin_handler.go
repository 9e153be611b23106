package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/llm"
	"github.com/fleveque/print-quote-service/internal/service"
	"github.com/fleveque/print-quote-service/internal/storage"
)

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	quoteRepo   storage.QuoteRepository
	sessionRepo storage.SessionRepository
	adviceRepo  storage.AdviceCallRepository
	sessions    *service.SessionService
	logger      *zap.Logger
}

func NewAdminHandler(
	quoteRepo storage.QuoteRepository,
	sessionRepo storage.SessionRepository,
	adviceRepo storage.AdviceCallRepository,
	sessions *service.SessionService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		quoteRepo:   quoteRepo,
		sessionRepo: sessionRepo,
		adviceRepo:  adviceRepo,
		sessions:    sessions,
		logger:      logger,
	}
}

// Stats returns quote, session and advisor counts.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	counts := []struct {
		name  string
		count func() (int64, error)
	}{
		{"quotes", func() (int64, error) { return h.quoteRepo.Count(ctx) }},
		{"valid quotes", func() (int64, error) { return h.quoteRepo.CountByValidity(ctx, true) }},
		{"invalid quotes", func() (int64, error) { return h.quoteRepo.CountByValidity(ctx, false) }},
		{"sessions", func() (int64, error) { return h.sessionRepo.Count(ctx) }},
		{"advice calls", func() (int64, error) { return h.adviceRepo.Count(ctx) }},
	}

	values := make([]int64, len(counts))
	for i, q := range counts {
		n, err := q.count()
		if err != nil {
			h.logger.Error("counting "+q.name, zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		values[i] = n
	}

	byProvider := make(gin.H, len(llm.Providers))
	for _, p := range llm.Providers {
		n, err := h.adviceRepo.CountByProvider(ctx, p)
		if err != nil {
			h.logger.Error("counting advice calls", zap.String("provider", p), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		byProvider[p] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes": gin.H{
			"total":   values[0],
			"valid":   values[1],
			"invalid": values[2],
		},
		"sessions": gin.H{
			"stored": values[3],
			"live":   h.sessions.LiveCount(),
		},
		"advice_calls": gin.H{
			"total":       values[4],
			"by_provider": byProvider,
		},
	})
}
