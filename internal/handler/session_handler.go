package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/configurator"
	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/service"
)

// SessionHandler drives live configurator sessions. Clients pick their own
// session id (a UUID) and send one action per edit.
type SessionHandler struct {
	sessions *service.SessionService
	quotes   *service.QuoteService
	logger   *zap.Logger
}

func NewSessionHandler(sessions *service.SessionService, quotes *service.QuoteService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, quotes: quotes, logger: logger}
}

// SessionView is a session's configuration with the quote derived from it.
type SessionView struct {
	SessionID     string              `json:"session_id"`
	Configuration model.Configuration `json:"configuration"`
	Quote         *model.Quote        `json:"quote"`
}

// Get returns the session's configuration, starting from the default one
// on first use.
// Route: GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	cfg, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("loading session", zap.String("session_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.respond(c, id, cfg)
}

// Apply runs one action against the session.
// Route: POST /api/v1/sessions/:id/actions
func (h *SessionHandler) Apply(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var action configurator.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action body: " + err.Error()})
		return
	}

	cfg, err := h.sessions.Apply(c.Request.Context(), id, action)
	if errors.Is(err, service.ErrMalformed) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("applying session action",
			zap.String("session_id", id),
			zap.String("action", string(action.Type)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.respond(c, id, cfg)
}

// Delete forgets the session. Unknown sessions are not an error.
// Route: DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("deleting session", zap.String("session_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// respond prices cfg and writes the session view. Every derived value comes
// from this one snapshot.
func (h *SessionHandler) respond(c *gin.Context, id string, cfg model.Configuration) {
	view, err := h.view(id, cfg)
	if err != nil {
		h.logger.Error("pricing session", zap.String("session_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) view(id string, cfg model.Configuration) (*SessionView, error) {
	quote, err := h.quotes.Evaluate(cfg)
	if err != nil {
		return nil, err
	}
	return &SessionView{SessionID: id, Configuration: cfg, Quote: quote}, nil
}

// sessionID reads and checks the :id path parameter, writing a 400 when it
// is not a UUID.
func sessionID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id: must be a UUID"})
		return "", false
	}
	return id, true
}
