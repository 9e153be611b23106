package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/configurator"
	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/service"
	"github.com/fleveque/print-quote-service/internal/storage"
	"github.com/fleveque/print-quote-service/internal/validation"
)

// ArtworkHandler receives artwork uploads and serves their previews.
type ArtworkHandler struct {
	inspector *service.ArtworkInspector
	sessions  *SessionHandler // optional; enables session_id on upload
	maxBytes  int64
	logger    *zap.Logger
}

func NewArtworkHandler(inspector *service.ArtworkInspector, sessions *SessionHandler, maxBytes int64, logger *zap.Logger) *ArtworkHandler {
	return &ArtworkHandler{
		inspector: inspector,
		sessions:  sessions,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// UploadResponse describes a stored artwork file.
type UploadResponse struct {
	File       *model.UploadedFile    `json:"file"`
	Validation model.ValidationResult `json:"validation"`
	Session    *SessionView           `json:"session,omitempty"`
}

// Upload stores an artwork file and reports its measurements.
// Route: POST /api/v1/artwork (multipart: file, width_cm, height_cm,
// background, session_id)
func (h *ArtworkHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file: " + err.Error()})
		return
	}

	widthCM, err := optionalFloat(c.PostForm("width_cm"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid width_cm: " + err.Error()})
		return
	}
	heightCM, err := optionalFloat(c.PostForm("height_cm"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid height_cm: " + err.Error()})
		return
	}

	sessionID := c.PostForm("session_id")
	if sessionID != "" {
		if h.sessions == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessions are not enabled"})
			return
		}
		if _, err := uuid.Parse(sessionID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id: must be a UUID"})
			return
		}
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading file: " + err.Error()})
		return
	}
	defer f.Close()

	file, err := h.inspector.Inspect(service.Upload{
		FileName:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		Content:       f,
		PrintWidthCM:  widthCM,
		PrintHeightCM: heightCM,
		Background:    c.PostForm("background"),
	})
	if err != nil {
		h.logger.Error("storing artwork", zap.String("file_name", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := UploadResponse{
		File:       file,
		Validation: validation.ValidateFile(*file).ValidationResult,
	}

	if sessionID != "" {
		ctx := c.Request.Context()
		cfg, err := h.sessions.sessions.Apply(ctx, sessionID, configurator.UploadedFileAction(file))
		if err == nil {
			resp.Session, err = h.sessions.view(sessionID, cfg)
		}
		if err != nil {
			h.logger.Error("attaching artwork to session",
				zap.String("session_id", sessionID),
				zap.String("artwork_id", file.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// Preview serves the JPEG preview of an uploaded artwork.
// Route: GET /api/v1/artwork/:id/preview
func (h *ArtworkHandler) Preview(c *gin.Context) {
	id := c.Param("id")
	// The id becomes a directory name, so only UUIDs are accepted.
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artwork id"})
		return
	}

	data, err := h.inspector.Preview(id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "preview not found"})
		return
	}
	if err != nil {
		h.logger.Error("reading preview", zap.String("artwork_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Previews never change once written
	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Data(http.StatusOK, "image/jpeg", data)
}

func optionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative: %q", s)
	}
	return v, nil
}
