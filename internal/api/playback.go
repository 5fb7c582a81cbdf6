package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marquee/internal/logger"
	"marquee/internal/models"
	"marquee/internal/playback"
)

// PlaybackConfigRequest represents a request to save playback state
type PlaybackConfigRequest struct {
	PositionSeconds float64 `json:"position_seconds" binding:"gte=0"`
	Volume          float64 `json:"volume" binding:"gte=0,lte=1"`
	Muted           bool    `json:"muted"`
	Quality         string  `json:"quality"`
	Language        string  `json:"language"`
	SubtitleID      *string `json:"subtitle_id"`
	AudioTrackID    string  `json:"audio_track_id"`
	PlaybackRate    float64 `json:"playback_rate" binding:"gt=0"`
}

// PlaybackConfigResponse wraps a config with whether it came from storage.
// Stored false means the title has never been played and defaults apply.
type PlaybackConfigResponse struct {
	Config *models.PlaybackConfig `json:"config"`
	Stored bool                   `json:"stored"`
}

// PlaybackHandler handles playback config API requests
type PlaybackHandler struct {
	persister *playback.Persister
}

// NewPlaybackHandler creates a new playback handler instance
func NewPlaybackHandler(persister *playback.Persister) *PlaybackHandler {
	return &PlaybackHandler{persister: persister}
}

// GetConfig handles GET /api/playback/:content_id/config
func (h *PlaybackHandler) GetConfig(c *gin.Context) {
	contentID := c.Param("content_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	config, err := h.persister.Load(ctx, contentID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", contentID).
			Msg("Failed to load playback config")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "load_failed",
			Message: "Failed to load playback config",
		})
		return
	}

	if config == nil {
		c.JSON(http.StatusOK, PlaybackConfigResponse{
			Config: models.DefaultPlaybackConfig(contentID),
			Stored: false,
		})
		return
	}

	c.JSON(http.StatusOK, PlaybackConfigResponse{
		Config: config,
		Stored: true,
	})
}

// PutConfig handles PUT /api/playback/:content_id/config
func (h *PlaybackHandler) PutConfig(c *gin.Context) {
	contentID := c.Param("content_id")

	var req PlaybackConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	config := &models.PlaybackConfig{
		ContentID:       contentID,
		PositionSeconds: req.PositionSeconds,
		Volume:          req.Volume,
		Muted:           req.Muted,
		Quality:         req.Quality,
		Language:        req.Language,
		SubtitleID:      req.SubtitleID,
		AudioTrackID:    req.AudioTrackID,
		PlaybackRate:    req.PlaybackRate,
		SchemaVersion:   models.ConfigSchemaVersion,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.persister.Save(ctx, config); err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", contentID).
			Msg("Failed to save playback config")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "save_failed",
			Message: "Failed to save playback config",
		})
		return
	}

	c.JSON(http.StatusOK, PlaybackConfigResponse{
		Config: config,
		Stored: true,
	})
}

// SetupPlaybackRoutes registers playback config routes
func SetupPlaybackRoutes(apiGroup *gin.RouterGroup, persister *playback.Persister) {
	handler := NewPlaybackHandler(persister)

	apiGroup.GET("/playback/:content_id/config", handler.GetConfig)
	apiGroup.PUT("/playback/:content_id/config", handler.PutConfig)
}
