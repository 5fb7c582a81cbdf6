package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marquee/internal/catalog"
	"marquee/internal/engine"
	"marquee/internal/logger"
	"marquee/internal/schedule"
	"marquee/internal/stream"
)

// Request/Response DTOs

// SelectProgramRequest represents a request to jump to a specific program
type SelectProgramRequest struct {
	ContentID string `json:"content_id" binding:"required"`
}

// ProgramResponse represents a scheduled program in API responses
type ProgramResponse struct {
	ContentID       string    `json:"content_id"`
	Title           string    `json:"title"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
	StreamURL       string    `json:"stream_url"`
}

// NowPlayingResponse represents what the channel is currently showing.
// Airing false with a nil program is the idle state, not an error.
type NowPlayingResponse struct {
	Airing         bool             `json:"airing"`
	Program        *ProgramResponse `json:"program,omitempty"`
	ElapsedSeconds int64            `json:"elapsed_seconds,omitempty"`
	Progress       float64          `json:"progress,omitempty"`
}

// ScheduleResponse represents the full program listing
type ScheduleResponse struct {
	Programs             []*ProgramResponse `json:"programs"`
	TotalDurationSeconds int64              `json:"total_duration_seconds"`
}

// RefreshResponse reports the outcome of a catalog refresh
type RefreshResponse struct {
	ItemCount int    `json:"item_count"`
	Message   string `json:"message"`
}

// ChannelHandler handles channel-related API requests
type ChannelHandler struct {
	engine     *engine.Engine
	catalog    *catalog.Service
	streamHost string
}

// NewChannelHandler creates a new channel handler instance
func NewChannelHandler(eng *engine.Engine, catalogService *catalog.Service, streamHost string) *ChannelHandler {
	return &ChannelHandler{
		engine:     eng,
		catalog:    catalogService,
		streamHost: streamHost,
	}
}

// toProgramResponse converts a scheduled program to API response format
func (h *ChannelHandler) toProgramResponse(p schedule.Program) *ProgramResponse {
	return &ProgramResponse{
		ContentID:       p.Item.ID,
		Title:           p.Item.Title,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		DurationSeconds: p.DurationSeconds(),
		StreamURL:       stream.URL(h.streamHost, p.Item),
	}
}

// GetNowPlaying handles GET /api/channel/now
func (h *ChannelHandler) GetNowPlaying(c *gin.Context) {
	active := h.engine.Tick(time.Now().UTC())
	if active == nil {
		c.JSON(http.StatusOK, NowPlayingResponse{Airing: false})
		return
	}

	c.JSON(http.StatusOK, NowPlayingResponse{
		Airing:         true,
		Program:        h.toProgramResponse(active.Program),
		ElapsedSeconds: active.ElapsedSeconds,
		Progress:       active.Progress,
	})
}

// GetSchedule handles GET /api/channel/schedule
func (h *ChannelHandler) GetSchedule(c *gin.Context) {
	programs := h.engine.Schedule()

	responses := make([]*ProgramResponse, len(programs))
	var total int64
	for i, p := range programs {
		responses[i] = h.toProgramResponse(p)
		total += p.DurationSeconds()
	}

	c.JSON(http.StatusOK, ScheduleResponse{
		Programs:             responses,
		TotalDurationSeconds: total,
	})
}

// SelectProgram handles POST /api/channel/select
func (h *ChannelHandler) SelectProgram(c *gin.Context) {
	var req SelectProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	selected, err := h.engine.Select(req.ContentID)
	if err != nil {
		if errors.Is(err, schedule.ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "No scheduled program for this content ID",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("content_id", req.ContentID).
			Msg("Failed to select program")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "select_failed",
			Message: "Failed to select program",
		})
		return
	}

	c.JSON(http.StatusOK, h.toProgramResponse(*selected))
}

// SkipNext handles POST /api/channel/skip
func (h *ChannelHandler) SkipNext(c *gin.Context) {
	next, err := h.engine.SkipNext()
	if err != nil {
		if errors.Is(err, schedule.ErrEmptySchedule) {
			// Nothing to skip to: a no-op, not a failure
			c.JSON(http.StatusOK, NowPlayingResponse{Airing: false})
			return
		}

		logger.Log.Error().
			Err(err).
			Msg("Failed to skip to next program")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "skip_failed",
			Message: "Failed to skip to next program",
		})
		return
	}

	c.JSON(http.StatusOK, h.toProgramResponse(*next))
}

// RefreshCatalog handles POST /api/catalog/refresh
func (h *ChannelHandler) RefreshCatalog(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	items, err := h.catalog.Refresh(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Catalog refresh failed")

		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "catalog_unavailable",
			Message: "Failed to fetch catalog from upstream",
		})
		return
	}

	h.engine.Rebuild(items)

	c.JSON(http.StatusOK, RefreshResponse{
		ItemCount: len(items),
		Message:   "Schedule rebuilt from refreshed catalog",
	})
}

// SetupChannelRoutes registers channel-related routes
func SetupChannelRoutes(apiGroup *gin.RouterGroup, eng *engine.Engine, catalogService *catalog.Service, streamHost string) {
	handler := NewChannelHandler(eng, catalogService, streamHost)

	apiGroup.GET("/channel/now", handler.GetNowPlaying)
	apiGroup.GET("/channel/schedule", handler.GetSchedule)
	apiGroup.POST("/channel/select", handler.SelectProgram)
	apiGroup.POST("/channel/skip", handler.SkipNext)
	apiGroup.POST("/catalog/refresh", handler.RefreshCatalog)
}
