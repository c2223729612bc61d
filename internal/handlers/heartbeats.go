package handlers

import (
	"net/http"
	"strings"

	"heartbeat_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Request DTO for heartbeat ingestion. Entries are untrusted; anything
// failing validation is dropped, not rejected.
type ingestRequest struct {
	Events []any `json:"events" binding:"required"`
}

// IngestHeartbeatsRequest is an exported model for Swagger docs of the ingest payload.
type IngestHeartbeatsRequest struct {
	// Raw heartbeat records, e.g. {"service":"email","timestamp":"2025-08-04T10:00:00Z"}
	Events []map[string]any `json:"events"`
}

// @Summary      Ingest heartbeats
// @Description  Validates a raw batch and stores the valid subset. Malformed records are counted and dropped; per-record errors are never raised.
// @Tags         heartbeats
// @Accept       json
// @Produce      json
// @Param        body  body   IngestHeartbeatsRequest  true  "Raw heartbeat batch"
// @Success      200   {object}  map[string]int  "accepted, dropped"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/heartbeats [post]
// @Security     BearerAuth
func (h *Handler) ingestHeartbeats(c *gin.Context) {
	ctx := c.Request.Context()

	var input ingestRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	res, err := h.services.Heartbeats.Ingest(ctx, input.Events)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to ingest heartbeats", "heartbeats_ingest_failed",
			err, "batch_size", len(input.Events))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accepted": res.Accepted,
		"dropped":  res.Dropped,
	})
}

// @Summary      List heartbeats
// @Description  Filter stored heartbeats by occurrence time and service. Same time formats as the alerts listing.
// @Tags         heartbeats
// @Produce      json
// @Param        from     query   string  false  "Start of range"
// @Param        to       query   string  false  "End of range. Date-only treated as end of day."
// @Param        service  query   string  false  "Service identifier"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/heartbeats [get]
// @Security     BearerAuth
func (h *Handler) getHeartbeats(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, ok := h.bindTimeRange(c)
	if !ok {
		return
	}

	events, err := h.services.Heartbeats.List(ctx, service.HeartbeatFilter{
		From:    from,
		To:      to,
		Service: strings.TrimSpace(c.Query("service")),
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load heartbeats", "heartbeats_list_failed",
			err, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
