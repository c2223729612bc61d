package handlers

import (
	"errors"
	"net/http"
	"time"

	"heartbeat_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/error constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errRunMonitor      = "failed to run monitor"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for a detection run. A present-but-empty events array is
// an inline run over nothing; an absent events field runs over the
// stored heartbeat log.
type runRequest struct {
	Events          *[]any `json:"events"`
	IntervalSeconds int    `json:"interval_seconds"`
	AllowedMisses   int    `json:"allowed_misses"`
	From            string `json:"from"`
	To              string `json:"to"`
	Service         string `json:"service"`
}

// RunMonitorRequest is an exported model for Swagger docs of the run payload.
type RunMonitorRequest struct {
	// Raw heartbeat records; omit to run over stored heartbeats
	Events []map[string]any `json:"events,omitempty"`
	// Expected seconds between heartbeats (default 60)
	IntervalSeconds int `json:"interval_seconds,omitempty" example:"60"`
	// Consecutive missed slots before an alert (default 3)
	AllowedMisses int `json:"allowed_misses,omitempty" example:"3"`
	// Stored-log window start (RFC3339), only without inline events
	From string `json:"from,omitempty" example:"2025-08-04T00:00:00Z"`
	// Stored-log window end (RFC3339), only without inline events
	To string `json:"to,omitempty" example:"2025-08-05T00:00:00Z"`
	// Restrict a stored-log run to one service
	Service string `json:"service,omitempty" example:"email"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Run gap detection
// @Description  Detects missed heartbeats in the supplied batch (or the stored log when 'events' is omitted) and returns the alerts. Malformed records are silently dropped.
// @Tags         monitor
// @Accept       json
// @Produce      json
// @Param        body  body   RunMonitorRequest  true  "Run payload"
// @Success      200   {object}  map[string]interface{}  "count, alerts"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/monitor/run [post]
// @Security     BearerAuth
func (h *Handler) runMonitor(c *gin.Context) {
	ctx := c.Request.Context()

	var input runRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	params := service.RunParams{
		IntervalSeconds: input.IntervalSeconds,
		AllowedMisses:   input.AllowedMisses,
		Service:         input.Service,
	}
	if input.Events != nil {
		params.Events = *input.Events
	}

	var err error
	if params.From, err = parseOptionalTime(input.From); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
		return
	}
	if params.To, err = parseOptionalTime(input.To); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
		return
	}

	alerts, err := h.services.Monitor.Run(ctx, params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInterval) || errors.Is(err, service.ErrInvalidAllowedMisses) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errRunMonitor, "monitor_run_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// parseOptionalTime parses a body time field, treating "" as unset.
func parseOptionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseQueryTime(s)
}
