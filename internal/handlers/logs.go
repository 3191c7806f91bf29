package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"controlling_roaster/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLimitInvalid = "invalid 'limit'; use a positive integer"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// parseLimit reads an optional positive ?limit=.
func parseLimit(c *gin.Context) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// @Summary      List roast log
// @Description  Filter events by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), type and session. If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         logs
// @Produce      json
// @Param        from        query   string  false  "Start of range"  example(2025-08-01)
// @Param        to          query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type        query   string  false  "Event type"  Enums(SESSION_START,SESSION_STOP,COMMAND,CHARGE,FIRST_CRACK,DROP,WARNING)
// @Param        session_id  query   string  false  "Session id"
// @Param        limit       query   int     false  "Maximum number of events"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from      time.Time
		to        time.Time
		eventType = strings.ToUpper(strings.TrimSpace(c.Query("type")))
		sessionID = strings.TrimSpace(c.Query("session_id"))
		err       error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	// If only a date is provided, make 'to' end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return
	}

	events, err := h.services.EventLog.List(ctx, service.LogFilter{
		From:      from,
		To:        to,
		Type:      eventType,
		SessionID: sessionID,
		Limit:     limit,
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "from", from, "to", to, "type", eventType)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      List session readings
// @Description  Polled sensor readings of one roast session, oldest first.
// @Tags         logs
// @Produce      json
// @Param        id     path    string  true   "Session id"
// @Param        limit  query   int     false  "Maximum number of readings"
// @Success      200   {object}  map[string]interface{}  "session_id, count, readings"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/sessions/{id}/readings [get]
func (h *Handler) getSessionReadings(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return
	}
	readings, err := h.services.EventLog.Readings(c.Request.Context(), id, limit)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("readings_list_failed", "err", err, "session_id", id)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load readings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": id,
		"count":      len(readings),
		"readings":   readings,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
