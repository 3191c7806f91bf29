package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errInvalidBodyPref = "invalid body: "
)

// Respond with a status and include the current roast status.
func (h *Handler) respondWithStatus(c *gin.Context, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	resp["roast"] = h.services.Monitoring.GetRoastStatus(c.Request.Context())
	c.JSON(http.StatusOK, resp)
}

// runCommand executes a body-less roaster command.
func (h *Handler) runCommand(c *gin.Context, name string, fn func(ctx context.Context) error) {
	if err := fn(c.Request.Context()); err != nil {
		h.logAndJSONError(c, "failed to "+name, name+"_failed", err)
		return
	}
	h.respondWithStatus(c, name, nil)
}

type heatRequest struct {
	Level *int `json:"level" binding:"required"`
}

type fanRequest struct {
	Speed *int `json:"speed" binding:"required"`
}

type firstCrackRequest struct {
	TemperatureC *float64 `json:"temperature_c" binding:"required"`
	Timestamp    string   `json:"timestamp,omitempty"`
}

// SetHeatRequest documents the set_heat payload.
type SetHeatRequest struct {
	// Heater power in percent: 0..100 in steps of 10
	Level int `json:"level" example:"80"`
}

// SetFanRequest documents the set_fan payload.
type SetFanRequest struct {
	// Fan speed in percent: 0..100 in steps of 10
	Speed int `json:"speed" example:"30"`
}

// FirstCrackRequest documents the first crack report.
type FirstCrackRequest struct {
	// Bean temperature at first crack, 150..250 °C
	TemperatureC float64 `json:"temperature_c" example:"196.5"`
	// When first crack was heard (RFC3339). Defaults to now.
	Timestamp string `json:"timestamp,omitempty" example:"2025-08-27T15:04:05Z"`
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

// @Summary      Start session
// @Description  Connects the roaster and starts polling. Idempotent.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session_id, roast"
// @Failure      502  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/session/start [post]
func (h *Handler) startSession(c *gin.Context) {
	id, err := h.services.Roaster.StartSession(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, "failed to start session", "session_start_failed", err)
		return
	}
	h.respondWithStatus(c, "session_started", gin.H{"session_id": id})
}

// @Summary      Stop session
// @Description  Stops polling and disconnects the roaster. Idempotent.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/session/stop [post]
func (h *Handler) stopSession(c *gin.Context) {
	if err := h.services.Roaster.StopSession(c.Request.Context()); err != nil {
		h.logAndJSONError(c, "failed to stop session", "session_stop_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "session_stopped"})
}

// @Summary      Set heat
// @Tags         roaster
// @Accept       json
// @Produce      json
// @Param        body  body      SetHeatRequest  true  "Heat payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/roaster/heat [post]
func (h *Handler) setHeat(c *gin.Context) {
	var req heatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Roaster.SetHeat(c.Request.Context(), *req.Level); err != nil {
		h.logAndJSONError(c, "failed to set heat", "set_heat_failed", err, "level", *req.Level)
		return
	}
	h.respondWithStatus(c, "heat_set", gin.H{"level": *req.Level})
}

// @Summary      Set fan
// @Tags         roaster
// @Accept       json
// @Produce      json
// @Param        body  body      SetFanRequest  true  "Fan payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/roaster/fan [post]
func (h *Handler) setFan(c *gin.Context) {
	var req fanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Roaster.SetFan(c.Request.Context(), *req.Speed); err != nil {
		h.logAndJSONError(c, "failed to set fan", "set_fan_failed", err, "speed", *req.Speed)
		return
	}
	h.respondWithStatus(c, "fan_set", gin.H{"speed": *req.Speed})
}

// @Summary      Start roaster
// @Description  Starts a session if needed, then the drum.
// @Tags         roaster
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/roaster/start [post]
func (h *Handler) startRoaster(c *gin.Context) {
	h.runCommand(c, "start_roaster", h.services.Roaster.StartRoaster)
}

// @Summary      Stop roaster
// @Description  Stops the drum. Heat must be 0.
// @Tags         roaster
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/roaster/stop [post]
func (h *Handler) stopRoaster(c *gin.Context) {
	h.runCommand(c, "stop_roaster", h.services.Roaster.StopRoaster)
}

// @Summary      Drop beans
// @Description  Heat off, drum off, beans into the cooling tray with cooling on.
// @Tags         roaster
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/roaster/drop [post]
func (h *Handler) dropBeans(c *gin.Context) {
	h.runCommand(c, "drop_beans", h.services.Roaster.DropBeans)
}

// @Summary      Start cooling
// @Tags         roaster
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/roaster/cooling/start [post]
func (h *Handler) startCooling(c *gin.Context) {
	h.runCommand(c, "start_cooling", h.services.Roaster.StartCooling)
}

// @Summary      Stop cooling
// @Tags         roaster
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/roaster/cooling/stop [post]
func (h *Handler) stopCooling(c *gin.Context) {
	h.runCommand(c, "stop_cooling", h.services.Roaster.StopCooling)
}

// @Summary      Load beans (simulators)
// @Description  Charges a simulated roaster. Real roasters are charged by hand.
// @Tags         roaster
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/roaster/load-beans [post]
func (h *Handler) loadBeans(c *gin.Context) {
	h.runCommand(c, "load_beans", h.services.Roaster.LoadBeans)
}

// @Summary      Report first crack
// @Description  Temperature must be within 150..250 °C. Only the first report counts.
// @Tags         roaster
// @Accept       json
// @Produce      json
// @Param        body  body      FirstCrackRequest  true  "First crack report"
// @Success      200   {object}  map[string]interface{}  "status, recorded, roast"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/roaster/first-crack [post]
func (h *Handler) reportFirstCrack(c *gin.Context) {
	var req firstCrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	var when time.Time
	if req.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timestamp; use RFC3339"})
			return
		}
		when = t
	}
	recorded, err := h.services.Roaster.ReportFirstCrack(c.Request.Context(), when, *req.TemperatureC)
	if err != nil {
		h.logAndJSONError(c, "failed to report first crack", "first_crack_failed", err, "temp_c", *req.TemperatureC)
		return
	}
	h.respondWithStatus(c, "first_crack_reported", gin.H{"recorded": recorded})
}

// @Summary      Get roast status
// @Description  Cached sensors, roast metrics and event timestamps. Never blocks on the device.
// @Tags         roaster
// @Produce      json
// @Success      200  {object}  models.RoastStatus
// @Router       /api/v1/roaster/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.GetRoastStatus(c.Request.Context()))
}
