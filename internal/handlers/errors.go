package handlers

import (
	"errors"
	"net/http"

	"controlling_roaster/internal/roasterr"

	"github.com/gin-gonic/gin"
)

// httpStatusFor maps roaster error codes to HTTP statuses.
func httpStatusFor(err error) int {
	switch roasterr.CodeOf(err) {
	case roasterr.CodeInvalidCommand:
		return http.StatusBadRequest
	case roasterr.CodeNoActiveRoast, roasterr.CodeBeansNotAdded:
		return http.StatusConflict
	case roasterr.CodeNotConnected:
		return http.StatusServiceUnavailable
	case roasterr.CodeConnectionFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response. Roaster errors carry their code
// and message to the client; anything else is reported as userMsg.
func (h *Handler) logAndJSONError(c *gin.Context, userMsg, logKey string, err error, kv ...interface{}) {
	status := httpStatusFor(err)
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "status", status}, kv...)
		if status >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}

	var re *roasterr.Error
	if errors.As(err, &re) {
		c.JSON(status, gin.H{"error": err.Error(), "code": re.Code})
		return
	}
	c.JSON(status, gin.H{"error": userMsg})
}
