package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/LovationAdmin/finance-api/middleware"
	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes. Unexpected
// errors are logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTOTPRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "2FA code required", "requires_2fa": true})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoEligibleCard):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInactiveAccount):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrSameAccount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utils.SafeError("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func requireSession(c *gin.Context) (models.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return sess, ok
}

// bindJSON decodes the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// queryTime parses an optional query parameter in layout. ok is false
// after a 400 has been written.
func queryTime(c *gin.Context, name, layout string) (t time.Time, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ", expected " + layout})
		return time.Time{}, false
	}
	return t, true
}
