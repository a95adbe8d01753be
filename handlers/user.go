package handlers

import (
	"net/http"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Auth *services.AuthService
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	user, err := h.Auth.Profile(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetupTOTP returns a fresh secret and provisioning URL for an
// authenticator app.
func (h *UserHandler) SetupTOTP(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	res, err := h.Auth.SetupTOTP(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) VerifyTOTP(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.VerifyTOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Auth.VerifyTOTP(c.Request.Context(), sess, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled"})
}

func (h *UserHandler) DisableTOTP(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.VerifyTOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Auth.DisableTOTP(c.Request.Context(), sess, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "2FA disabled"})
}
