package handlers

import (
	"net/http"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Auth.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
