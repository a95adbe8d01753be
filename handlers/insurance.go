package handlers

import (
	"net/http"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"

	"github.com/gin-gonic/gin"
)

type InsuranceHandler struct {
	Insurance *services.InsuranceService
}

func (h *InsuranceHandler) GetPolicies(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	policies, err := h.Insurance.ListPolicies(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

func (h *InsuranceHandler) CreatePolicy(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.PolicyRequest
	if !bindJSON(c, &req) {
		return
	}
	policy, err := h.Insurance.CreatePolicy(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, policy)
}

func (h *InsuranceHandler) GetPolicy(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	policy, err := h.Insurance.GetPolicy(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

func (h *InsuranceHandler) UpdatePolicy(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.PolicyRequest
	if !bindJSON(c, &req) {
		return
	}
	policy, err := h.Insurance.UpdatePolicy(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

func (h *InsuranceHandler) CancelPolicy(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	policy, err := h.Insurance.CancelPolicy(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// GetClaims lists claims; ?policy_id narrows to one policy.
func (h *InsuranceHandler) GetClaims(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	claims, err := h.Insurance.ListClaims(c.Request.Context(), sess, c.Query("policy_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

func (h *InsuranceHandler) CreateClaim(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.ClaimRequest
	if !bindJSON(c, &req) {
		return
	}
	claim, err := h.Insurance.CreateClaim(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, claim)
}

func (h *InsuranceHandler) TransitionClaim(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.ClaimTransitionRequest
	if !bindJSON(c, &req) {
		return
	}
	claim, err := h.Insurance.TransitionClaim(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}
