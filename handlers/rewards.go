package handlers

import (
	"net/http"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	Rewards *services.RewardService
	Bonuses *services.BonusService
}

func (h *RewardHandler) BestCard(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.RewardRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := h.Rewards.Best(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *RewardHandler) CompareCards(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.RewardRequest
	if !bindJSON(c, &req) {
		return
	}
	quotes, err := h.Rewards.Compare(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// GetBonuses returns every stored bonus with the tracker's view of the
// ones still in progress.
func (h *RewardHandler) GetBonuses(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	bonuses, err := h.Bonuses.List(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	progress, err := h.Bonuses.Progress(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bonuses": bonuses, "progress": progress})
}

func (h *RewardHandler) CreateBonus(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.CreateBonusRequest
	if !bindJSON(c, &req) {
		return
	}
	bonus, err := h.Bonuses.Create(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bonus)
}

func (h *RewardHandler) UpdateBonusStatus(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.UpdateBonusStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	bonus, err := h.Bonuses.UpdateStatus(c.Request.Context(), sess, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bonus)
}

func (h *RewardHandler) GetBonusAlerts(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	alerts, err := h.Bonuses.Alerts(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
