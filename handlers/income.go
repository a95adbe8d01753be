package handlers

import (
	"net/http"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"

	"github.com/gin-gonic/gin"
)

type IncomeHandler struct {
	Income *services.IncomeService
}

func (h *IncomeHandler) GetSources(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	sources, err := h.Income.List(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sources)
}

func (h *IncomeHandler) CreateSource(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.IncomeSourceRequest
	if !bindJSON(c, &req) {
		return
	}
	src, err := h.Income.Create(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, src)
}

func (h *IncomeHandler) UpdateSource(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.IncomeSourceRequest
	if !bindJSON(c, &req) {
		return
	}
	src, err := h.Income.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, src)
}

func (h *IncomeHandler) DeleteSource(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if err := h.Income.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSummary reports received vs expected income; ?month=YYYY-MM.
func (h *IncomeHandler) GetSummary(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	month, ok := queryTime(c, "month", "2006-01")
	if !ok {
		return
	}
	summary, err := h.Income.Summary(c.Request.Context(), sess, c.Param("id"), month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MatchTransaction dry-runs the payer rules against a candidate income
// transaction without storing anything.
func (h *IncomeHandler) MatchTransaction(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var tx models.Transaction
	if !bindJSON(c, &tx) {
		return
	}
	if tx.Type == "" {
		tx.Type = models.TxIncome
	}
	match, err := h.Income.Detect(c.Request.Context(), sess, tx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": match})
}
