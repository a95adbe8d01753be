package handlers

import (
	"net/http"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
}

func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	budgets, err := h.Budgets.ListBudgets(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.BudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.Budgets.CreateBudget(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.BudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.Budgets.UpdateBudget(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if err := h.Budgets.DeleteBudget(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUsage reports spending per budget; ?month=YYYY-MM, default current.
func (h *BudgetHandler) GetUsage(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	month, ok := queryTime(c, "month", "2006-01")
	if !ok {
		return
	}
	usage, err := h.Budgets.Usage(c.Request.Context(), sess, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

func (h *BudgetHandler) GetGoals(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	goals, err := h.Budgets.ListGoals(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	progress, err := h.Budgets.GoalsProgress(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals, "progress": progress})
}

func (h *BudgetHandler) CreateGoal(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.GoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.Budgets.CreateGoal(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *BudgetHandler) UpdateGoal(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.GoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.Budgets.UpdateGoal(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *BudgetHandler) DeleteGoal(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if err := h.Budgets.DeleteGoal(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
