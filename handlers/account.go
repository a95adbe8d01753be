package handlers

import (
	"net/http"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	Accounts *services.AccountService
}

// GetAccounts lists active accounts; ?include_inactive=true adds closed ones.
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	accounts, err := h.Accounts.List(c.Request.Context(), sess, c.Query("include_inactive") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	acct, err := h.Accounts.Create(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acct)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	acct, err := h.Accounts.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	acct, err := h.Accounts.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

// DeleteAccount deactivates the account; transactions are kept.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	acct, err := h.Accounts.Deactivate(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (h *AccountHandler) GetSummary(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	summary, err := h.Accounts.Summary(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AccountHandler) GetHistory(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	acct, entries, err := h.Accounts.History(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": acct, "entries": entries})
}

func (h *AccountHandler) GetStatement(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	statement, err := h.Accounts.Statement(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, statement)
}

func (h *AccountHandler) GetOverview(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	overview, err := h.Accounts.Overview(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
