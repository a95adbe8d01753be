package handlers

import (
	"net/http"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/services"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type TransactionHandler struct {
	Transactions *services.TransactionService
	Transfers    *services.TransferService
}

// GetTransactions supports account_id, category, type, from, to and
// include_hidden query filters.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	from, ok := queryTime(c, "from", dateLayout)
	if !ok {
		return
	}
	to, ok := queryTime(c, "to", dateLayout)
	if !ok {
		return
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1).Add(-1)
	}

	filter := services.TransactionFilter{
		AccountID:     c.Query("account_id"),
		Category:      c.Query("category"),
		Type:          models.TransactionType(c.Query("type")),
		From:          from,
		To:            to,
		IncludeHidden: c.Query("include_hidden") == "true",
	}
	txs, err := h.Transactions.List(c.Request.Context(), sess, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.Transactions.Create(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) ImportTransactions(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.ImportTransactionsRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Transactions.Import(c.Request.Context(), sess, req.Transactions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.UpdateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.Transactions.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Transfers.Transfer(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
