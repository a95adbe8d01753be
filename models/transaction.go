package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxIncome   TransactionType = "income"
	TxExpense  TransactionType = "expense"
	TxTransfer TransactionType = "transfer"
	TxPayment  TransactionType = "payment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxIncome, TxExpense, TxTransfer, TxPayment:
		return true
	}
	return false
}

type TransferDirection string

const (
	DirectionIn  TransferDirection = "in"
	DirectionOut TransferDirection = "out"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusCleared    TransactionStatus = "cleared"
	StatusReconciled TransactionStatus = "reconciled"
)

type TransactionSource string

const (
	SourceManual TransactionSource = "manual"
	SourceSync   TransactionSource = "sync"
)

// Transaction amounts are always positive; Type and Direction carry the sign.
type Transaction struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	AccountID      string            `json:"account_id"`
	ToAccountID    string            `json:"to_account_id,omitempty"` // payments only
	TransferID     string            `json:"transfer_id,omitempty"`
	Type           TransactionType   `json:"type"`
	Direction      TransferDirection `json:"direction,omitempty"`
	Amount         decimal.Decimal   `json:"amount"`
	Category       string            `json:"category"`
	Date           time.Time         `json:"date"`
	Description    string            `json:"description"`
	Notes          string            `json:"notes,omitempty"`
	Status         TransactionStatus `json:"status"`
	Hidden         bool              `json:"hidden"`
	Source         TransactionSource `json:"source"`
	ExternalID     string            `json:"external_id,omitempty"`
	IncomeSourceID string            `json:"income_source_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

type CreateTransactionRequest struct {
	AccountID   string            `json:"account_id" binding:"required"`
	Type        TransactionType   `json:"type" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal   `json:"amount"`
	Category    string            `json:"category"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Notes       string            `json:"notes"`
	Status      TransactionStatus `json:"status"`
	ExternalID  string            `json:"external_id"`
}

type ImportTransactionsRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,dive"`
}

type ImportResult struct {
	Imported []Transaction `json:"imported"`
	Skipped  int           `json:"skipped"`
}

// UpdateTransactionRequest carries the only mutable fields.
type UpdateTransactionRequest struct {
	Category *string `json:"category"`
	Hidden   *bool   `json:"hidden"`
}

type TransferRequest struct {
	FromAccountID string          `json:"from_account_id" binding:"required"`
	ToAccountID   string          `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
}

type TransferResult struct {
	Kind         TransactionType `json:"kind"`
	Transactions []Transaction   `json:"transactions"`
}
