package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps monthly spending in one category.
type Budget struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Category       string          `json:"category"`
	MonthlyLimit   decimal.Decimal `json:"monthly_limit"`
	AlertThreshold float64         `json:"alert_threshold"` // fraction of limit, default 0.8
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type BudgetRequest struct {
	Category       string          `json:"category" binding:"required"`
	MonthlyLimit   decimal.Decimal `json:"monthly_limit"`
	AlertThreshold float64         `json:"alert_threshold"`
}

type BudgetUsage struct {
	BudgetID  string          `json:"budget_id"`
	Category  string          `json:"category"`
	Month     string          `json:"month"`
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   float64         `json:"percent"`
	OverLimit bool            `json:"over_limit"`
	NearLimit bool            `json:"near_limit"`
	Count     int             `json:"count"`
}

type SavingsGoal struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	AccountID     string          `json:"account_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type GoalRequest struct {
	Name          string          `json:"name" binding:"required"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      *time.Time      `json:"deadline"`
	AccountID     string          `json:"account_id"`
}

type GoalProgress struct {
	GoalID              string           `json:"goal_id"`
	Percent             float64          `json:"percent"`
	Remaining           decimal.Decimal  `json:"remaining"`
	Achieved            bool             `json:"achieved"`
	MonthsLeft          *int             `json:"months_left,omitempty"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution,omitempty"`
}
