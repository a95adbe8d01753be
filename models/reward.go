package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RewardType string

const (
	RewardCashback RewardType = "cashback"
	RewardPoints   RewardType = "points"
	RewardMiles    RewardType = "miles"
)

func (t RewardType) Valid() bool {
	switch t {
	case RewardCashback, RewardPoints, RewardMiles:
		return true
	}
	return false
}

// CategoryReward overrides the card default for one spending category.
// PointRatio reads "<points>:<dollars>", e.g. "100:1" for one cent a point.
type CategoryReward struct {
	Type       RewardType      `json:"type"`
	Rate       decimal.Decimal `json:"rate"`
	PointRatio string          `json:"point_ratio,omitempty"`
}

type RewardProfile struct {
	DefaultType       RewardType                `json:"default_type"`
	DefaultRate       decimal.Decimal           `json:"default_rate"`
	DefaultPointRatio string                    `json:"default_point_ratio,omitempty"`
	Categories        map[string]CategoryReward `json:"categories,omitempty"`
}

type RewardQuote struct {
	CardID         string           `json:"card_id"`
	CardName       string           `json:"card_name"`
	Category       string           `json:"category"`
	Type           RewardType       `json:"type"`
	Rate           decimal.Decimal  `json:"rate"`
	Reward         decimal.Decimal  `json:"reward"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	CategoryMatch  bool             `json:"category_match"`
}

type RewardRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	CardIDs  []string        `json:"card_ids"`
}

// ============================================================================
// SIGN-UP BONUSES
// ============================================================================

type BonusStatus string

const (
	BonusInProgress BonusStatus = "in_progress"
	BonusCompleted  BonusStatus = "completed"
	BonusPaidOut    BonusStatus = "paid_out"
	BonusExpired    BonusStatus = "expired"
)

type CreditCardBonus struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	CardID           string          `json:"card_id"`
	Description      string          `json:"description"`
	SpendingRequired decimal.Decimal `json:"spending_required"`
	CurrentSpending  decimal.Decimal `json:"current_spending"`
	RewardAmount     decimal.Decimal `json:"reward_amount"`
	RewardType       RewardType      `json:"reward_type"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Status           BonusStatus     `json:"status"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type CreateBonusRequest struct {
	CardID           string          `json:"card_id" binding:"required"`
	Description      string          `json:"description"`
	SpendingRequired decimal.Decimal `json:"spending_required"`
	CurrentSpending  decimal.Decimal `json:"current_spending"`
	RewardAmount     decimal.Decimal `json:"reward_amount"`
	RewardType       RewardType      `json:"reward_type"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
}

type UpdateBonusStatusRequest struct {
	Status BonusStatus `json:"status" binding:"required"`
}

type AlertPriority string

const (
	PriorityHigh   AlertPriority = "high"
	PriorityMedium AlertPriority = "medium"
)

// BonusProgress is the tracker's read-only view of an in-progress bonus.
type BonusProgress struct {
	BonusID             string          `json:"bonus_id"`
	CardID              string          `json:"card_id"`
	Progress            float64         `json:"progress"`
	PercentComplete     float64         `json:"percent_complete"`
	Remaining           decimal.Decimal `json:"remaining"`
	DaysLeft            int             `json:"days_left"`
	NearCompletion      bool            `json:"near_completion"`
	DeadlineApproaching bool            `json:"deadline_approaching"`
	Priority            AlertPriority   `json:"priority,omitempty"`
}

type AlertKind string

const (
	AlertNearCompletion      AlertKind = "near_completion"
	AlertDeadlineApproaching AlertKind = "deadline_approaching"
)

type BonusAlert struct {
	BonusID  string        `json:"bonus_id"`
	CardID   string        `json:"card_id"`
	Kind     AlertKind     `json:"kind"`
	Priority AlertPriority `json:"priority"`
	Message  string        `json:"message"`
}
