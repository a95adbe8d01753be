package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayerRuleType string

const (
	RuleExactPayer         PayerRuleType = "exact_payer"
	RulePartialDescription PayerRuleType = "partial_description"
	RuleAmountRange        PayerRuleType = "amount_range"
	RuleAccount            PayerRuleType = "account"
)

// PayerRule classifies an incoming transaction to an income source.
// Value is used by exact_payer, partial_description and account rules;
// Min/Max by amount_range (either bound may be nil).
type PayerRule struct {
	Type  PayerRuleType    `json:"type"`
	Value string           `json:"value,omitempty"`
	Min   *decimal.Decimal `json:"min,omitempty"`
	Max   *decimal.Decimal `json:"max,omitempty"`
}

type IncomeSource struct {
	ID                    string           `json:"id"`
	UserID                string           `json:"user_id"`
	Name                  string           `json:"name"`
	ExpectedMonthlyAmount *decimal.Decimal `json:"expected_monthly_amount,omitempty"`
	TransactionIDs        []string         `json:"transaction_ids"`
	Rules                 []PayerRule      `json:"rules"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

type IncomeSourceRequest struct {
	Name                  string           `json:"name" binding:"required"`
	ExpectedMonthlyAmount *decimal.Decimal `json:"expected_monthly_amount"`
	Rules                 []PayerRule      `json:"rules"`
}

type IncomeMatch struct {
	SourceID   string        `json:"source_id"`
	SourceName string        `json:"source_name"`
	Rule       PayerRule     `json:"rule"`
	RuleType   PayerRuleType `json:"rule_type"`
}

type IncomeSummary struct {
	SourceID  string           `json:"source_id"`
	Month     string           `json:"month"`
	Received  decimal.Decimal  `json:"received"`
	Expected  *decimal.Decimal `json:"expected,omitempty"`
	Shortfall *decimal.Decimal `json:"shortfall,omitempty"`
	Count     int              `json:"count"`
}
