package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PremiumFrequency string

const (
	PremiumMonthly    PremiumFrequency = "monthly"
	PremiumQuarterly  PremiumFrequency = "quarterly"
	PremiumSemiannual PremiumFrequency = "semiannual"
	PremiumAnnual     PremiumFrequency = "annual"
)

type InsurancePolicy struct {
	ID               string           `json:"id"`
	UserID           string           `json:"user_id"`
	Provider         string           `json:"provider"`
	PolicyType       string           `json:"policy_type"` // auto, home, health, life...
	PolicyNumber     string           `json:"policy_number"`
	PremiumAmount    decimal.Decimal  `json:"premium_amount"`
	PremiumFrequency PremiumFrequency `json:"premium_frequency"`
	CoverageAmount   decimal.Decimal  `json:"coverage_amount"`
	Deductible       decimal.Decimal  `json:"deductible"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type PolicyRequest struct {
	Provider         string           `json:"provider" binding:"required"`
	PolicyType       string           `json:"policy_type" binding:"required"`
	PolicyNumber     string           `json:"policy_number"`
	PremiumAmount    decimal.Decimal  `json:"premium_amount"`
	PremiumFrequency PremiumFrequency `json:"premium_frequency" binding:"required,oneof=monthly quarterly semiannual annual"`
	CoverageAmount   decimal.Decimal  `json:"coverage_amount"`
	Deductible       decimal.Decimal  `json:"deductible"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          *time.Time       `json:"end_date"`
}

// PolicyView decorates a stored policy with derived premium figures.
type PolicyView struct {
	InsurancePolicy
	NextPremiumDue *time.Time      `json:"next_premium_due,omitempty"`
	AnnualPremium  decimal.Decimal `json:"annual_premium"`
}

type ClaimStatus string

const (
	ClaimSubmitted   ClaimStatus = "submitted"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimApproved    ClaimStatus = "approved"
	ClaimDenied      ClaimStatus = "denied"
	ClaimPaid        ClaimStatus = "paid"
	ClaimClosed      ClaimStatus = "closed"
)

type ClaimEvent struct {
	From ClaimStatus `json:"from"`
	To   ClaimStatus `json:"to"`
	At   time.Time   `json:"at"`
	Note string      `json:"note,omitempty"`
}

type InsuranceClaim struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	PolicyID       string           `json:"policy_id"`
	Description    string           `json:"description"`
	IncidentDate   time.Time        `json:"incident_date"`
	AmountClaimed  decimal.Decimal  `json:"amount_claimed"`
	AmountApproved *decimal.Decimal `json:"amount_approved,omitempty"`
	AmountPaid     *decimal.Decimal `json:"amount_paid,omitempty"`
	Status         ClaimStatus      `json:"status"`
	History        []ClaimEvent     `json:"history"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type ClaimRequest struct {
	PolicyID      string          `json:"policy_id" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	IncidentDate  time.Time       `json:"incident_date"`
	AmountClaimed decimal.Decimal `json:"amount_claimed"`
}

type ClaimTransitionRequest struct {
	Status ClaimStatus      `json:"status" binding:"required"`
	Amount *decimal.Decimal `json:"amount"`
	Note   string           `json:"note"`
}
