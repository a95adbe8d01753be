package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AccountKind string

const (
	AccountKindBank   AccountKind = "bank"
	AccountKindCredit AccountKind = "credit"
)

// AccountDetails is the kind-specific half of an Account.
// Only BankDetails and CreditDetails implement it.
type AccountDetails interface {
	Kind() AccountKind
	isAccountDetails()
}

type BankDetails struct {
	AccountType string `json:"account_type"` // checking, savings
	Institution string `json:"institution,omitempty"`
	Mask        string `json:"mask,omitempty"`
}

func (BankDetails) Kind() AccountKind { return AccountKindBank }
func (BankDetails) isAccountDetails() {}

type CreditDetails struct {
	Limit        decimal.Decimal `json:"limit"`
	APR          decimal.Decimal `json:"apr"`
	StatementDay int             `json:"statement_day,omitempty"`
	DueDay       int             `json:"due_day,omitempty"`
	Issuer       string          `json:"issuer,omitempty"`
	Rewards      RewardProfile   `json:"rewards"`
}

func (CreditDetails) Kind() AccountKind { return AccountKindCredit }
func (CreditDetails) isAccountDetails() {}

// Account is a bank account or a credit card. For credit cards the
// balance is the amount owed.
type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsActive       bool            `json:"is_active"`
	OpenedAt       *time.Time      `json:"opened_at,omitempty"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Details        AccountDetails  `json:"-"`
}

func (a Account) Kind() AccountKind {
	if a.Details == nil {
		return ""
	}
	return a.Details.Kind()
}

// Bank returns the bank details when the account is a bank account.
func (a Account) Bank() (BankDetails, bool) {
	switch d := a.Details.(type) {
	case BankDetails:
		return d, true
	case *BankDetails:
		if d != nil {
			return *d, true
		}
	}
	return BankDetails{}, false
}

// Credit returns the credit details when the account is a card.
func (a Account) Credit() (CreditDetails, bool) {
	switch d := a.Details.(type) {
	case CreditDetails:
		return d, true
	case *CreditDetails:
		if d != nil {
			return *d, true
		}
	}
	return CreditDetails{}, false
}

type accountJSON struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Kind           AccountKind     `json:"kind"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsActive       bool            `json:"is_active"`
	OpenedAt       *time.Time      `json:"opened_at,omitempty"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Bank           *BankDetails    `json:"bank,omitempty"`
	Credit         *CreditDetails  `json:"credit,omitempty"`
}

func (a Account) MarshalJSON() ([]byte, error) {
	out := accountJSON{
		ID:             a.ID,
		UserID:         a.UserID,
		Name:           a.Name,
		Kind:           a.Kind(),
		InitialBalance: a.InitialBalance,
		IsActive:       a.IsActive,
		OpenedAt:       a.OpenedAt,
		ClosedAt:       a.ClosedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	switch d := a.Details.(type) {
	case BankDetails:
		out.Bank = &d
	case *BankDetails:
		out.Bank = d
	case CreditDetails:
		out.Credit = &d
	case *CreditDetails:
		out.Credit = d
	case nil:
	default:
		return nil, fmt.Errorf("unknown account details %T", d)
	}
	return json.Marshal(out)
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var in accountJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*a = Account{
		ID:             in.ID,
		UserID:         in.UserID,
		Name:           in.Name,
		InitialBalance: in.InitialBalance,
		IsActive:       in.IsActive,
		OpenedAt:       in.OpenedAt,
		ClosedAt:       in.ClosedAt,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
	}
	switch in.Kind {
	case AccountKindBank:
		d := BankDetails{}
		if in.Bank != nil {
			d = *in.Bank
		}
		a.Details = d
	case AccountKindCredit:
		d := CreditDetails{}
		if in.Credit != nil {
			d = *in.Credit
		}
		a.Details = d
	default:
		return fmt.Errorf("unknown account kind %q", in.Kind)
	}
	return nil
}

// ============================================================================
// REQUESTS & RESPONSES
// ============================================================================

type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Kind           AccountKind     `json:"kind" binding:"required,oneof=bank credit"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	OpenedAt       *time.Time      `json:"opened_at"`
	Bank           *BankDetails    `json:"bank"`
	Credit         *CreditDetails  `json:"credit"`
}

type UpdateAccountRequest struct {
	Name     *string        `json:"name"`
	IsActive *bool          `json:"is_active"`
	ClosedAt *time.Time     `json:"closed_at"`
	Bank     *BankDetails   `json:"bank"`
	Credit   *CreditDetails `json:"credit"`
}

// AccountSummary is derived on every read and never stored.
type AccountSummary struct {
	AccountID        string           `json:"account_id"`
	Name             string           `json:"name"`
	Kind             AccountKind      `json:"kind"`
	IsActive         bool             `json:"is_active"`
	InitialBalance   decimal.Decimal  `json:"initial_balance"`
	CurrentBalance   decimal.Decimal  `json:"current_balance"`
	TransactionCount int              `json:"transaction_count"`
	TotalInflow      decimal.Decimal  `json:"total_inflow"`
	TotalOutflow     decimal.Decimal  `json:"total_outflow"`
	LastActivity     *time.Time       `json:"last_activity,omitempty"`
	CreditLimit      *decimal.Decimal `json:"credit_limit,omitempty"`
	AvailableCredit  *decimal.Decimal `json:"available_credit,omitempty"`
	Utilization      *float64         `json:"utilization,omitempty"`
}

type LedgerEntry struct {
	Transaction Transaction     `json:"transaction"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

type Overview struct {
	Accounts    []AccountSummary `json:"accounts"`
	TotalCash   decimal.Decimal  `json:"total_cash"`
	TotalDebt   decimal.Decimal  `json:"total_debt"`
	NetWorth    decimal.Decimal  `json:"net_worth"`
	GeneratedAt time.Time        `json:"generated_at"`
}
