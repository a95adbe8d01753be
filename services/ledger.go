package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/LovationAdmin/finance-api/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ============================================================================
// LEDGER REDUCER
// ============================================================================
// Balances are derived from the initial balance and the full transaction
// history on every read. Nothing here touches storage.
//
// Bank accounts hold money: income adds, expenses and outgoing payments or
// transfers subtract. Credit accounts hold debt: charges add, refunds and
// received payments subtract.
// ============================================================================

// SignedAmount returns the effect of tx on acct's balance. ok is false when
// the transaction is hidden or does not reference the account.
func SignedAmount(acct models.Account, tx models.Transaction) (amount decimal.Decimal, ok bool) {
	if tx.Hidden {
		return decimal.Zero, false
	}

	asSource := tx.AccountID == acct.ID
	asDestination := !asSource && tx.Type == models.TxPayment && tx.ToAccountID == acct.ID
	if !asSource && !asDestination {
		return decimal.Zero, false
	}

	magnitude := tx.Amount.Abs()
	var increases bool

	switch acct.Details.(type) {
	case models.BankDetails, *models.BankDetails:
		switch tx.Type {
		case models.TxIncome:
			increases = true
		case models.TxExpense:
			increases = false
		case models.TxPayment:
			increases = asDestination
		case models.TxTransfer:
			increases = tx.Direction == models.DirectionIn
		default:
			return decimal.Zero, false
		}
	case models.CreditDetails, *models.CreditDetails:
		switch tx.Type {
		case models.TxExpense:
			increases = true
		case models.TxIncome:
			increases = false
		case models.TxPayment:
			increases = asSource
		case models.TxTransfer:
			increases = tx.Direction != models.DirectionIn
		default:
			return decimal.Zero, false
		}
	default:
		return decimal.Zero, false
	}

	if increases {
		return magnitude, true
	}
	return magnitude.Neg(), true
}

// Balance derives the current balance. An account with no matching
// transactions simply reports its initial balance.
func Balance(acct models.Account, txs []models.Transaction) decimal.Decimal {
	balance := acct.InitialBalance
	for _, tx := range txs {
		if delta, ok := SignedAmount(acct, tx); ok {
			balance = balance.Add(delta)
		}
	}
	return balance
}

// SortTransactions orders by date, then creation time, then id.
func SortTransactions(txs []models.Transaction) {
	slices.SortStableFunc(txs, func(a, b models.Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// RunningBalance replays the account's transactions in ascending date order.
func RunningBalance(acct models.Account, txs []models.Transaction) []models.LedgerEntry {
	relevant := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if _, ok := SignedAmount(acct, tx); ok {
			relevant = append(relevant, tx)
		}
	}
	SortTransactions(relevant)

	entries := make([]models.LedgerEntry, 0, len(relevant))
	balance := acct.InitialBalance
	for _, tx := range relevant {
		delta, _ := SignedAmount(acct, tx)
		balance = balance.Add(delta)
		entries = append(entries, models.LedgerEntry{
			Transaction: tx,
			Amount:      delta,
			Balance:     balance,
		})
	}
	return entries
}

// Utilization is min(balance, limit) / limit × 100, or 0 without a limit.
// An overpaid card (negative balance) reports 0.
func Utilization(balance, limit decimal.Decimal) float64 {
	if !limit.IsPositive() || !balance.IsPositive() {
		return 0
	}
	used := decimal.Min(balance, limit)
	return used.Div(limit).Mul(hundred).Round(2).InexactFloat64()
}

// Summarize aggregates an account's history. TotalInflow and TotalOutflow
// are the sums of balance increases and decreases respectively.
func Summarize(acct models.Account, txs []models.Transaction) models.AccountSummary {
	summary := models.AccountSummary{
		AccountID:      acct.ID,
		Name:           acct.Name,
		Kind:           acct.Kind(),
		IsActive:       acct.IsActive,
		InitialBalance: acct.InitialBalance,
		CurrentBalance: acct.InitialBalance,
		TotalInflow:    decimal.Zero,
		TotalOutflow:   decimal.Zero,
	}

	var last time.Time
	for _, tx := range txs {
		delta, ok := SignedAmount(acct, tx)
		if !ok {
			continue
		}
		summary.TransactionCount++
		summary.CurrentBalance = summary.CurrentBalance.Add(delta)
		if delta.IsNegative() {
			summary.TotalOutflow = summary.TotalOutflow.Add(delta.Neg())
		} else {
			summary.TotalInflow = summary.TotalInflow.Add(delta)
		}
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
	if !last.IsZero() {
		summary.LastActivity = &last
	}

	if credit, ok := acct.Credit(); ok {
		limit := credit.Limit
		available := decimal.Max(limit.Sub(summary.CurrentBalance), decimal.Zero)
		utilization := Utilization(summary.CurrentBalance, limit)
		summary.CreditLimit = &limit
		summary.AvailableCredit = &available
		summary.Utilization = &utilization
	}

	return summary
}

// BuildOverview summarizes every account and nets active cash against
// active card debt.
func BuildOverview(accounts []models.Account, txs []models.Transaction, now time.Time) models.Overview {
	overview := models.Overview{
		Accounts:    make([]models.AccountSummary, 0, len(accounts)),
		TotalCash:   decimal.Zero,
		TotalDebt:   decimal.Zero,
		GeneratedAt: now,
	}

	for _, acct := range accounts {
		summary := Summarize(acct, txs)
		overview.Accounts = append(overview.Accounts, summary)
		if !acct.IsActive {
			continue
		}
		if _, ok := acct.Bank(); ok {
			overview.TotalCash = overview.TotalCash.Add(summary.CurrentBalance)
		} else if _, ok := acct.Credit(); ok {
			overview.TotalDebt = overview.TotalDebt.Add(summary.CurrentBalance)
		}
	}

	overview.NetWorth = overview.TotalCash.Sub(overview.TotalDebt)
	return overview
}
