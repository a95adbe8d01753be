package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/finance-api/models"

	"github.com/kr/text"
)

const statementWidth = 72

// RenderStatement formats an account history as plain text, one line per
// entry with the running balance. Descriptions and notes are wrapped and
// indented under their entry.
func RenderStatement(acct models.Account, entries []models.LedgerEntry, generated time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", acct.Name, acct.Kind())
	fmt.Fprintf(&b, "Generated %s\n", generated.Format("2006-01-02 15:04 MST"))
	if d, ok := acct.Credit(); ok && d.Limit.IsPositive() {
		fmt.Fprintf(&b, "Credit limit %s\n", d.Limit.StringFixed(2))
	}
	b.WriteString(strings.Repeat("=", statementWidth) + "\n")
	fmt.Fprintf(&b, "%-10s  %-8s  %-24s %12s %12s\n", "Date", "Type", "Category", "Amount", "Balance")
	fmt.Fprintf(&b, "%-10s  %-8s  %-24s %12s %12s\n", "", "opening", "", "", acct.InitialBalance.StringFixed(2))

	balance := acct.InitialBalance
	for _, e := range entries {
		category := e.Transaction.Category
		if len(category) > 24 {
			category = category[:23] + "~"
		}
		fmt.Fprintf(&b, "%-10s  %-8s  %-24s %12s %12s\n",
			e.Transaction.Date.Format("2006-01-02"),
			e.Transaction.Type,
			category,
			e.Amount.StringFixed(2),
			e.Balance.StringFixed(2),
		)
		if note := memo(e.Transaction); note != "" {
			b.WriteString(text.Indent(text.Wrap(note, statementWidth-12), "            "))
			b.WriteString("\n")
		}
		balance = e.Balance
	}

	b.WriteString(strings.Repeat("-", statementWidth) + "\n")
	fmt.Fprintf(&b, "%d entries, closing balance %s\n", len(entries), balance.StringFixed(2))
	return b.String()
}

func memo(tx models.Transaction) string {
	parts := make([]string, 0, 2)
	if d := strings.TrimSpace(tx.Description); d != "" {
		parts = append(parts, d)
	}
	if n := strings.TrimSpace(tx.Notes); n != "" {
		parts = append(parts, "("+n+")")
	}
	return strings.Join(parts, " ")
}

func (s *AccountService) Statement(ctx context.Context, sess models.Session, id string) (string, error) {
	acct, entries, err := s.History(ctx, sess, id)
	if err != nil {
		return "", err
	}
	return RenderStatement(*acct, entries, s.now()), nil
}
