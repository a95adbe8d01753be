package services

import (
	"context"
	"testing"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func bankAccount(id, initial string) models.Account {
	return models.Account{
		ID:             id,
		UserID:         "user-1",
		Name:           "Checking " + id,
		InitialBalance: dec(initial),
		IsActive:       true,
		Details:        models.BankDetails{AccountType: "checking"},
	}
}

func creditAccount(id, initial, limit string) models.Account {
	return models.Account{
		ID:             id,
		UserID:         "user-1",
		Name:           "Card " + id,
		InitialBalance: dec(initial),
		IsActive:       true,
		Details:        models.CreditDetails{Limit: dec(limit)},
	}
}

func txn(id, account string, typ models.TransactionType, amount string, daysAfter int) models.Transaction {
	return models.Transaction{
		ID:        id,
		UserID:    "user-1",
		AccountID: account,
		Type:      typ,
		Amount:    dec(amount),
		Date:      day0.AddDate(0, 0, daysAfter),
		Status:    models.StatusCleared,
		Source:    models.SourceManual,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

// recordingNotifier captures notifications instead of pushing them.
type recordingNotifier struct {
	sent map[string][]models.Notification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(map[string][]models.Notification)}
}

func (r *recordingNotifier) Notify(userID string, n models.Notification) {
	r.sent[userID] = append(r.sent[userID], n)
}

func seedAccounts(t *testing.T, s store.DocumentStore, accounts ...models.Account) {
	t.Helper()
	for _, a := range accounts {
		require.NoError(t, store.PutAs(context.Background(), s, a.UserID, store.CollectionAccounts, a.ID, a))
	}
}

func session() models.Session {
	return models.Session{UserID: "user-1", Email: "user@example.com"}
}
