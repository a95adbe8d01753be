package services

import (
	"context"
	"testing"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(store.NewMemory())

	card, err := svc.Create(ctx, session(), models.CreateAccountRequest{
		Name: "Travel card",
		Kind: models.AccountKindCredit,
		Credit: &models.CreditDetails{
			Limit: dec("5000"),
			Rewards: models.RewardProfile{
				DefaultRate: dec("1"),
				Categories:  map[string]models.CategoryReward{" Travel ": {Type: models.RewardMiles, Rate: dec("3")}},
			},
		},
	})
	require.NoError(t, err)
	details, ok := card.Credit()
	require.True(t, ok)
	assert.Equal(t, models.RewardCashback, details.Rewards.DefaultType)
	assert.Contains(t, details.Rewards.Categories, "travel")

	bank, err := svc.Create(ctx, session(), models.CreateAccountRequest{Name: "Checking", Kind: models.AccountKindBank})
	require.NoError(t, err)
	assert.Equal(t, models.AccountKindBank, bank.Kind())

	_, err = svc.Update(ctx, session(), bank.ID, models.UpdateAccountRequest{Credit: &models.CreditDetails{}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Deactivate(ctx, session(), bank.ID)
	require.NoError(t, err)

	active, err := svc.List(ctx, session(), false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, card.ID, active[0].ID)

	all, err := svc.List(ctx, session(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	closed, err := svc.Get(ctx, session(), bank.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	assert.NotNil(t, closed.ClosedAt)
}

func TestAccountCreateValidates(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(store.NewMemory())

	_, err := svc.Create(ctx, session(), models.CreateAccountRequest{Name: "x", Kind: "brokerage"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, session(), models.CreateAccountRequest{Name: "", Kind: models.AccountKindBank})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, session(), models.CreateAccountRequest{
		Name:   "card",
		Kind:   models.AccountKindCredit,
		Credit: &models.CreditDetails{Limit: dec("-1")},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Get(ctx, session(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountSummaryAndStatement(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedAccounts(t, mem, creditAccount("visa", "0", "1000"))
	require.NoError(t, store.PutAs(ctx, mem, "user-1", store.CollectionTransactions, "t1",
		txn("t1", "visa", models.TxExpense, "250", 1)))
	svc := NewAccountService(mem)

	summary, err := svc.Summary(ctx, session(), "visa")
	require.NoError(t, err)
	assertDecimal(t, "250", summary.CurrentBalance)
	require.NotNil(t, summary.Utilization)
	assert.Equal(t, 25.0, *summary.Utilization)

	text, err := svc.Statement(ctx, session(), "visa")
	require.NoError(t, err)
	assert.Contains(t, text, "closing balance 250.00")
}
