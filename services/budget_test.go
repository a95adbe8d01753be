package services

import (
	"context"
	"testing"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(id, category, amount string, daysAfter int) models.Transaction {
	tx := txn(id, "chk", models.TxExpense, amount, daysAfter)
	tx.Category = category
	return tx
}

func TestBudgetUsage(t *testing.T) {
	b := models.Budget{ID: "b1", Category: "Groceries", MonthlyLimit: dec("500"), AlertThreshold: 0.8}

	hidden := expense("h", "groceries", "100", 3)
	hidden.Hidden = true
	txs := []models.Transaction{
		expense("t1", "Groceries", "250", 1),
		expense("t2", "groceries ", "160", 10),
		expense("t3", "Dining", "90", 4),
		expense("april", "Groceries", "300", 31),
		txn("refund", "chk", models.TxIncome, "40", 2),
		hidden,
	}

	u := BudgetUsage(b, txs, day0)
	assert.Equal(t, "2026-03", u.Month)
	assert.Equal(t, 2, u.Count)
	assertDecimal(t, "410", u.Spent)
	assertDecimal(t, "90", u.Remaining)
	assert.Equal(t, 82.0, u.Percent)
	assert.True(t, u.NearLimit)
	assert.False(t, u.OverLimit)

	txs = append(txs, expense("t4", "Groceries", "100", 12))
	u = BudgetUsage(b, txs, day0)
	assert.True(t, u.OverLimit)
	assert.False(t, u.NearLimit)
	assertDecimal(t, "-10", u.Remaining)
}

func TestGoalProgress(t *testing.T) {
	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	g := models.SavingsGoal{ID: "g1", TargetAmount: dec("6000"), CurrentAmount: dec("1500"), Deadline: &deadline}

	p := GoalProgress(g, day0)
	assert.Equal(t, 25.0, p.Percent)
	assertDecimal(t, "4500", p.Remaining)
	assert.False(t, p.Achieved)
	require.NotNil(t, p.MonthsLeft)
	assert.Equal(t, 6, *p.MonthsLeft)
	require.NotNil(t, p.MonthlyContribution)
	assertDecimal(t, "750", *p.MonthlyContribution)

	g.CurrentAmount = dec("7000")
	p = GoalProgress(g, day0)
	assert.True(t, p.Achieved)
	assert.Equal(t, 100.0, p.Percent)
	assertDecimal(t, "0", p.Remaining)
	assert.Nil(t, p.MonthlyContribution)

	g.CurrentAmount = dec("1000")
	g.Deadline = nil
	p = GoalProgress(g, day0)
	assert.Nil(t, p.MonthsLeft)
	assert.Nil(t, p.MonthlyContribution)
}

func TestBudgetServiceRejectsDuplicateCategory(t *testing.T) {
	ctx := context.Background()
	svc := NewBudgetService(store.NewMemory())

	b, err := svc.CreateBudget(ctx, session(), models.BudgetRequest{Category: "Dining", MonthlyLimit: dec("200")})
	require.NoError(t, err)
	assert.Equal(t, defaultAlertThreshold, b.AlertThreshold)

	_, err = svc.CreateBudget(ctx, session(), models.BudgetRequest{Category: "dining", MonthlyLimit: dec("300")})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateBudget(ctx, session(), models.BudgetRequest{Category: "Travel", MonthlyLimit: dec("0")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.DeleteBudget(ctx, session(), b.ID))
	assert.ErrorIs(t, svc.DeleteBudget(ctx, session(), b.ID), ErrNotFound)
}

func TestGoalTracksLinkedAccount(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedAccounts(t, mem, bankAccount("sav", "1000"), creditAccount("visa", "0", "100"))
	require.NoError(t, store.PutAs(ctx, mem, "user-1", store.CollectionTransactions, "d1",
		txn("d1", "sav", models.TxIncome, "500", 1)))

	svc := NewBudgetService(mem)
	svc.now = func() time.Time { return day0 }

	_, err := svc.CreateGoal(ctx, session(), models.GoalRequest{Name: "Card", TargetAmount: dec("10"), AccountID: "visa"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	g, err := svc.CreateGoal(ctx, session(), models.GoalRequest{Name: "Emergency fund", TargetAmount: dec("3000"), AccountID: "sav"})
	require.NoError(t, err)

	goals, err := svc.ListGoals(ctx, session())
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, g.ID, goals[0].ID)
	assertDecimal(t, "1500", goals[0].CurrentAmount)

	progress, err := svc.GoalsProgress(ctx, session())
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, 50.0, progress[0].Percent)
}
