package services

import (
	"testing"

	"github.com/LovationAdmin/finance-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceBank(t *testing.T) {
	acct := bankAccount("chk", "500.00")

	tests := []struct {
		name string
		txs  []models.Transaction
		want string
	}{
		{"no transactions", nil, "500.00"},
		{"single income", []models.Transaction{txn("t1", "chk", models.TxIncome, "120.25", 1)}, "620.25"},
		{"single expense", []models.Transaction{txn("t1", "chk", models.TxExpense, "80", 1)}, "420.00"},
		{
			"mixed",
			[]models.Transaction{
				txn("t1", "chk", models.TxIncome, "1000", 1),
				txn("t2", "chk", models.TxExpense, "250.50", 2),
				txn("t3", "other", models.TxExpense, "999", 2),
				{ID: "t4", AccountID: "chk", Type: models.TxTransfer, Direction: models.DirectionOut, Amount: dec("100"), Date: day0},
				{ID: "t5", AccountID: "chk", Type: models.TxTransfer, Direction: models.DirectionIn, Amount: dec("40"), Date: day0},
			},
			"1189.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, Balance(acct, tt.txs))
		})
	}
}

func TestBalanceIgnoresHidden(t *testing.T) {
	acct := bankAccount("chk", "100")
	hidden := txn("t1", "chk", models.TxExpense, "60", 1)
	hidden.Hidden = true

	assertDecimal(t, "100", Balance(acct, []models.Transaction{hidden}))
}

func TestBalanceUnknownAccount(t *testing.T) {
	acct := bankAccount("ghost", "42")
	txs := []models.Transaction{txn("t1", "chk", models.TxIncome, "10", 1)}

	assertDecimal(t, "42", Balance(acct, txs))
}

func TestBalanceCreditTracksDebt(t *testing.T) {
	card := creditAccount("visa", "200", "1000")
	txs := []models.Transaction{
		txn("t1", "visa", models.TxExpense, "150", 1),
		txn("t2", "visa", models.TxIncome, "20", 2), // refund
		{ID: "t3", AccountID: "chk", ToAccountID: "visa", Type: models.TxPayment, Amount: dec("100"), Date: day0.AddDate(0, 0, 3)},
	}

	assertDecimal(t, "230", Balance(card, txs))
	assertDecimal(t, "-100", Balance(bankAccount("chk", "0"), txs))
}

func TestRunningBalanceOrdersByDate(t *testing.T) {
	acct := bankAccount("chk", "100")
	txs := []models.Transaction{
		txn("late", "chk", models.TxExpense, "30", 5),
		txn("early", "chk", models.TxIncome, "50", 1),
		txn("elsewhere", "sav", models.TxIncome, "1", 2),
	}

	entries := RunningBalance(acct, txs)
	require.Len(t, entries, 2)
	assert.Equal(t, "early", entries[0].Transaction.ID)
	assertDecimal(t, "150", entries[0].Balance)
	assertDecimal(t, "-30", entries[1].Amount)
	assertDecimal(t, "120", entries[1].Balance)
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		name           string
		balance, limit string
		want           float64
	}{
		{"at limit", "1000", "1000", 100},
		{"zero balance", "0", "1000", 0},
		{"over limit clamps", "1500", "1000", 100},
		{"zero limit", "300", "0", 0},
		{"partial", "250", "1000", 25},
		{"overpaid", "-50", "1000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Utilization(dec(tt.balance), dec(tt.limit)), 0.0001)
		})
	}
}

func TestSummarize(t *testing.T) {
	card := creditAccount("visa", "0", "2000")
	txs := []models.Transaction{
		txn("t1", "visa", models.TxExpense, "500", 1),
		txn("t2", "visa", models.TxExpense, "100", 4),
		txn("t3", "visa", models.TxIncome, "100", 2),
	}

	s := Summarize(card, txs)
	assert.Equal(t, 3, s.TransactionCount)
	assertDecimal(t, "500", s.CurrentBalance)
	assertDecimal(t, "600", s.TotalInflow)
	assertDecimal(t, "100", s.TotalOutflow)
	require.NotNil(t, s.Utilization)
	assert.InDelta(t, 25.0, *s.Utilization, 0.0001)
	assertDecimal(t, "1500", *s.AvailableCredit)
	require.NotNil(t, s.LastActivity)
	assert.Equal(t, day0.AddDate(0, 0, 4), *s.LastActivity)

	bank := Summarize(bankAccount("chk", "10"), nil)
	assert.Nil(t, bank.Utilization)
	assert.Nil(t, bank.LastActivity)
	assert.Zero(t, bank.TransactionCount)
}

func TestBuildOverview(t *testing.T) {
	closed := bankAccount("old", "999")
	closed.IsActive = false
	accounts := []models.Account{
		bankAccount("chk", "1000"),
		creditAccount("visa", "300", "1000"),
		closed,
	}
	txs := []models.Transaction{txn("t1", "visa", models.TxExpense, "200", 1)}

	ov := BuildOverview(accounts, txs, day0)
	assert.Len(t, ov.Accounts, 3)
	assertDecimal(t, "1000", ov.TotalCash)
	assertDecimal(t, "500", ov.TotalDebt)
	assertDecimal(t, "500", ov.NetWorth)
}
