package services

import (
	"strings"
	"testing"

	"github.com/LovationAdmin/finance-api/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderStatement(t *testing.T) {
	acct := bankAccount("chk", "100")
	rent := txn("t2", "chk", models.TxExpense, "40", 2)
	rent.Category = "Housing"
	rent.Description = strings.Repeat("very long landlord memo ", 6)
	pay := txn("t1", "chk", models.TxIncome, "60", 1)
	pay.Category = "Salary"
	pay.Notes = "march"

	out := RenderStatement(acct, RunningBalance(acct, []models.Transaction{rent, pay}), day0)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "Checking chk (bank)", lines[0])
	assert.Contains(t, out, "opening")
	assert.Contains(t, out, "(march)")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "closing balance 120.00"))

	salary := strings.Index(out, "Salary")
	housing := strings.Index(out, "Housing")
	assert.True(t, salary < housing, "entries should be in date order")

	for _, l := range lines {
		assert.LessOrEqual(t, len(l), statementWidth+12)
		if strings.Contains(l, "landlord") {
			assert.True(t, strings.HasPrefix(l, "            "))
		}
	}
}
