package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountDetailAccessors(t *testing.T) {
	bank := Account{Details: BankDetails{AccountType: "savings"}}
	d, ok := bank.Bank()
	assert.True(t, ok)
	assert.Equal(t, "savings", d.AccountType)
	_, ok = bank.Credit()
	assert.False(t, ok)

	byPointer := Account{Details: &BankDetails{AccountType: "checking"}}
	d, ok = byPointer.Bank()
	assert.True(t, ok)
	assert.Equal(t, "checking", d.AccountType)

	var nilBank *BankDetails
	_, ok = Account{Details: nilBank}.Bank()
	assert.False(t, ok)

	card := Account{Details: CreditDetails{}}
	_, ok = card.Bank()
	assert.False(t, ok)
	_, ok = card.Credit()
	assert.True(t, ok)

	_, ok = Account{}.Bank()
	assert.False(t, ok)
}
