package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	d, ok := ParseAmount("100.50")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("100.50")))

	d, ok = ParseAmount(" 42 ")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(42)))

	d, ok = ParseAmount("-3.25")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("-3.25")))

	for _, bad := range []string{"abc", "", "12,50", "10.5.5", "USD 10"} {
		_, ok := ParseAmount(bad)
		assert.False(t, ok, "amount %q", bad)
	}
}

func TestValidKind(t *testing.T) {
	assert.True(t, ValidKind(KindCashIn))
	assert.True(t, ValidKind(KindCashOut))
	assert.False(t, ValidKind("ALL"))
	assert.False(t, ValidKind(""))
}

func TestValidCategoryKind(t *testing.T) {
	assert.True(t, ValidCategoryKind(CategoryKindIncome))
	assert.True(t, ValidCategoryKind(CategoryKindExpense))
	assert.False(t, ValidCategoryKind("CASH_IN"))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{Username: "ada", FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{Username: "ada", FirstName: "Ada"}.FullName())
	assert.Equal(t, "ada", User{Username: "ada"}.FullName())
}
