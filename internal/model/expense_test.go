package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return parsed
}

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name    string
		amount  string
		tax     string
		taxType string
		want    string
	}{
		{"flat tax adds directly", "100", "10", TaxFlat, "110"},
		{"percentage tax scales the amount", "100", "10", TaxPercentage, "110"},
		{"zero flat tax", "42.50", "0", TaxFlat, "42.50"},
		{"zero percentage tax", "42.50", "0", TaxPercentage, "42.50"},
		{"percentage rounds to cents", "9.99", "7.25", TaxPercentage, "10.71"},
		{"fractional flat tax", "19.95", "0.05", TaxFlat, "20"},
		{"unknown tax type leaves amount untouched", "100", "10", "vat", "100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expense := Expense{
				Amount:  dec(t, tc.amount),
				Tax:     dec(t, tc.tax),
				TaxType: tc.taxType,
			}
			total := expense.ComputeTotal()
			assert.True(t, dec(t, tc.want).Equal(total),
				"expected %s, got %s", tc.want, total)
		})
	}
}

func TestAfterFindSetsTotal(t *testing.T) {
	expense := Expense{
		Amount:  dec(t, "100"),
		Tax:     dec(t, "10"),
		TaxType: TaxFlat,
	}
	assert.NoError(t, expense.AfterFind(nil))
	assert.True(t, dec(t, "110").Equal(expense.Total))
}

func TestUserRole(t *testing.T) {
	assert.Equal(t, RoleUser, (&User{}).Role())
	assert.Equal(t, RoleAdmin, (&User{IsStaff: true}).Role())
	assert.Equal(t, RoleAdmin, (&User{IsSuperuser: true}).Role())
}
