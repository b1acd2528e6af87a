package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Money_Add(t *testing.T) {
	testCases := []struct {
		name        string
		a           Money
		b           Money
		expected    Money
		expectError bool
	}{
		{
			name:     "Success - same currency",
			a:        Money{Amount: 1000, Currency: "USD"},
			b:        Money{Amount: 250, Currency: "USD"},
			expected: Money{Amount: 1250, Currency: "USD"},
		},
		{
			name:     "Success - zero plus amount",
			a:        Zero("EUR"),
			b:        Money{Amount: 999, Currency: "EUR"},
			expected: Money{Amount: 999, Currency: "EUR"},
		},
		{
			name:        "Error - currency mismatch",
			a:           Money{Amount: 1000, Currency: "USD"},
			b:           Money{Amount: 1000, Currency: "EUR"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sum, err := tc.a.Add(tc.b)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sum)
		})
	}
}

func Test_TaxedMoney_Add(t *testing.T) {
	// given
	a := NewTaxed(1000, 1230, "USD")
	b := NewTaxed(500, 615, "USD")

	// when
	sum, err := a.Add(b)

	// then
	require.NoError(t, err)
	assert.Equal(t, NewTaxed(1500, 1845, "USD"), sum)
	assert.Equal(t, Money{Amount: 345, Currency: "USD"}, sum.Tax())
}

func Test_TaxedMoney_Add_CurrencyMismatch(t *testing.T) {
	// given
	a := TaxedZero("USD")
	b := NewTaxed(100, 123, "EUR")

	// when
	_, err := a.Add(b)

	// then
	assert.Error(t, err)
}

func Test_TaxedZero(t *testing.T) {
	zero := TaxedZero("USD")
	assert.True(t, zero.Net.IsZero())
	assert.True(t, zero.Gross.IsZero())
	assert.Equal(t, "USD", zero.Net.Currency)
	assert.Equal(t, "USD", zero.Gross.Currency)
}
