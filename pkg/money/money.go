// Package money provides currency-tagged amounts in integer minor units.
package money

import (
	"fmt"
)

// Money is an amount of a single currency, stored in minor units (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// TaxedMoney is a pair of net and gross amounts in the same currency.
type TaxedMoney struct {
	Net   Money `json:"net"`
	Gross Money `json:"gross"`
}

// Zero returns a zero Money in the given currency.
func Zero(currency string) Money {
	return Money{Amount: 0, Currency: currency}
}

// TaxedZero returns a zero TaxedMoney in the given currency.
func TaxedZero(currency string) TaxedMoney {
	return TaxedMoney{Net: Zero(currency), Gross: Zero(currency)}
}

// NewTaxed builds a TaxedMoney from net and gross minor-unit amounts.
func NewTaxed(net, gross int64, currency string) TaxedMoney {
	return TaxedMoney{
		Net:   Money{Amount: net, Currency: currency},
		Gross: Money{Amount: gross, Currency: currency},
	}
}

// Add returns the sum of two Money values.
// Returns an error if the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s + %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Add returns the sum of two TaxedMoney values, net with net and gross with gross.
// Returns an error if the currencies differ.
func (t TaxedMoney) Add(other TaxedMoney) (TaxedMoney, error) {
	net, err := t.Net.Add(other.Net)
	if err != nil {
		return TaxedMoney{}, err
	}
	gross, err := t.Gross.Add(other.Gross)
	if err != nil {
		return TaxedMoney{}, err
	}
	return TaxedMoney{Net: net, Gross: gross}, nil
}

// Tax returns the difference between gross and net.
func (t TaxedMoney) Tax() Money {
	return Money{Amount: t.Gross.Amount - t.Net.Amount, Currency: t.Gross.Currency}
}
