// Package types provides common monetary and quantity types.
package types

import (
	"github.com/shopspring/decimal"
)

// MinorUnits represents a monetary value in minor currency units (cents).
// All stored monetary fields use this type; arithmetic on it is plain
// int64 arithmetic, so totals never drift the way floats do.
type MinorUnits int64

func (m MinorUnits) IsZero() bool     { return m == 0 }
func (m MinorUnits) IsPositive() bool { return m > 0 }
func (m MinorUnits) IsNegative() bool { return m < 0 }
func (m MinorUnits) Neg() MinorUnits  { return -m }

func (m MinorUnits) Abs() MinorUnits {
	if m < 0 {
		return -m
	}
	return m
}

// Money represents a monetary value with full decimal precision.
// Used at report boundaries where values are converted for display.
type Money = decimal.Decimal

// CurrencyExponent is the number of decimal places of the single
// configured currency.
const CurrencyExponent = 2

// ToMoney converts minor units to a decimal major-unit amount.
func (m MinorUnits) ToMoney() Money {
	return decimal.New(int64(m), -CurrencyExponent)
}

// MoneyFromString parses a decimal string into Money.
// This is the preferred construction for precise values.
func MoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney parses a decimal string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
