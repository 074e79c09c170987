// Package core provides the ledger domain: money, dates, tag sets, records,
// the installment generator and the period aggregator.
//
// This file contains amount parsing and the cent-exact split used by
// installment groups.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a decimal string to Money.
//
// Both dot (12.34) and comma (12,34) separators are accepted and the value is
// rounded half away from zero to cents. Signed values are allowed; callers
// that need a non-negative amount check it themselves.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,345") -> 1235 cents
//	ParseAmount("-5")     -> -500 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d)
}

// MaxAmountCents bounds the magnitude of any amount the ledger accepts
// (one trillion in currency units). Sums of many such amounts still fit in
// int64 cents.
const MaxAmountCents = 100_000_000_000_000

var maxAmount = decimal.NewFromInt(MaxAmountCents)

// MoneyFromDecimal rounds d to cents. Values whose magnitude exceeds
// MaxAmountCents are rejected.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Round(2).Mul(hundred)
	if cents.Abs().GreaterThan(maxAmount) {
		return Money{}, ErrAmountTooLarge
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two decimals, e.g. "33.34".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) validateBound() error {
	if m.Cents > MaxAmountCents || m.Cents < -MaxAmountCents {
		return ErrAmountTooLarge
	}
	return nil
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.Cents < 0 }

// Split divides m into n parts of total/n rounded to cents. The last part
// absorbs the rounding drift so the parts always sum back to m. When rounding
// the share up would leave the last part with the opposite sign of m, the
// share is truncated instead.
func (m Money) Split(n int) []Money {
	if n < 1 {
		return nil
	}
	total, count := decimal.NewFromInt(m.Cents), decimal.NewFromInt(int64(n))
	share := total.Div(count).Round(0).IntPart()
	if rest := m.Cents - share*int64(n-1); (m.Cents >= 0 && rest < 0) || (m.Cents < 0 && rest > 0) {
		share = total.Div(count).Truncate(0).IntPart()
	}
	parts := make([]Money, n)
	for i := 0; i < n-1; i++ {
		parts[i] = Money{Cents: share}
	}
	parts[n-1] = Money{Cents: m.Cents - share*int64(n-1)}
	return parts
}
