// Package totals computes order amounts with fixed-point decimal arithmetic.
//
// Line totals and the subtotal are exact. The tax amount is rounded once, at
// the point it is computed; the grand total is rounded once, when it is
// emitted. Negative quantities or prices are computed as given.
package totals

import (
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/shopspring/decimal"
)

// RoundingMode names a rounding rule for emitted amounts.
type RoundingMode string

const (
	// RoundHalfUp rounds ties away from zero (25.005 -> 25.01, -0.005 -> -0.01).
	RoundHalfUp RoundingMode = "half_up"
	// RoundHalfEven rounds ties to the even neighbour.
	RoundHalfEven RoundingMode = "half_even"
	// RoundDown truncates toward zero.
	RoundDown RoundingMode = "down"
)

// Valid reports whether m is a known mode.
func (m RoundingMode) Valid() bool {
	switch m {
	case RoundHalfUp, RoundHalfEven, RoundDown:
		return true
	}
	return false
}

// Rounding is a scale plus a mode.
type Rounding struct {
	Scale int32
	Mode  RoundingMode
}

// DefaultRounding is two fractional digits, half-up.
var DefaultRounding = Rounding{Scale: 2, Mode: RoundHalfUp}

// Round applies the rule to d.
func (r Rounding) Round(d decimal.Decimal) decimal.Decimal {
	switch r.Mode {
	case RoundHalfEven:
		return d.RoundBank(r.Scale)
	case RoundDown:
		return d.Truncate(r.Scale)
	default:
		return d.Round(r.Scale)
	}
}

// Format rounds d and renders it with exactly Scale fractional digits.
func (r Rounding) Format(d decimal.Decimal) string {
	return r.Round(d).StringFixed(r.Scale)
}

// Totals is the result of Calculate.
type Totals struct {
	// Subtotal is the exact sum of all line totals.
	Subtotal decimal.Decimal

	// HasTax is true when a tax rate was supplied.
	HasTax bool

	// TaxRate is the supplied rate in percent, unrounded.
	TaxRate decimal.Decimal

	// TaxAmount is round(Subtotal × TaxRate / 100). Zero when HasTax is false.
	TaxAmount decimal.Decimal

	// GrandTotal is the rounded amount emitted as the total order amount.
	GrandTotal decimal.Decimal
}

// Calculate sums the items and applies the optional tax rate.
func Calculate(items []types.Item, taxRate *decimal.Decimal, rounding Rounding) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	t := Totals{Subtotal: subtotal}
	if taxRate == nil {
		t.GrandTotal = rounding.Round(subtotal)
		return t
	}

	t.HasTax = true
	t.TaxRate = *taxRate
	t.TaxAmount = TaxAmount(subtotal, *taxRate, rounding)
	t.GrandTotal = rounding.Round(subtotal.Add(t.TaxAmount))
	return t
}

// TaxAmount returns round(base × rate / 100).
func TaxAmount(base, rate decimal.Decimal, rounding Rounding) decimal.Decimal {
	return rounding.Round(base.Mul(rate).Shift(-2))
}
