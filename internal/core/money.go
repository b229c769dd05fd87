// Package core provides the expense data model shared by every layer.
//
// This file contains helpers for turning amounts into decimals and back
// into the textual forms used on forms and the wire.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a plain decimal string ("12", "12.5", "0.99") into a
// positive amount. It does not enforce the form's digit limits; see the form
// package for that.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AmountFromFloat converts a wire number into a decimal using the shortest
// representation, so 10.99 stays 10.99.
func AmountFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// AmountToFloat converts an amount into a wire number.
func AmountToFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
