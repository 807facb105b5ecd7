// Package core provides money parsing and handling utilities.
//
// This file contains the amount parser shared by input validation and
// snapshot coercion, plus display formatting.
package core

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ParseAmount converts a user or stored amount to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// surrounding whitespace. Signs, exponents and grouping separators are
// rejected, so the result is always finite and non-negative.
//
// Examples:
//
//	ParseAmount("10")     -> 10
//	ParseAmount("10,5")   -> 10.5
//	ParseAmount(" .25 ")  -> 0.25
//	ParseAmount("-1")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "required"}
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a number"}
	}
	if intPart == "" && fracPart == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a number"}
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a non-negative number"}
	}
	if intPart == "" {
		intPart = "0"
	}
	if hasDot && fracPart != "" {
		intPart += "." + fracPart
	}

	d, err := decimal.NewFromString(intPart)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a number"}
	}
	return d, nil
}

// CanonicalAmount renders d with at least two fractional digits, keeping any
// further precision the user entered.
func CanonicalAmount(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}

// FormatAmount renders d for display in the given ISO currency.
// Note: values are rounded to the currency's minor unit for display only.
func FormatAmount(d decimal.Decimal, currency string) string {
	// money.New never returns a nil currency, unknown codes get defaults
	cur := *money.New(0, currency).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
