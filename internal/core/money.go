// Package core provides amount parsing and formatting utilities.
//
// This file contains functions for parsing user-entered Rupiah amounts and
// kilogram quantities and for rendering amounts as Rupiah strings.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRupiah converts a user-entered Rupiah amount to a decimal.
//
// Thousands separators ("," or ".") followed by exactly three digits are
// accepted, as is an optional "Rp" prefix. Exponent notation is rejected. Rupiah has no minor unit in practice,
// so fractional input is rounded half-up to whole Rupiah. Zero is allowed;
// negative values are rejected.
//
// Examples:
//   ParseRupiah("50000")     -> 50000, nil
//   ParseRupiah("Rp 50.000") -> 50000, nil
//   ParseRupiah("1,250,000") -> 1250000, nil
//   ParseRupiah("-5")        -> 0, ErrNegativeAmount
func ParseRupiah(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "rp"))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrNegativeAmount
	}
	if hasExponent(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	s = stripThousands(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(0), nil
}

// ParseKilograms converts a quantity in kilograms. Both "1.5" and "1,5" are accepted.
// The result keeps up to three decimal places (grams). Exponent notation is rejected.
func ParseKilograms(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidQuantity
	}
	if strings.HasPrefix(s, "-") || hasExponent(s) {
		return decimal.Zero, ErrInvalidQuantity
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidQuantity
	}
	return d.Round(3), nil
}

// FormatRupiah renders an amount as "Rp 1,234,567", rounded to whole Rupiah.
func FormatRupiah(d decimal.Decimal) string {
	d = d.Round(0)
	neg := d.IsNegative()
	digits := d.Abs().StringFixed(0)

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("Rp ")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// hasExponent reports whether s uses exponent notation such as "1e9". Such
// input can expand to arbitrarily large values before any bound is checked.
func hasExponent(s string) bool {
	return strings.ContainsAny(s, "eE")
}

// stripThousands removes grouping separators. A separator is treated as a
// thousands separator when every group after it has exactly three digits;
// otherwise a single "," is read as a decimal comma.
func stripThousands(s string) string {
	for _, sep := range []string{",", "."} {
		parts := strings.Split(s, sep)
		if len(parts) < 2 {
			continue
		}
		grouped := true
		for _, p := range parts[1:] {
			if len(p) != 3 {
				grouped = false
				break
			}
		}
		if grouped {
			return strings.Join(parts, "")
		}
	}
	return strings.ReplaceAll(s, ",", ".")
}
