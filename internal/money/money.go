// Package money holds the integer-cents value type used for every persisted
// amount. Conversion to and from major units happens only at the edges.
package money

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// UnitsPerMajor is the fixed number of minor units in one major unit.
const UnitsPerMajor = 100

// ErrInvalidAmount is returned for NaN, infinite, or unparsable amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// Cents is an amount in minor currency units.
type Cents int64

// FromMajor converts a major-unit float to cents. Digits past the second
// decimal are truncated toward zero.
func FromMajor(v float64) (Cents, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	d := decimal.NewFromFloat(v).Shift(2).Truncate(0)
	if d.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, ErrInvalidAmount
	}
	return Cents(d.IntPart()), nil
}

// ParseMajor converts textual input such as "12.50", "12,5", "1,234.56" or
// "1.234,56" to cents, truncating past two decimals. When both separators
// appear the last one is the decimal separator. A lone comma is a decimal
// separator; a repeated one groups thousands, as does a repeated dot.
func ParseMajor(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	point, group := ".", ","
	lastDot, lastComma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			point, group = ",", "."
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			point, group = ",", "."
		}
	case strings.Count(s, ".") > 1:
		point, group = ",", "."
	}

	whole, frac, hasPoint := strings.Cut(s, point)
	if hasPoint && strings.Contains(frac, point) {
		return 0, ErrInvalidAmount
	}
	whole, ok := ungroup(whole, group)
	if !ok {
		return 0, ErrInvalidAmount
	}
	if hasPoint {
		whole += "." + frac
	}

	d, err := decimal.NewFromString(whole)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	d = d.Shift(2).Truncate(0)
	if d.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, ErrInvalidAmount
	}
	return Cents(d.IntPart()), nil
}

// ungroup removes thousands separators from the integer part of s. Every
// group after the first must hold exactly three digits.
func ungroup(s, sep string) (string, bool) {
	if !strings.Contains(s, sep) {
		return s, true
	}
	groups := strings.Split(s, sep)
	lead := strings.TrimLeft(groups[0], "+-")
	if len(lead) == 0 || len(lead) > 3 || !digits(lead) {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !digits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Major returns the amount in major units for display.
func (c Cents) Major() float64 {
	return decimal.New(int64(c), -2).InexactFloat64()
}

// String formats the amount with exactly two decimals.
func (c Cents) String() string {
	return decimal.New(int64(c), -2).StringFixed(2)
}

func (c Cents) Add(o Cents) Cents { return c + o }

func (c Cents) Sub(o Cents) Cents { return c - o }

func (c Cents) IsNegative() bool { return c < 0 }

// Percentage returns part/whole as a fraction (0.24 for 24%). A zero whole
// yields 0.
func Percentage(part, whole Cents) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		DivRound(decimal.NewFromInt(int64(whole)), 6).
		InexactFloat64()
}
