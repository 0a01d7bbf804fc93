package domain

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const QuantityScale = 2

// NormalizeQuantity rounds q to two decimal places and rejects negatives.
func NormalizeQuantity(field string, q decimal.Decimal) (decimal.Decimal, error) {
	if q.IsNegative() {
		return decimal.Zero, NewValidationError(field, "must not be negative")
	}
	return q.Round(QuantityScale), nil
}

// NormalizeNullQuantity is NormalizeQuantity for optional quantities.
func NormalizeNullQuantity(field string, q decimal.NullDecimal) (decimal.NullDecimal, error) {
	if !q.Valid {
		return q, nil
	}
	d, err := NormalizeQuantity(field, q.Decimal)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// QuantityDisplay renders whole quantities without decimals and everything
// else with two.
func QuantityDisplay(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return q.StringFixed(0)
	}
	return q.StringFixed(QuantityScale)
}

func NullQuantityDisplay(q decimal.NullDecimal) string {
	if !q.Valid {
		return ""
	}
	return QuantityDisplay(q.Decimal)
}

// CleanName trims and collapses whitespace.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeName cleans name, lowercases it and capitalises the first
// letter, so "  ripe  TOMATO " becomes "Ripe tomato".
func NormalizeName(name string) string {
	name = strings.ToLower(CleanName(name))
	if name == "" {
		return ""
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// ValidateName normalizes a catalog name and checks it against maxLen runes.
func ValidateName(field, name string, maxLen int) (string, error) {
	return validateLength(field, NormalizeName(name), maxLen)
}

// ValidateTitle is ValidateName for user-facing titles, which keep their case.
func ValidateTitle(field, name string, maxLen int) (string, error) {
	return validateLength(field, CleanName(name), maxLen)
}

func validateLength(field, n string, maxLen int) (string, error) {
	if n == "" {
		return "", NewValidationError(field, "must not be empty")
	}
	if len([]rune(n)) > maxLen {
		return "", NewValidationError(field, "is too long")
	}
	return n, nil
}
