package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NonTraditionalRate is the flat agency amount that marks a non-traditional
// care day.
var NonTraditionalRate = decimal.NewFromInt(14)

// ParseAmount parses an amount cell. A leading dollar sign, thousands
// separators and surrounding whitespace are ignored. Empty input yields a blank
// amount with ok=true; unreadable input yields a blank amount with ok=false.
func ParseAmount(raw string) (amount decimal.NullDecimal, ok bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.NullDecimal{}, true
	}
	// Accounting negatives, e.g. "(2.00)".
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + strings.Trim(cleaned, "()")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

// Amount wraps a known amount.
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// AmountFromFloat wraps a float amount.
func AmountFromFloat(f float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(f))
}

// Zero is a known zero amount, distinct from a blank one.
func Zero() decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.Zero)
}

// ValueOrZero returns the amount, or zero when it is blank.
func ValueOrZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

// IsExactly reports whether a non-blank amount equals v.
func IsExactly(n decimal.NullDecimal, v decimal.Decimal) bool {
	return n.Valid && n.Decimal.Equal(v)
}

// FormatAmount renders an amount for a report cell; blank amounts render empty.
func FormatAmount(n decimal.NullDecimal) string {
	if !n.Valid {
		return ""
	}
	return n.Decimal.StringFixed(2)
}
