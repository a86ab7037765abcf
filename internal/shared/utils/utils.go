package utils

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBoolFlag accepts 1/0 and true/false; anything else is false.
func ParseBoolFlag(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}

// FormatAmount renders a decimal without trailing zeros: 300.0 → "300", 2.50 → "2.5".
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}

// HasAtMostOneDecimal reports whether d has no more than one fractional digit.
func HasAtMostOneDecimal(d decimal.Decimal) bool {
	return d.Equal(d.Round(1))
}
