package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatDollar formats an amount as dollars with two decimals, placing the
// sign before the dollar sign: $12.50, -$3.00.
func FormatDollar(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-$" + rounded.Abs().StringFixed(2)
	}
	return "$" + rounded.StringFixed(2)
}

// FormatPercentage formats a number as a percentage with the given decimals.
func FormatPercentage(value float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, value)
}

// TruncateDescription shortens a description to maxLength runes with an ellipsis.
func TruncateDescription(description string, maxLength int) string {
	runes := []rune(description)
	if len(runes) <= maxLength {
		return description
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
