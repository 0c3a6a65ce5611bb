package pricing

import (
	"fmt"
	"strings"
)

// FormatAmount renders a currency figure with exactly two decimals.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatINR formats amount with the rupee sign and Indian digit grouping,
// e.g. ₹1,23,45,678.90.
func FormatINR(amount float64) string {
	s := FormatIndian(amount)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "-₹" + rest
	}
	return "₹" + s
}

// FormatIndian is FormatINR without the sign, for fonts that cannot draw it.
func FormatIndian(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	parts := strings.SplitN(FormatAmount(amount), ".", 2)
	if len(parts) != 2 {
		// NaN and Inf
		return parts[0]
	}
	result := applyIndianGrouping(parts[0]) + "." + parts[1]
	if negative && result != "0.00" {
		result = "-" + result
	}
	return result
}

// applyIndianGrouping keeps the last three digits together, then groups pairs.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}
