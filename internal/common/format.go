package common

import "fmt"

// FormatCompactUSD renders a dollar amount in the compact notation used by
// market listings: $1.23K, $45.60M, $1.02B, $2.50T. Values under one
// thousand keep two decimals with no suffix.
func FormatCompactUSD(value float64) string {
	abs := value
	sign := ""
	if abs < 0 {
		abs = -abs
		sign = "-"
	}

	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%s$%.2fT", sign, abs/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, abs/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s$%.2fK", sign, abs/1e3)
	default:
		return fmt.Sprintf("%s$%.2f", sign, abs)
	}
}
