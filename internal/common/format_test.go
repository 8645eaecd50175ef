package common

import "testing"

func TestFormatCompactUSD(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{2_400_000_000_000, "$2.40T"},
		{1_020_000_000_000, "$1.02T"},
		{84_420_000_000, "$84.42B"},
		{12_300_000, "$12.30M"},
		{5_000, "$5.00K"},
		{1_000, "$1.00K"},
		{999.99, "$999.99"},
		{0, "$0.00"},
		{-84_420_000_000, "-$84.42B"},
	}

	for _, tt := range tests {
		if got := FormatCompactUSD(tt.value); got != tt.want {
			t.Errorf("FormatCompactUSD(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
