package pricing

import (
	"math"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "R$ 0,00"},
		{192, "R$ 192,00"},
		{192.00000000000003, "R$ 192,00"},
		{1632, "R$ 1.632,00"},
		{1234567.891, "R$ 1.234.567,89"},
		{0.005, "R$ 0,01"},
		{99.999, "R$ 100,00"},
		{-288, "-R$ 288,00"},
		{150.5, "R$ 150,50"},
		{1.005, "R$ 1,00"},
		{2.675, "R$ 2,67"},
		{0.125, "R$ 0,13"},
		{-0.125, "-R$ 0,13"},
		{math.Inf(1), "R$ ∞"},
		{math.Inf(-1), "-R$ ∞"},
		{math.NaN(), "R$ NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatCurrency(tt.amount); got != tt.want {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}
