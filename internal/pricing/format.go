package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// exactExponent is below the smallest float64 exponent (2^-1074), so
// NewFromFloatWithExponent keeps every binary digit.
const exactExponent = -1100

// FormatCurrency renders an amount in Brazilian reais: "R$ 1.632,00".
// The exact binary value is rounded half away from zero, so 1.005 (stored as
// 1.00499...) shows as "R$ 1,00" while 0.125 shows as "R$ 0,13".
// Non-finite amounts render as "R$ ∞" or "R$ NaN" instead of failing.
func FormatCurrency(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "R$ NaN"
	case math.IsInf(amount, 1):
		return "R$ ∞"
	case math.IsInf(amount, -1):
		return "-R$ ∞"
	}

	d := decimal.NewFromFloatWithExponent(amount, exactExponent).Round(2)

	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("R$ ")
	b.WriteString(groupThousands(intPart))
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// groupThousands inserts "." every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
