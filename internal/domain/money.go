package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a float64 monetary amount (as decoded from YAML or
// JSON) into a decimal. It rejects values with more than 2 decimal places.
func ParseAmount(f float64) (decimal.Decimal, error) {
	d := decimal.NewFromFloat(f)
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, fmt.Errorf("monetary values must have at most 2 decimal places")
	}
	return d, nil
}

// AmountToFloat converts a decimal amount back to float64 for JSON output.
func AmountToFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// FormatAmount renders an amount with thousands separators, e.g.
// 1100000 → "1,100,000" and 2500.5 → "2,500.50".
func FormatAmount(d decimal.Decimal) string {
	var s string
	if d.Equal(d.Truncate(0)) {
		s = d.Truncate(0).String()
	} else {
		s = d.StringFixed(2)
	}

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
