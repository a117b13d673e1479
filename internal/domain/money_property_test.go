package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func TestProperty_AmountRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Cent values keep the float64 representation at 2 decimal places.
		cents := rapid.Int64Range(-99_999_999_99, 99_999_999_99).Draw(t, "cents")
		want := decimal.New(cents, -2)

		got, err := ParseAmount(AmountToFloat(want))
		if err != nil {
			t.Fatalf("ParseAmount rejected %s: %v", want, err)
		}
		if !got.Equal(want) {
			t.Fatalf("round-trip failed: %s → %s", want, got)
		}
	})
}

func TestProperty_ParseAmountRejectsExcessPrecision(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		whole := rapid.Int64Range(0, 999_999).Draw(t, "whole")
		d3 := rapid.IntRange(1, 9).Draw(t, "d3") // non-zero third decimal
		f := decimal.New(whole*1000+int64(d3), -3).InexactFloat64()

		if _, err := ParseAmount(f); err == nil {
			t.Fatalf("ParseAmount(%v) should reject value with >2 decimal places", f)
		}
	})
}
