package pricing_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func decimalNear(t *testing.T, name string, got decimal.Decimal, want float64) {
	t.Helper()
	if math.Abs(got.InexactFloat64()-want) > 1e-6 {
		t.Fatalf("%s = %s, want %v", name, got.String(), want)
	}
}
