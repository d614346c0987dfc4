package pricing_test

import (
	"errors"
	"testing"

	"quote-engine/internal/pricing"
)

func TestCalculateBlindSqm_Identity(t *testing.T) {
	// With zero hems and waste, sqm is exactly width × drop / 10000.
	tests := []struct {
		width, drop float64
	}{
		{100, 100},
		{120, 180},
		{250, 300},
		{0.01, 0.01},
	}
	for _, tt := range tests {
		res, err := pricing.CalculateBlindSqm(tt.width, tt.drop, pricing.BlindHems{})
		if err != nil {
			t.Fatalf("CalculateBlindSqm(%v, %v): %v", tt.width, tt.drop, err)
		}
		nearlyEqual(t, "sqm", res.Sqm, tt.width*tt.drop/10000)
		nearlyEqual(t, "effective width", res.EffectiveWidthCm, tt.width)
		nearlyEqual(t, "effective height", res.EffectiveHeightCm, tt.drop)
	}
}

func TestCalculateBlindSqm_HemsAndWaste(t *testing.T) {
	hems := pricing.BlindHems{
		SideHemCm:    5,
		HeaderHemCm:  8,
		BottomHemCm:  10,
		WastePercent: 10,
	}
	res, err := pricing.CalculateBlindSqm(200, 180, hems)
	if err != nil {
		t.Fatalf("CalculateBlindSqm: %v", err)
	}

	nearlyEqual(t, "effective width", res.EffectiveWidthCm, 210)  // 200 + 2×5
	nearlyEqual(t, "effective height", res.EffectiveHeightCm, 198) // 180 + 8 + 10
	nearlyEqual(t, "sqm", res.Sqm, (210*198/10000.0)*1.1)

	if res.WidthCalcNote == "" || res.HeightCalcNote == "" {
		t.Error("expected non-empty calc notes")
	}
}

func TestCalculateBlindSqm_InvalidDimensions(t *testing.T) {
	var dimErr *pricing.InvalidDimensionError
	for _, tt := range []struct{ width, drop float64 }{
		{0, 100},
		{-1, 100},
		{100, 0},
		{100, -0.5},
	} {
		if _, err := pricing.CalculateBlindSqm(tt.width, tt.drop, pricing.BlindHems{}); !errors.As(err, &dimErr) {
			t.Errorf("(%v, %v): expected InvalidDimensionError, got %v", tt.width, tt.drop, err)
		}
	}
}
