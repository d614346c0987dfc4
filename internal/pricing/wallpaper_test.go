package pricing_test

import (
	"errors"
	"testing"

	"quote-engine/internal/pricing"
)

func TestCalculateWallpaper_NoRepeat(t *testing.T) {
	// 300cm wall, 240cm high, 53cm × 10m rolls, plain paper.
	res, err := pricing.CalculateWallpaper(pricing.WallpaperInput{
		WallWidthCm:  300,
		WallHeightCm: 240,
		RollWidthCm:  53,
		RollLengthM:  10,
	})
	if err != nil {
		t.Fatalf("CalculateWallpaper: %v", err)
	}

	if res.StripsNeeded != 6 {
		t.Errorf("StripsNeeded = %d, want 6", res.StripsNeeded)
	}
	nearlyEqual(t, "LengthPerStripM", res.LengthPerStripM, 2.4)
	if res.StripsPerRoll != 4 {
		t.Errorf("StripsPerRoll = %d, want 4", res.StripsPerRoll)
	}
	if res.RollsNeeded != 2 {
		t.Errorf("RollsNeeded = %d, want 2", res.RollsNeeded)
	}
	if res.LeftoverStrips != 2 {
		t.Errorf("LeftoverStrips = %d, want 2", res.LeftoverStrips)
	}
	nearlyEqual(t, "LeftoverLengthM", res.LeftoverLengthM, 4.8)
	// 2 rolls × 10m × 0.53m − 3m × 2.4m wall area
	nearlyEqual(t, "CoverageWasteSqm", res.CoverageWasteSqm, 10.6-7.2)
}

func TestCalculateWallpaper_PatternRepeat(t *testing.T) {
	// 64cm repeat: each strip is (2.4 + 0.64) rounded up to the next 0.64
	// multiple = 3.2m.
	res, err := pricing.CalculateWallpaper(pricing.WallpaperInput{
		WallWidthCm:      300,
		WallHeightCm:     240,
		RollWidthCm:      53,
		RollLengthM:      10,
		VerticalRepeatCm: 64,
	})
	if err != nil {
		t.Fatalf("CalculateWallpaper: %v", err)
	}

	nearlyEqual(t, "LengthPerStripM", res.LengthPerStripM, 3.2)
	if res.StripsPerRoll != 3 {
		t.Errorf("StripsPerRoll = %d, want 3", res.StripsPerRoll)
	}
	if res.RollsNeeded != 2 {
		t.Errorf("RollsNeeded = %d, want 2", res.RollsNeeded)
	}
}

func TestCalculateWallpaper_RepeatLongerThanRoll(t *testing.T) {
	res, err := pricing.CalculateWallpaper(pricing.WallpaperInput{
		WallWidthCm:      300,
		WallHeightCm:     240,
		RollWidthCm:      53,
		RollLengthM:      2,
		VerticalRepeatCm: 300,
	})
	if err != nil {
		t.Fatalf("CalculateWallpaper: %v", err)
	}

	if res.StripsPerRoll != 0 {
		t.Errorf("StripsPerRoll = %d, want 0", res.StripsPerRoll)
	}
	if res.RollsNeeded != 0 {
		t.Errorf("RollsNeeded = %d, want 0 when no full strip fits a roll", res.RollsNeeded)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning when the pattern repeat exceeds the roll length")
	}
}

func TestCalculateWallpaper_InvalidDimensions(t *testing.T) {
	var dimErr *pricing.InvalidDimensionError
	for _, in := range []pricing.WallpaperInput{
		{WallWidthCm: 0, WallHeightCm: 240, RollWidthCm: 53, RollLengthM: 10},
		{WallWidthCm: 300, WallHeightCm: -1, RollWidthCm: 53, RollLengthM: 10},
		{WallWidthCm: 300, WallHeightCm: 240, RollWidthCm: 0, RollLengthM: 10},
		{WallWidthCm: 300, WallHeightCm: 240, RollWidthCm: 53, RollLengthM: 0},
	} {
		if _, err := pricing.CalculateWallpaper(in); !errors.As(err, &dimErr) {
			t.Errorf("%+v: expected InvalidDimensionError, got %v", in, err)
		}
	}
}
