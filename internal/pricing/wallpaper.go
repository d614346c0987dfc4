package pricing

import (
	"fmt"
	"math"
)

// WallpaperInput holds the wall and roll dimensions for the strip/roll model.
// Wall measurements are centimeters; roll length is meters, matching how
// wallpaper is sold.
type WallpaperInput struct {
	WallWidthCm      float64
	WallHeightCm     float64
	RollWidthCm      float64
	RollLengthM      float64
	VerticalRepeatCm float64
}

// WallpaperResult is the output of the wallpaper usage calculation.
type WallpaperResult struct {
	StripsNeeded      int      `json:"strips_needed"`
	LengthPerStripM   float64  `json:"length_per_strip_m"`
	StripsPerRoll     int      `json:"strips_per_roll"`
	RollsNeeded       int      `json:"rolls_needed"`
	TotalStripLengthM float64  `json:"total_strip_length_m"`
	LeftoverStrips    int      `json:"leftover_strips"`
	LeftoverLengthM   float64  `json:"leftover_length_m"`
	CoverageWasteSqm  float64  `json:"coverage_waste_sqm"`
	Warnings          []string `json:"warnings,omitempty"`
}

// CalculateWallpaper computes strip and roll counts for papering a wall.
// With a pattern repeat, each strip is cut one repeat longer and rounded up
// to the next repeat multiple so the pattern matches across strips.
//
// A pattern repeat longer than the roll makes strips-per-roll zero; that is
// reported as a warning with RollsNeeded == 0 rather than dividing by zero.
func CalculateWallpaper(in WallpaperInput) (*WallpaperResult, error) {
	if in.WallWidthCm <= 0 {
		return nil, &InvalidDimensionError{Field: "wall_width_cm", Value: in.WallWidthCm}
	}
	if in.WallHeightCm <= 0 {
		return nil, &InvalidDimensionError{Field: "wall_height_cm", Value: in.WallHeightCm}
	}
	if in.RollWidthCm <= 0 {
		return nil, &InvalidDimensionError{Field: "roll_width_cm", Value: in.RollWidthCm}
	}
	if in.RollLengthM <= 0 {
		return nil, &InvalidDimensionError{Field: "roll_length_m", Value: in.RollLengthM}
	}

	res := &WallpaperResult{}
	res.StripsNeeded = int(math.Ceil(in.WallWidthCm / in.RollWidthCm))

	wallHeightM := in.WallHeightCm / 100
	repeatM := in.VerticalRepeatCm / 100
	if repeatM > 0 {
		res.LengthPerStripM = math.Ceil((wallHeightM+repeatM)/repeatM) * repeatM
	} else {
		res.LengthPerStripM = wallHeightM
	}
	res.TotalStripLengthM = float64(res.StripsNeeded) * res.LengthPerStripM

	res.StripsPerRoll = int(math.Floor(in.RollLengthM / res.LengthPerStripM))
	if res.StripsPerRoll == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"pattern repeat makes each strip %.2fm, longer than the %.2fm roll, cannot cut a full strip per roll",
			res.LengthPerStripM, in.RollLengthM))
		return res, nil
	}

	res.RollsNeeded = int(math.Ceil(float64(res.StripsNeeded) / float64(res.StripsPerRoll)))
	res.LeftoverStrips = res.RollsNeeded*res.StripsPerRoll - res.StripsNeeded
	res.LeftoverLengthM = float64(res.LeftoverStrips) * res.LengthPerStripM

	wallAreaSqm := (in.WallWidthCm / 100) * wallHeightM
	rollWidthM := in.RollWidthCm / 100
	res.CoverageWasteSqm = float64(res.RollsNeeded)*in.RollLengthM*rollWidthM - wallAreaSqm

	return res, nil
}
