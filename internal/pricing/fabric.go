package pricing

import (
	"fmt"
	"math"
)

// CurtainFabricInput holds the measurements and allowances for the curtain
// linear-meter model. All lengths are centimeters.
type CurtainFabricInput struct {
	RailWidthCm float64
	DropCm      float64
	PoolingCm   float64

	FullnessRatio float64
	CurtainCount  int // 1 for single, 2 for pair

	FabricWidthCm      float64
	VerticalRepeatCm   float64
	HorizontalRepeatCm float64

	SideHemCm     float64
	HeaderHemCm   float64
	BottomHemCm   float64
	ReturnLeftCm  float64
	ReturnRightCm float64
	SeamHemCm     float64
	WastePercent  float64
}

// FabricUsageResult is the output of the curtain fabric usage calculation.
type FabricUsageResult struct {
	RequiredWidthCm    float64  `json:"required_width_cm"`
	TotalWidthCm       float64  `json:"total_width_cm"` // with returns, hems and repeat rounding
	WidthsRequired     int      `json:"widths_required"`
	SeamsRequired      int      `json:"seams_required"`
	SeamAllowanceCm    float64  `json:"seam_allowance_cm"`
	DropPerWidthCm     float64  `json:"drop_per_width_cm"`
	LinearMeters       float64  `json:"linear_meters"`
	LeftoverPerPanelCm float64  `json:"leftover_per_panel_cm"`
	Warnings           []string `json:"warnings,omitempty"`
}

// CalculateFabricUsage computes how much fabric a curtain needs.
//
// Width: rail width × fullness, plus returns and side hems. The side-hem term
// is doubled (two hems per panel) and scaled by the panel count exactly once,
// here; the orchestrator never re-applies it. The total is then rounded up
// to the next horizontal pattern repeat so patterns align across panels.
//
// Length: drop plus header/bottom hems and pooling, rounded up to the next
// vertical repeat, plus seam allowance for joined widths, times the number of
// widths, plus waste.
//
// A missing fabric width yields WidthsRequired == 0 with a warning. That is a
// configuration-error state the caller must handle, not a silent default.
func CalculateFabricUsage(in CurtainFabricInput) (*FabricUsageResult, error) {
	if in.RailWidthCm <= 0 {
		return nil, &InvalidDimensionError{Field: "rail_width_cm", Value: in.RailWidthCm}
	}
	if in.DropCm <= 0 {
		return nil, &InvalidDimensionError{Field: "drop_cm", Value: in.DropCm}
	}

	res := &FabricUsageResult{}

	fullness := in.FullnessRatio
	if fullness <= 0 {
		fullness = 1
		res.Warnings = append(res.Warnings, "fullness ratio not set, defaulting to 1")
	}
	count := in.CurtainCount
	if count <= 0 {
		count = 1
	}

	res.RequiredWidthCm = in.RailWidthCm * fullness
	total := res.RequiredWidthCm + in.ReturnLeftCm + in.ReturnRightCm + in.SideHemCm*2*float64(count)
	total = roundUpToRepeat(total, in.HorizontalRepeatCm)
	res.TotalWidthCm = total

	dropSum := in.DropCm + in.HeaderHemCm + in.BottomHemCm + in.PoolingCm
	res.DropPerWidthCm = roundUpToRepeat(dropSum, in.VerticalRepeatCm)

	if in.FabricWidthCm <= 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("fabric width unknown, cannot compute widths required for %.0fcm total width", total))
		return res, nil
	}

	res.WidthsRequired = int(math.Ceil(total / in.FabricWidthCm))
	res.SeamsRequired = res.WidthsRequired - 1
	if res.SeamsRequired < 0 {
		res.SeamsRequired = 0
	}
	res.SeamAllowanceCm = float64(res.SeamsRequired) * in.SeamHemCm * 2

	res.LinearMeters = ((res.DropPerWidthCm + res.SeamAllowanceCm) / 100) *
		float64(res.WidthsRequired) * (1 + in.WastePercent/100)

	leftover := (float64(res.WidthsRequired)*in.FabricWidthCm - total) / float64(res.WidthsRequired)
	if leftover > 0 {
		res.LeftoverPerPanelCm = leftover
	}

	return res, nil
}

// roundUpToRepeat rounds v up to the next multiple of repeat. A repeat of
// zero (plain fabric) leaves v unchanged.
func roundUpToRepeat(v, repeat float64) float64 {
	if repeat <= 0 || v <= 0 {
		return v
	}
	return math.Ceil(v/repeat) * repeat
}
