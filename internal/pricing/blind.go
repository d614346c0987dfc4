package pricing

import "fmt"

// BlindHems are the resolved hem allowances for the blind area model. Hem
// resolution (user-editable field vs legacy field vs default 0) happens
// upstream; this calculator only sees final values.
type BlindHems struct {
	SideHemCm    float64
	HeaderHemCm  float64
	BottomHemCm  float64
	WastePercent float64
}

// BlindSqmResult is the output of the blind area calculation. The calc notes
// show the arithmetic for display on the quote form.
type BlindSqmResult struct {
	Sqm               float64 `json:"sqm"`
	EffectiveWidthCm  float64 `json:"effective_width_cm"`
	EffectiveHeightCm float64 `json:"effective_height_cm"`
	WidthCalcNote     string  `json:"width_calc_note"`
	HeightCalcNote    string  `json:"height_calc_note"`
}

// CalculateBlindSqm computes the fabric area for an area-priced blind:
// effective width = rail width + 2 × side hem, effective height = drop +
// header hem + bottom hem, sqm = width × height / 10000, plus waste.
func CalculateBlindSqm(railWidthCm, dropCm float64, hems BlindHems) (*BlindSqmResult, error) {
	if railWidthCm <= 0 {
		return nil, &InvalidDimensionError{Field: "rail_width_cm", Value: railWidthCm}
	}
	if dropCm <= 0 {
		return nil, &InvalidDimensionError{Field: "drop_cm", Value: dropCm}
	}

	effWidth := railWidthCm + hems.SideHemCm*2
	effHeight := dropCm + hems.HeaderHemCm + hems.BottomHemCm
	sqm := (effWidth * effHeight / 10000) * (1 + hems.WastePercent/100)

	return &BlindSqmResult{
		Sqm:               sqm,
		EffectiveWidthCm:  effWidth,
		EffectiveHeightCm: effHeight,
		WidthCalcNote:     fmt.Sprintf("%.1fcm + 2 × %.1fcm side hem = %.1fcm", railWidthCm, hems.SideHemCm, effWidth),
		HeightCalcNote:    fmt.Sprintf("%.1fcm + %.1fcm header + %.1fcm bottom = %.1fcm", dropCm, hems.HeaderHemCm, hems.BottomHemCm, effHeight),
	}, nil
}
