package pricing

import "github.com/shopspring/decimal"

// TreatmentComplexity scales the base make-up hours.
type TreatmentComplexity string

const (
	ComplexitySimple   TreatmentComplexity = "simple"
	ComplexityModerate TreatmentComplexity = "moderate"
	ComplexityComplex  TreatmentComplexity = "complex"
)

// Labor model constants. The multipliers are workroom policy, tunable without
// touching the formula.
const (
	BaseHoursPerMeterWidth = 0.3 // per meter of gathered width
	BaseHoursPerMeterDrop  = 0.2 // per meter of drop

	ComplexityMultiplierSimple   = 1.0
	ComplexityMultiplierModerate = 1.25
	ComplexityMultiplierComplex  = 1.5
)

// LaborInput holds the parameters for the labor estimate. SeamLaborHours is
// passed through from the fabric usage calculation (hours per seam already
// multiplied out by the caller's policy).
type LaborInput struct {
	RailWidthCm    float64
	DropCm         float64
	Fullness       float64
	LaborRate      decimal.Decimal // per hour
	SeamLaborHours float64
	Complexity     TreatmentComplexity
}

// LaborResult is the labor estimate with its breakdown.
type LaborResult struct {
	Hours float64         `json:"hours"`
	Cost  decimal.Decimal `json:"cost"`

	BaseHours       float64 `json:"base_hours"`
	ComplexityHours float64 `json:"complexity_hours"` // extra hours added by the multiplier
	SeamHours       float64 `json:"seam_hours"`
}

// CalculateLabor estimates make-up labor using a base-hours-plus-incremental
// model: base hours from gathered width and drop, scaled by a complexity
// multiplier, plus seam labor.
func CalculateLabor(in LaborInput) *LaborResult {
	fullness := in.Fullness
	if fullness <= 0 {
		fullness = 1
	}

	gatheredWidthM := in.RailWidthCm / 100 * fullness
	baseHours := gatheredWidthM*BaseHoursPerMeterWidth + in.DropCm/100*BaseHoursPerMeterDrop

	mult := complexityMultiplier(in.Complexity)
	complexityHours := baseHours * (mult - 1)
	hours := baseHours*mult + in.SeamLaborHours

	return &LaborResult{
		Hours:           hours,
		Cost:            in.LaborRate.Mul(decimal.NewFromFloat(hours)),
		BaseHours:       baseHours,
		ComplexityHours: complexityHours,
		SeamHours:       in.SeamLaborHours,
	}
}

func complexityMultiplier(c TreatmentComplexity) float64 {
	switch c {
	case ComplexityModerate:
		return ComplexityMultiplierModerate
	case ComplexityComplex:
		return ComplexityMultiplierComplex
	default:
		return ComplexityMultiplierSimple
	}
}
