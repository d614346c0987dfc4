package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceContext carries the measurement-derived quantities a pricing method
// may need. FabricCost is only consumed by the percentage method; Grid only
// by pricing_grid.
type PriceContext struct {
	RailWidthCm    float64
	DropCm         float64
	CurtainCount   int
	WidthsRequired int
	FabricCost     decimal.Decimal
	Grid           *PricingGrid
}

// PriceResult pairs a computed cost with a human-readable trace of the
// arithmetic, shown on quote breakdowns and asserted in tests.
type PriceResult struct {
	Cost        decimal.Decimal `json:"cost"`
	Calculation string          `json:"calculation"`
}

// methodAliases maps the spellings found in stored configuration (hyphenated,
// legacy names) onto canonical methods. Lookup happens after lowercasing and
// hyphen→underscore normalization.
var methodAliases = map[string]PricingMethod{
	"per_meter":        MethodPerMetre,
	"per_metre":        MethodPerMetre,
	"per_linear_meter": MethodPerMetre,
	"per_linear_metre": MethodPerMetre,
	"per_sqm":          MethodPerSqm,
	"sqm":              MethodPerSqm,
	"per_drop":         MethodPerDrop,
	"per_panel":        MethodPerPanel,
	"per_curtain":      MethodPerPanel,
	"per_width":        MethodPerWidth,
	"percentage":       MethodPercentage,
	"percent":          MethodPercentage,
	"fixed":            MethodFixed,
	"per_unit":         MethodFixed,
	"per_item":         MethodFixed,
	"pricing_grid":     MethodPricingGrid,
	"grid":             MethodPricingGrid,
	"inherit":          MethodInherit,
}

// NormalizeMethod maps a raw pricing-method tag onto a canonical
// PricingMethod. Unknown or empty tags normalize to fixed, the documented
// default.
func NormalizeMethod(raw string) PricingMethod {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	if m, ok := methodAliases[key]; ok {
		return m
	}
	return MethodFixed
}

// ResolvePricingMethod substitutes the parent method for "inherit" and passes
// every other method through unchanged.
func ResolvePricingMethod(method, parent PricingMethod) PricingMethod {
	if method == MethodInherit || method == "" {
		return parent
	}
	return method
}

// CalculatePrice applies a pricing method to a base cost within the given
// context. It is total: inherit (unresolved) and unknown methods behave as
// fixed, and a grid miss yields a zero cost the caller can detect.
func CalculatePrice(method PricingMethod, baseCost decimal.Decimal, ctx PriceContext) PriceResult {
	railM := ctx.RailWidthCm / 100
	dropM := ctx.DropCm / 100

	switch method {
	case MethodPerMetre:
		cost := baseCost.Mul(decimal.NewFromFloat(railM))
		return PriceResult{
			Cost:        cost,
			Calculation: fmt.Sprintf("%s × %.2fm = %s", baseCost.StringFixed(2), railM, cost.StringFixed(2)),
		}
	case MethodPerSqm:
		sqm := ctx.RailWidthCm * ctx.DropCm / 10000
		cost := baseCost.Mul(decimal.NewFromFloat(sqm))
		return PriceResult{
			Cost:        cost,
			Calculation: fmt.Sprintf("%s × %.2fsqm = %s", baseCost.StringFixed(2), sqm, cost.StringFixed(2)),
		}
	case MethodPerDrop:
		cost := baseCost.Mul(decimal.NewFromFloat(dropM))
		return PriceResult{
			Cost:        cost,
			Calculation: fmt.Sprintf("%s × %.2fm drop = %s", baseCost.StringFixed(2), dropM, cost.StringFixed(2)),
		}
	case MethodPerPanel:
		count := ctx.CurtainCount
		if count <= 0 {
			count = 1
		}
		cost := baseCost.Mul(decimal.NewFromInt(int64(count)))
		return PriceResult{
			Cost:        cost,
			Calculation: fmt.Sprintf("%s × %d panel(s) = %s", baseCost.StringFixed(2), count, cost.StringFixed(2)),
		}
	case MethodPerWidth:
		cost := baseCost.Mul(decimal.NewFromInt(int64(ctx.WidthsRequired)))
		return PriceResult{
			Cost:        cost,
			Calculation: fmt.Sprintf("%s × %d width(s) = %s", baseCost.StringFixed(2), ctx.WidthsRequired, cost.StringFixed(2)),
		}
	case MethodPercentage:
		cost := ctx.FabricCost.Mul(baseCost).Div(decimal.NewFromInt(100))
		return PriceResult{
			Cost:        cost,
			Calculation: fmt.Sprintf("%s%% of fabric %s = %s", baseCost.StringFixed(1), ctx.FabricCost.StringFixed(2), cost.StringFixed(2)),
		}
	case MethodPricingGrid:
		cost := PriceFromGrid(ctx.Grid, ctx.RailWidthCm, ctx.DropCm)
		return PriceResult{
			Cost:        cost,
			Calculation: fmt.Sprintf("grid %.0fcm × %.0fcm = %s", ctx.RailWidthCm, ctx.DropCm, cost.StringFixed(2)),
		}
	default: // fixed, per-unit, per-item, unresolved inherit
		return PriceResult{
			Cost:        baseCost,
			Calculation: fmt.Sprintf("fixed %s", baseCost.StringFixed(2)),
		}
	}
}
