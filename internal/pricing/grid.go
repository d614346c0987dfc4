package pricing

import "github.com/shopspring/decimal"

// PriceFromGrid looks up the price for a target width/height in a 2-D
// breakpoint grid: the matching cell is the one with the smallest width
// breakpoint ≥ widthCm and, among those, the smallest height breakpoint
// ≥ heightCm (ceiling match on both axes).
//
// The function is total: a nil or empty grid, non-positive measurements, or a
// target exceeding every breakpoint all return zero, and the caller decides
// whether to fall back to a different pricing strategy.
func PriceFromGrid(grid *PricingGrid, widthCm, heightCm float64) decimal.Decimal {
	if grid == nil || len(grid.Cells) == 0 || widthCm <= 0 || heightCm <= 0 {
		return decimal.Zero
	}

	var best *GridCell
	for i := range grid.Cells {
		c := &grid.Cells[i]
		if c.WidthCm < widthCm || c.HeightCm < heightCm {
			continue
		}
		if best == nil || c.WidthCm < best.WidthCm ||
			(c.WidthCm == best.WidthCm && c.HeightCm < best.HeightCm) {
			best = c
		}
	}
	if best == nil {
		return decimal.Zero
	}
	return best.Price
}
