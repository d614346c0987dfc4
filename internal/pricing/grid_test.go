package pricing_test

import (
	"testing"

	"quote-engine/internal/pricing"

	"github.com/shopspring/decimal"
)

func testGrid() *pricing.PricingGrid {
	widths := []float64{100, 150, 200}
	heights := []float64{120, 180, 240}
	grid := &pricing.PricingGrid{}
	for _, w := range widths {
		for _, h := range heights {
			// Distinct price per cell so lookups are unambiguous.
			grid.Cells = append(grid.Cells, pricing.GridCell{
				WidthCm:  w,
				HeightCm: h,
				Price:    decimal.NewFromFloat(w + h/1000),
			})
		}
	}
	return grid
}

func TestPriceFromGrid_CeilingMatch(t *testing.T) {
	grid := testGrid()

	tests := []struct {
		name          string
		width, height float64
		want          float64
	}{
		{name: "between breakpoints picks next cell up", width: 140, height: 160, want: 150.18},
		{name: "exact breakpoint match", width: 150, height: 180, want: 150.18},
		{name: "smallest cell", width: 10, height: 10, want: 100.12},
		{name: "largest cell", width: 200, height: 240, want: 200.24},
		{name: "width over all breakpoints", width: 250, height: 100, want: 0},
		{name: "height over all breakpoints", width: 100, height: 300, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.PriceFromGrid(grid, tt.width, tt.height)
			decimalNear(t, "price", got, tt.want)
		})
	}
}

func TestPriceFromGrid_Total(t *testing.T) {
	// Malformed and missing input never panics and never prices.
	if got := pricing.PriceFromGrid(nil, 100, 100); !got.IsZero() {
		t.Errorf("nil grid = %s, want 0", got)
	}
	if got := pricing.PriceFromGrid(&pricing.PricingGrid{}, 100, 100); !got.IsZero() {
		t.Errorf("empty grid = %s, want 0", got)
	}
	if got := pricing.PriceFromGrid(testGrid(), 0, 100); !got.IsZero() {
		t.Errorf("zero width = %s, want 0", got)
	}
	if got := pricing.PriceFromGrid(testGrid(), 100, -5); !got.IsZero() {
		t.Errorf("negative height = %s, want 0", got)
	}
}
