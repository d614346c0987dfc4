package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// resolveFirst returns the first positive candidate, or fallback when none is
// set. Stored templates carry several candidate field names per logical value
// (user-editable name, legacy name); resolution is first-match-wins with a
// single documented terminal default instead of coalescing chains inline.
func resolveFirst(fallback float64, candidates ...float64) float64 {
	for _, c := range candidates {
		if c > 0 {
			return c
		}
	}
	return fallback
}

// resolveFirstDecimal is resolveFirst for monetary values.
func resolveFirstDecimal(fallback decimal.Decimal, candidates ...decimal.Decimal) decimal.Decimal {
	for _, c := range candidates {
		if c.IsPositive() {
			return c
		}
	}
	return fallback
}

// ResolveBasePrice returns the base price per meter (or sqm) for a material,
// in cascade order cost_price > price_per_meter > unit_price > selling_price.
// Returns zero when the item is nil or carries no price at all.
func ResolveBasePrice(f *FabricItem) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return resolveFirstDecimal(decimal.Zero, f.CostPrice, f.PricePerMeter, f.UnitPrice, f.SellingPrice)
}

// DetectCategory maps a template's free-text category and name onto the
// closed treatment classification.
func DetectCategory(t Template) TreatmentCategory {
	haystack := strings.ToLower(t.Category + " " + t.Name)
	switch {
	case strings.Contains(haystack, "wallpaper") || strings.Contains(haystack, "wall paper"):
		return CategoryWallpaper
	case strings.Contains(haystack, "curtain") || strings.Contains(haystack, "drape"):
		return CategoryCurtain
	case strings.Contains(haystack, "blind") || strings.Contains(haystack, "shade") ||
		strings.Contains(haystack, "roller") || strings.Contains(haystack, "roman") ||
		strings.Contains(haystack, "venetian") || strings.Contains(haystack, "shutter"):
		return CategoryBlind
	default:
		return CategoryOther
	}
}
