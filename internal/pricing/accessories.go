package pricing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// MountType filters hardware bundle rules by how the track/rod is fixed.
type MountType string

const (
	MountCeiling MountType = "ceiling"
	MountWall    MountType = "wall"
	MountBoth    MountType = "both"
)

// AccessoryContext is the variable context accessory formulas evaluate
// against.
type AccessoryContext struct {
	RailWidthCm  float64
	DropCm       float64
	Fullness     float64
	CurtainCount int
}

// AccessoryItem is one resolved hardware line.
type AccessoryItem struct {
	Key       string          `json:"key"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Formula   string          `json:"formula"`
}

// AccessoryResult is the resolved hardware accessory list with its total.
// Accessories preserve the insertion order of the rules for deterministic
// breakdown display.
type AccessoryResult struct {
	Accessories []AccessoryItem `json:"accessories"`
	Total       decimal.Decimal `json:"total"`
}

// defaultAccessoryFormulas supplies a quantity formula for well-known child
// item keys when the bundle rule carries none. A rule's own qty_formula
// always wins over this table.
var defaultAccessoryFormulas = map[string]string{
	"runner":          "ceiling(rail_width_cm / 10)",
	"glider":          "ceiling(rail_width_cm / 8)",
	"end_cap":         "2",
	"end_stop":        "2",
	"ceiling_bracket": "ceiling(rail_width_cm / 50)",
	"wall_bracket":    "ceiling(rail_width_cm / 50)",
	"wand":            "curtain_count",
}

// ResolveAccessories evaluates the quantity formula of each bundle rule and
// prices the resulting hardware list.
//
// Rules failing mount-type filtering are dropped. A rule with no formula and
// no default for its key is skipped silently (logged, not an error), as is a
// formula referencing an unbound variable; one bad rule must not block the
// rest of the breakdown. Quantities are ceil(max(0, evaluated)); quantities
// ≤ 0 drop the line.
func ResolveAccessories(rules []BundleRule, ctx AccessoryContext, mount MountType, logger Logger) *AccessoryResult {
	if logger == nil {
		logger = NopLogger
	}

	count := ctx.CurtainCount
	if count <= 0 {
		count = 1
	}
	fullness := ctx.Fullness
	if fullness <= 0 {
		fullness = 1
	}
	vars := map[string]float64{
		"rail_width_cm": ctx.RailWidthCm,
		"drop_cm":       ctx.DropCm,
		"fullness":      fullness,
		"curtain_count": float64(count),
	}

	res := &AccessoryResult{Total: decimal.Zero}
	for _, rule := range rules {
		if excludedByMount(rule, mount) {
			logger.Printf("accessory %s excluded by mount type %s", rule.Key, mount)
			continue
		}

		formula := rule.QtyFormula
		if formula == "" {
			formula = defaultAccessoryFormulas[rule.Key]
		}
		if formula == "" {
			logger.Printf("accessory %s has no quantity formula and no default, skipping", rule.Key)
			continue
		}

		v, err := Evaluate(formula, vars)
		if err != nil {
			logger.Printf("accessory %s formula %q failed: %v, treating as quantity 0", rule.Key, formula, err)
			continue
		}

		qty := int(math.Ceil(math.Max(0, v)))
		if qty <= 0 {
			continue
		}

		total := rule.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		res.Accessories = append(res.Accessories, AccessoryItem{
			Key:       rule.Key,
			Quantity:  qty,
			UnitPrice: rule.UnitPrice,
			Total:     total,
			Formula:   formula,
		})
		res.Total = res.Total.Add(total)
	}
	return res
}

// RulesFromPriceMap converts a plain key → unit-price map into bundle rules
// in sorted key order, so map-shaped configuration still yields a
// deterministic breakdown. Quantities come from the default formula table.
func RulesFromPriceMap(prices map[string]decimal.Decimal) []BundleRule {
	keys := make([]string, 0, len(prices))
	for k := range prices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]BundleRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, BundleRule{Key: k, UnitPrice: prices[k]})
	}
	return rules
}

// excludedByMount applies mount-type filtering: a ceiling mount has no wall
// brackets, a wall mount has no ceiling brackets, "both" keeps everything.
// Rules may also carry an explicit mount restriction.
func excludedByMount(rule BundleRule, mount MountType) bool {
	if mount == "" || mount == MountBoth {
		return false
	}
	if rule.Mount != "" && rule.Mount != MountBoth && rule.Mount != mount {
		return true
	}
	switch rule.Key {
	case "wall_bracket":
		return mount == MountCeiling
	case "ceiling_bracket":
		return mount == MountWall
	}
	return false
}
