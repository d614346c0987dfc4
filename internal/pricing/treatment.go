package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TreatmentPricingInput is the sole input of the top-level pricing entry
// point. Every record must arrive fully resolved: the data layer fetches
// templates, materials, options, and grids before the engine runs, and all
// lengths are centimeters.
type TreatmentPricingInput struct {
	Template          Template         `json:"template"`
	Measurement       Measurement      `json:"measurement"`
	Fabric            *FabricItem      `json:"fabric,omitempty"`
	SelectedHeadingID string           `json:"selected_heading_id,omitempty"`
	SelectedLining    string           `json:"selected_lining,omitempty"`
	SelectedOptionIDs []string         `json:"selected_options,omitempty"`
	FlatOptions       []Option         `json:"flat_options,omitempty"`
	OptionTree        []OptionCategory `json:"option_tree,omitempty"`
	Inventory         []InventoryItem  `json:"inventory,omitempty"` // heading lookups
	Grid              *PricingGrid     `json:"pricing_grid,omitempty"`
	Currency          string           `json:"currency,omitempty"`
}

// Engine runs treatment pricing calculations. It is stateless apart from the
// injected logger; one engine can serve concurrent calculations.
type Engine struct {
	log Logger
}

// NewEngine constructs an Engine. A nil logger disables tracing.
func NewEngine(logger Logger) *Engine {
	if logger == nil {
		logger = NopLogger
	}
	return &Engine{log: logger}
}

// CalculateTreatmentPricing computes quantities and the itemized cost
// breakdown for one job line item.
//
// Missing optional configuration never fails the calculation: documented
// defaults are substituted and a warning is appended. Only invalid required
// measurements (width or drop ≤ 0) or an unresolvable fabric width on a
// width-based calculation return an error.
func (e *Engine) CalculateTreatmentPricing(in TreatmentPricingInput) (*CalculationResult, error) {
	t := in.Template
	m := in.Measurement

	res := &CalculationResult{
		Category:          DetectCategory(t),
		Currency:          in.Currency,
		FabricCost:        decimal.Zero,
		LiningCost:        decimal.Zero,
		ManufacturingCost: decimal.Zero,
		OptionsCost:       decimal.Zero,
		HeadingCost:       decimal.Zero,
		TotalCost:         decimal.Zero,
	}

	method := NormalizeMethod(string(t.PricingType))
	if strings.TrimSpace(string(t.PricingType)) == "" {
		// Blinds are area products; everything else defaults to yardage.
		if res.Category == CategoryBlind {
			method = MethodPerSqm
		} else {
			method = MethodPerMetre
		}
	}
	res.PricingType = method

	res.CurtainCount = panelCount(t.PanelConfiguration)

	sideHem := resolveFirst(0, t.SideHemCm)
	headerHem := resolveFirst(0, t.HeaderAllowanceCm, t.HeaderHemCm)
	if headerHem == 0 && res.Category != CategoryWallpaper {
		res.Warnings = append(res.Warnings, "header allowance not configured, using 0")
	}
	bottomHem := resolveFirst(0, t.BottomHemCm, t.BottomAllowanceCm)
	if bottomHem == 0 && res.Category != CategoryWallpaper {
		res.Warnings = append(res.Warnings, "bottom hem not configured, using 0")
	}

	fullness := t.FullnessRatio
	if fullness <= 0 {
		fullness = 1
		if res.Category == CategoryCurtain || res.Category == CategoryOther {
			res.Warnings = append(res.Warnings, "fullness ratio not configured, using 1")
		}
	}

	basePrice := ResolveBasePrice(in.Fabric)
	if in.Fabric == nil {
		res.Warnings = append(res.Warnings, "no material selected, fabric cost is 0")
	} else if basePrice.IsZero() {
		res.Warnings = append(res.Warnings, fmt.Sprintf("material %s carries no price, fabric cost is 0", in.Fabric.Code))
	}

	grid := in.Grid
	if grid == nil && in.Fabric != nil {
		grid = in.Fabric.Grid
	}
	if grid == nil {
		grid = t.Grid
	}

	var fabricWidth, vRepeat, hRepeat float64
	if in.Fabric != nil {
		fabricWidth = resolveFirst(0, m.FabricWidthCm, in.Fabric.FabricWidthCm)
		vRepeat = resolveFirst(0, m.VerticalRepeatCm, in.Fabric.VerticalRepeatCm)
		hRepeat = resolveFirst(0, m.HorizontalRepeatCm, in.Fabric.HorizontalRepeatCm)
	} else {
		fabricWidth = m.FabricWidthCm
		vRepeat = m.VerticalRepeatCm
		hRepeat = m.HorizontalRepeatCm
	}

	var err error
	switch res.Category {
	case CategoryWallpaper:
		err = e.priceWallpaper(in, m, basePrice, vRepeat, res)
	case CategoryBlind:
		err = e.priceBlind(t, m, method, basePrice, grid,
			BlindHems{SideHemCm: sideHem, HeaderHemCm: headerHem, BottomHemCm: bottomHem, WastePercent: t.WastePercent}, res)
	default: // curtain and other manufactured items share the yardage model
		err = e.priceCurtain(t, m, method, basePrice, grid, fullness,
			sideHem, headerHem, bottomHem, fabricWidth, vRepeat, hRepeat, res)
	}
	if err != nil {
		return nil, err
	}

	e.priceLining(t, in.SelectedLining, res)

	ctx := PriceContext{
		RailWidthCm:    m.RailWidthCm,
		DropCm:         m.DropCm,
		CurtainCount:   res.CurtainCount,
		WidthsRequired: res.WidthsRequired,
		FabricCost:     res.FabricCost,
		Grid:           grid,
	}
	opts := AggregateOptions(in.SelectedOptionIDs, in.FlatOptions, in.OptionTree, method, ctx)
	res.OptionsCost = opts.Total
	for _, d := range opts.Details {
		qty, unit := quantityForMethod(d.Method, ctx)
		res.Breakdown = append(res.Breakdown, BreakdownLine{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Calculation,
			Quantity:    qty,
			Unit:        unit,
			UnitPrice:   d.BasePrice,
			Total:       d.Cost,
			Category:    "option",
		})
	}

	e.priceHeading(t, in, m, res)

	res.TotalCost = res.FabricCost.
		Add(res.LiningCost).
		Add(res.ManufacturingCost).
		Add(res.OptionsCost).
		Add(res.HeadingCost)

	return res, nil
}

// priceCurtain handles the yardage model shared by curtains and other
// manufactured items.
func (e *Engine) priceCurtain(t Template, m Measurement, method PricingMethod,
	basePrice decimal.Decimal, grid *PricingGrid, fullness, sideHem, headerHem, bottomHem,
	fabricWidth, vRepeat, hRepeat float64, res *CalculationResult) error {

	usage, err := CalculateFabricUsage(CurtainFabricInput{
		RailWidthCm:        m.RailWidthCm,
		DropCm:             m.DropCm,
		PoolingCm:          m.PoolingCm,
		FullnessRatio:      fullness,
		CurtainCount:       res.CurtainCount,
		FabricWidthCm:      fabricWidth,
		VerticalRepeatCm:   vRepeat,
		HorizontalRepeatCm: hRepeat,
		SideHemCm:          sideHem,
		HeaderHemCm:        headerHem,
		BottomHemCm:        bottomHem,
		ReturnLeftCm:       t.ReturnLeftCm,
		ReturnRightCm:      t.ReturnRightCm,
		SeamHemCm:          t.SeamHemCm,
		WastePercent:       t.WastePercent,
	})
	if err != nil {
		return err
	}
	res.Warnings = append(res.Warnings, usage.Warnings...)
	res.LinearMeters = usage.LinearMeters
	res.WidthsRequired = usage.WidthsRequired

	// Widths-required is mandatory for every width-based strategy. Grid
	// pricing alone can proceed without it, but only while the grid hits.
	if fabricWidth <= 0 && method != MethodPricingGrid {
		return &InvalidDimensionError{Field: "fabric_width_cm", Value: fabricWidth}
	}

	fabricName := "Fabric"

	switch method {
	case MethodPricingGrid:
		price := PriceFromGrid(grid, m.RailWidthCm, m.DropCm)
		if price.IsZero() {
			e.log.Printf("pricing grid miss for %.0fcm × %.0fcm, falling back to per-linear-meter", m.RailWidthCm, m.DropCm)
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("no pricing grid entry for %.0fcm × %.0fcm, fell back to per-linear-meter pricing", m.RailWidthCm, m.DropCm))
			if fabricWidth <= 0 {
				return &InvalidDimensionError{Field: "fabric_width_cm", Value: fabricWidth}
			}
			res.FabricCost = basePrice.Mul(decimal.NewFromFloat(usage.LinearMeters))
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: "fabric", Name: fabricName,
				Description: fmt.Sprintf("%.2fm @ %s/m (grid fallback)", usage.LinearMeters, basePrice.StringFixed(2)),
				Quantity:    usage.LinearMeters, Unit: "m",
				UnitPrice: basePrice, Total: res.FabricCost, Category: "fabric",
			})
		} else {
			e.log.Printf("pricing grid hit for %.0fcm × %.0fcm: %s", m.RailWidthCm, m.DropCm, price.StringFixed(2))
			res.FabricCost = price
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: "fabric", Name: fabricName,
				Description: fmt.Sprintf("grid price %.0fcm × %.0fcm", m.RailWidthCm, m.DropCm),
				Quantity:    1, Unit: "item",
				UnitPrice: price, Total: price, Category: "fabric",
			})
		}
	default:
		res.FabricCost = basePrice.Mul(decimal.NewFromFloat(usage.LinearMeters))
		if !res.FabricCost.IsZero() {
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: "fabric", Name: fabricName,
				Description: fmt.Sprintf("%.2fm @ %s/m", usage.LinearMeters, basePrice.StringFixed(2)),
				Quantity:    usage.LinearMeters, Unit: "m",
				UnitPrice: basePrice, Total: res.FabricCost, Category: "fabric",
			})
		}
	}

	e.addManufacturing(t, method, res, decimal.Zero)
	return nil
}

// priceBlind handles the area model.
func (e *Engine) priceBlind(t Template, m Measurement, method PricingMethod,
	basePrice decimal.Decimal, grid *PricingGrid, hems BlindHems, res *CalculationResult) error {

	blind, err := CalculateBlindSqm(m.RailWidthCm, m.DropCm, hems)
	if err != nil {
		return err
	}
	res.Sqm = blind.Sqm

	sqmDec := decimal.NewFromFloat(blind.Sqm)

	switch method {
	case MethodPricingGrid:
		price := PriceFromGrid(grid, m.RailWidthCm, m.DropCm)
		if price.IsZero() {
			e.log.Printf("pricing grid miss for %.0fcm × %.0fcm, falling back to per-sqm", m.RailWidthCm, m.DropCm)
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("no pricing grid entry for %.0fcm × %.0fcm, fell back to per-sqm pricing", m.RailWidthCm, m.DropCm))
			res.FabricCost = basePrice.Mul(sqmDec)
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: "fabric", Name: "Blind fabric",
				Description: fmt.Sprintf("%.2fsqm @ %s/sqm (grid fallback)", blind.Sqm, basePrice.StringFixed(2)),
				Quantity:    blind.Sqm, Unit: "sqm",
				UnitPrice: basePrice, Total: res.FabricCost, Category: "fabric",
			})
		} else {
			e.log.Printf("pricing grid hit for %.0fcm × %.0fcm: %s", m.RailWidthCm, m.DropCm, price.StringFixed(2))
			res.FabricCost = price
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: "fabric", Name: "Blind",
				Description: fmt.Sprintf("grid price %.0fcm × %.0fcm", m.RailWidthCm, m.DropCm),
				Quantity:    1, Unit: "item",
				UnitPrice: price, Total: price, Category: "fabric",
			})
		}
	default:
		res.FabricCost = basePrice.Mul(sqmDec)
		if !res.FabricCost.IsZero() {
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: "fabric", Name: "Blind fabric",
				Description: fmt.Sprintf("%.2fsqm @ %s/sqm", blind.Sqm, basePrice.StringFixed(2)),
				Quantity:    blind.Sqm, Unit: "sqm",
				UnitPrice: basePrice, Total: res.FabricCost, Category: "fabric",
			})
		}
	}

	e.addManufacturing(t, method, res, sqmDec)
	return nil
}

// priceWallpaper handles the roll/strip model.
func (e *Engine) priceWallpaper(in TreatmentPricingInput, m Measurement,
	basePrice decimal.Decimal, vRepeat float64, res *CalculationResult) error {

	wallW := resolveFirst(m.RailWidthCm, m.WallWidthCm)
	wallH := resolveFirst(m.DropCm, m.WallHeightCm)

	var rollWidth, rollLength float64
	soldBy := "roll"
	if in.Fabric != nil {
		rollWidth = in.Fabric.RollWidthCm
		rollLength = in.Fabric.RollLengthM
		if in.Fabric.SoldBy != "" {
			soldBy = strings.ToLower(in.Fabric.SoldBy)
		}
	}

	wp, err := CalculateWallpaper(WallpaperInput{
		WallWidthCm:      wallW,
		WallHeightCm:     wallH,
		RollWidthCm:      rollWidth,
		RollLengthM:      rollLength,
		VerticalRepeatCm: vRepeat,
	})
	if err != nil {
		return err
	}
	res.Warnings = append(res.Warnings, wp.Warnings...)
	res.RollsRequired = wp.RollsNeeded
	res.LinearMeters = wp.TotalStripLengthM
	res.Sqm = wallW * wallH / 10000

	if strings.HasPrefix(soldBy, "met") || soldBy == "per_metre" || soldBy == "per_meter" {
		res.FabricCost = basePrice.Mul(decimal.NewFromFloat(wp.TotalStripLengthM))
		if !res.FabricCost.IsZero() {
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: "wallpaper", Name: "Wallpaper",
				Description: fmt.Sprintf("%d strips, %.2fm total @ %s/m", wp.StripsNeeded, wp.TotalStripLengthM, basePrice.StringFixed(2)),
				Quantity:    wp.TotalStripLengthM, Unit: "m",
				UnitPrice: basePrice, Total: res.FabricCost, Category: "fabric",
			})
		}
	} else {
		res.FabricCost = basePrice.Mul(decimal.NewFromInt(int64(wp.RollsNeeded)))
		if !res.FabricCost.IsZero() {
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: "wallpaper", Name: "Wallpaper",
				Description: fmt.Sprintf("%d strips → %d roll(s) @ %s", wp.StripsNeeded, wp.RollsNeeded, basePrice.StringFixed(2)),
				Quantity:    float64(wp.RollsNeeded), Unit: "roll",
				UnitPrice: basePrice, Total: res.FabricCost, Category: "fabric",
			})
		}
	}

	e.addManufacturing(in.Template, NormalizeMethod(string(in.Template.PricingType)), res, decimal.Zero)
	return nil
}

// addManufacturing books the machining cost. Grid prices marked
// all-inclusive already contain it, so nothing is added then.
func (e *Engine) addManufacturing(t Template, method PricingMethod, res *CalculationResult, sqm decimal.Decimal) {
	if method == MethodPricingGrid && t.IncludesFabricPrice {
		return
	}

	count := decimal.NewFromInt(int64(res.CurtainCount))
	var cost decimal.Decimal
	var desc string

	if res.Category == CategoryBlind {
		cost = t.MachinePricePerSqm.Mul(sqm)
		desc = fmt.Sprintf("%s/sqm × %ssqm", t.MachinePricePerSqm.StringFixed(2), sqm.StringFixed(2))
	} else {
		linear := decimal.NewFromFloat(res.LinearMeters)
		cost = t.MachinePricePerMetre.Mul(linear).
			Add(t.MachinePricePerDrop.Mul(count)).
			Add(t.MachinePricePerPanel.Mul(count))
		desc = fmt.Sprintf("%.2fm machining + per-drop/per-panel charges × %d", res.LinearMeters, res.CurtainCount)
	}

	if cost.IsZero() {
		return
	}
	res.ManufacturingCost = cost
	res.Breakdown = append(res.Breakdown, BreakdownLine{
		ID: "manufacturing", Name: "Manufacturing",
		Description: desc,
		Quantity:    1, Unit: "item",
		UnitPrice: cost, Total: cost, Category: "manufacturing",
	})
}

// priceLining books the lining cost for the selected lining type.
func (e *Engine) priceLining(t Template, selected string, res *CalculationResult) {
	if selected == "" || strings.EqualFold(selected, "none") {
		return
	}

	for _, lt := range t.LiningTypes {
		if !strings.EqualFold(lt.Type, selected) {
			continue
		}
		count := decimal.NewFromInt(int64(res.CurtainCount))
		cost := lt.PricePerMetre.Mul(decimal.NewFromFloat(res.LinearMeters)).
			Add(lt.LabourPerCurtain.Mul(count))
		if cost.IsZero() {
			return
		}
		res.LiningCost = cost
		res.Breakdown = append(res.Breakdown, BreakdownLine{
			ID: "lining", Name: fmt.Sprintf("Lining (%s)", lt.Type),
			Description: fmt.Sprintf("%.2fm @ %s/m + %s labour × %d", res.LinearMeters,
				lt.PricePerMetre.StringFixed(2), lt.LabourPerCurtain.StringFixed(2), res.CurtainCount),
			Quantity:  res.LinearMeters,
			Unit:      "m",
			UnitPrice: lt.PricePerMetre,
			Total:     cost,
			Category:  "lining",
		})
		return
	}

	res.Warnings = append(res.Warnings, fmt.Sprintf("lining type %q not configured on template %s", selected, t.Code))
}

// priceHeading books the heading cost: the selected heading item priced per
// meter of rail, plus template-level heading upcharges.
func (e *Engine) priceHeading(t Template, in TreatmentPricingInput, m Measurement, res *CalculationResult) {
	railM := m.RailWidthCm / 100
	cost := decimal.Zero

	if in.SelectedHeadingID != "" {
		found := false
		for _, item := range in.Inventory {
			if item.ID != in.SelectedHeadingID || !strings.Contains(strings.ToLower(item.Category), "heading") {
				continue
			}
			found = true
			price := resolveFirstDecimal(item.UnitPrice, item.PricePerMeter)
			headingCost := price.Mul(decimal.NewFromFloat(railM))
			cost = cost.Add(headingCost)
			res.Breakdown = append(res.Breakdown, BreakdownLine{
				ID: item.ID, Name: item.Name,
				Description: fmt.Sprintf("%s/m × %.2fm rail", price.StringFixed(2), railM),
				Quantity:    railM, Unit: "m",
				UnitPrice: price, Total: headingCost, Category: "heading",
			})
			break
		}
		if !found {
			res.Warnings = append(res.Warnings, fmt.Sprintf("heading %q not found in inventory", in.SelectedHeadingID))
		}
	}

	upcharge := t.HeadingUpchargePerMetre.Mul(decimal.NewFromFloat(railM)).
		Add(t.HeadingUpchargePerCurtain.Mul(decimal.NewFromInt(int64(res.CurtainCount))))
	if !upcharge.IsZero() {
		cost = cost.Add(upcharge)
		res.Breakdown = append(res.Breakdown, BreakdownLine{
			ID: "heading_upcharge", Name: "Heading upcharge",
			Description: fmt.Sprintf("%s/m × %.2fm + %s × %d curtain(s)",
				t.HeadingUpchargePerMetre.StringFixed(2), railM,
				t.HeadingUpchargePerCurtain.StringFixed(2), res.CurtainCount),
			Quantity: 1, Unit: "item",
			UnitPrice: upcharge, Total: upcharge, Category: "heading",
		})
	}

	res.HeadingCost = cost
}

// panelCount maps a panel configuration to the curtain count: pair/double
// configurations make two panels, everything else one.
func panelCount(config string) int {
	c := strings.ToLower(config)
	if strings.Contains(c, "pair") || strings.Contains(c, "double") {
		return 2
	}
	return 1
}

// quantityForMethod picks the display quantity and unit matching a pricing
// method for breakdown lines.
func quantityForMethod(method PricingMethod, ctx PriceContext) (float64, string) {
	switch method {
	case MethodPerMetre:
		return ctx.RailWidthCm / 100, "m"
	case MethodPerDrop:
		return ctx.DropCm / 100, "m"
	case MethodPerSqm:
		return ctx.RailWidthCm * ctx.DropCm / 10000, "sqm"
	case MethodPerPanel:
		return float64(ctx.CurtainCount), "panel"
	case MethodPerWidth:
		return float64(ctx.WidthsRequired), "width"
	default:
		return 1, "item"
	}
}
