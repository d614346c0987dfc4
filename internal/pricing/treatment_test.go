package pricing_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"quote-engine/internal/pricing"

	"github.com/shopspring/decimal"
)

// pairCurtainInput is the reference job: a pair of pencil-pleat curtains on a
// 200cm rail with a 220cm drop, cut from 137cm fabric at $20/m.
func pairCurtainInput() pricing.TreatmentPricingInput {
	return pricing.TreatmentPricingInput{
		Template: pricing.Template{
			Code:               "TMPL-PENCIL",
			Name:               "Pencil pleat curtain",
			Category:           "Curtains",
			PricingType:        pricing.MethodPerMetre,
			PanelConfiguration: pricing.PanelPair,
			FullnessRatio:      2.5,
			SideHemCm:          5,
			HeaderAllowanceCm:  8,
			BottomHemCm:        10,
			WastePercent:       5,

			MachinePricePerMetre: decimal.NewFromInt(5),
			MachinePricePerDrop:  decimal.NewFromInt(10),

			HeadingUpchargePerMetre:   decimal.NewFromInt(2),
			HeadingUpchargePerCurtain: decimal.NewFromInt(3),

			LiningTypes: []pricing.LiningType{
				{Type: "Blockout", PricePerMetre: decimal.NewFromInt(8), LabourPerCurtain: decimal.NewFromInt(15)},
			},
		},
		Measurement: pricing.Measurement{RailWidthCm: 200, DropCm: 220},
		Fabric: &pricing.FabricItem{
			Code:          "FAB-001",
			Name:          "Linen weave",
			PricePerMeter: decimal.NewFromInt(20),
			FabricWidthCm: 137,
		},
		SelectedLining:    "blockout",
		SelectedHeadingID: "inv-tape",
		SelectedOptionIDs: []string{"opt-tieback"},
		FlatOptions: []pricing.Option{
			{ID: "opt-tieback", Name: "Tiebacks", Price: decimal.NewFromInt(25), PricingMethod: pricing.MethodFixed},
		},
		Inventory: []pricing.InventoryItem{
			{ID: "inv-tape", Name: "Pencil pleat tape", Category: "Heading Tape", PricePerMeter: decimal.NewFromInt(4)},
		},
		Currency: "USD",
	}
}

func TestCalculateTreatmentPricing_PairCurtain(t *testing.T) {
	engine := pricing.NewEngine(nil)

	res, err := engine.CalculateTreatmentPricing(pairCurtainInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Category != pricing.CategoryCurtain {
		t.Errorf("category = %s, want curtain", res.Category)
	}
	if res.PricingType != pricing.MethodPerMetre {
		t.Errorf("pricing type = %s, want per_metre", res.PricingType)
	}
	if res.CurtainCount != 2 {
		t.Errorf("curtain count = %d, want 2", res.CurtainCount)
	}

	// 200×2.5 + 5×2×2 side hems = 520cm over 137cm fabric → 4 widths.
	if res.WidthsRequired != 4 {
		t.Errorf("widths = %d, want 4", res.WidthsRequired)
	}
	// (220+8+10)/100 × 4 widths × 1.05 waste = 9.996m.
	nearlyEqual(t, "linear meters", res.LinearMeters, 9.996)

	decimalNear(t, "fabric cost", res.FabricCost, 199.92)            // 9.996 × 20
	decimalNear(t, "lining cost", res.LiningCost, 109.968)           // 9.996×8 + 15×2
	decimalNear(t, "manufacturing cost", res.ManufacturingCost, 69.98) // 9.996×5 + 10×2
	decimalNear(t, "options cost", res.OptionsCost, 25)
	decimalNear(t, "heading cost", res.HeadingCost, 18) // 4×2m + (2×2m + 3×2)
	decimalNear(t, "total", res.TotalCost, 422.868)

	if len(res.Warnings) != 0 {
		t.Errorf("fully configured job should carry no warnings: %v", res.Warnings)
	}
	if res.Currency != "USD" {
		t.Errorf("currency = %q", res.Currency)
	}

	// Every cost booked must have a breakdown line, and line totals must sum
	// to the total cost.
	sum := decimal.Zero
	categories := map[string]bool{}
	for _, line := range res.Breakdown {
		sum = sum.Add(line.Total)
		categories[line.Category] = true
	}
	decimalNear(t, "breakdown sum", sum, 422.868)
	for _, want := range []string{"fabric", "lining", "manufacturing", "option", "heading"} {
		if !categories[want] {
			t.Errorf("breakdown missing category %q", want)
		}
	}
}

func TestCalculateTreatmentPricing_Idempotent(t *testing.T) {
	engine := pricing.NewEngine(nil)

	first, err := engine.CalculateTreatmentPricing(pairCurtainInput())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.CalculateTreatmentPricing(pairCurtainInput())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input must produce identical output\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCalculateTreatmentPricing_GridHit(t *testing.T) {
	in := pricing.TreatmentPricingInput{
		Template: pricing.Template{
			Code:                "TMPL-ROMAN",
			Category:            "Roman Blinds",
			PricingType:         pricing.MethodPricingGrid,
			IncludesFabricPrice: true,
			// must NOT be added on top of an all-inclusive grid price
			MachinePricePerSqm: decimal.NewFromInt(15),
			Grid: &pricing.PricingGrid{Cells: []pricing.GridCell{
				{WidthCm: 200, HeightCm: 150, Price: decimal.NewFromInt(120)},
			}},
		},
		Measurement: pricing.Measurement{RailWidthCm: 180, DropCm: 140},
	}

	res, err := pricing.NewEngine(nil).CalculateTreatmentPricing(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decimalNear(t, "fabric cost", res.FabricCost, 120)
	if !res.ManufacturingCost.IsZero() {
		t.Errorf("all-inclusive grid must not add machining, got %s", res.ManufacturingCost)
	}
	decimalNear(t, "total", res.TotalCost, 120)
}

func TestCalculateTreatmentPricing_GridMissFallsBack(t *testing.T) {
	log := &recordingLogger{}
	in := pricing.TreatmentPricingInput{
		Template: pricing.Template{
			Code:          "TMPL-DRAPE",
			Category:      "Curtains",
			PricingType:   pricing.MethodPricingGrid,
			FullnessRatio: 2,
			Grid: &pricing.PricingGrid{Cells: []pricing.GridCell{
				{WidthCm: 100, HeightCm: 80, Price: decimal.NewFromInt(60)},
			}},
		},
		Measurement: pricing.Measurement{RailWidthCm: 150, DropCm: 100},
		Fabric: &pricing.FabricItem{
			Code:          "FAB-002",
			PricePerMeter: decimal.NewFromInt(10),
			FabricWidthCm: 100,
		},
	}

	res, err := pricing.NewEngine(log).CalculateTreatmentPricing(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 150×2 / 100 fabric = 3 widths, 1m per width → 3m × $10.
	decimalNear(t, "fabric cost", res.FabricCost, 30)

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "fell back") {
			found = true
		}
	}
	if !found {
		t.Errorf("grid miss must surface a fallback warning: %v", res.Warnings)
	}
	if len(log.lines) == 0 {
		t.Error("grid miss should be traced to the logger")
	}
}

func TestCalculateTreatmentPricing_BlindDefaultsToSqm(t *testing.T) {
	in := pricing.TreatmentPricingInput{
		Template: pricing.Template{
			Code:               "TMPL-ROLLER",
			Category:           "Roller Blind",
			MachinePricePerSqm: decimal.NewFromInt(10),
		},
		Measurement: pricing.Measurement{RailWidthCm: 100, DropCm: 100},
		Fabric: &pricing.FabricItem{
			Code:          "FAB-MESH",
			PricePerMeter: decimal.NewFromInt(50),
		},
	}

	res, err := pricing.NewEngine(nil).CalculateTreatmentPricing(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Category != pricing.CategoryBlind {
		t.Fatalf("category = %s, want blind", res.Category)
	}
	if res.PricingType != pricing.MethodPerSqm {
		t.Errorf("unset pricing type on a blind should default to per_sqm, got %s", res.PricingType)
	}
	nearlyEqual(t, "sqm", res.Sqm, 1)
	decimalNear(t, "fabric cost", res.FabricCost, 50)
	decimalNear(t, "manufacturing", res.ManufacturingCost, 10)
	decimalNear(t, "total", res.TotalCost, 60)
}

func TestCalculateTreatmentPricing_WallpaperByRoll(t *testing.T) {
	in := pricing.TreatmentPricingInput{
		Template: pricing.Template{
			Code:     "TMPL-WALL",
			Category: "Wallpaper",
		},
		Measurement: pricing.Measurement{WallWidthCm: 300, WallHeightCm: 240},
		Fabric: &pricing.FabricItem{
			Code:        "WP-001",
			UnitPrice:   decimal.NewFromInt(40),
			RollWidthCm: 53,
			RollLengthM: 10,
			SoldBy:      "roll",
		},
	}

	res, err := pricing.NewEngine(nil).CalculateTreatmentPricing(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Category != pricing.CategoryWallpaper {
		t.Fatalf("category = %s, want wallpaper", res.Category)
	}
	// 6 strips at 2.4m, 4 per roll → 2 rolls × $40.
	if res.RollsRequired != 2 {
		t.Errorf("rolls = %d, want 2", res.RollsRequired)
	}
	decimalNear(t, "fabric cost", res.FabricCost, 80)
	decimalNear(t, "total", res.TotalCost, 80)
}

func TestCalculateTreatmentPricing_Errors(t *testing.T) {
	engine := pricing.NewEngine(nil)

	t.Run("zero rail width", func(t *testing.T) {
		in := pairCurtainInput()
		in.Measurement.RailWidthCm = 0
		_, err := engine.CalculateTreatmentPricing(in)
		var dimErr *pricing.InvalidDimensionError
		if !errors.As(err, &dimErr) {
			t.Fatalf("got %v, want InvalidDimensionError", err)
		}
	})

	t.Run("unresolvable fabric width on width-based pricing", func(t *testing.T) {
		in := pairCurtainInput()
		in.Fabric.FabricWidthCm = 0
		_, err := engine.CalculateTreatmentPricing(in)
		var dimErr *pricing.InvalidDimensionError
		if !errors.As(err, &dimErr) {
			t.Fatalf("got %v, want InvalidDimensionError", err)
		}
		if dimErr.Field != "fabric_width_cm" {
			t.Errorf("field = %s", dimErr.Field)
		}
	})
}

func TestCalculateTreatmentPricing_MissingConfigWarnsOnly(t *testing.T) {
	engine := pricing.NewEngine(nil)

	in := pairCurtainInput()
	in.SelectedLining = "interlining"   // not offered on the template
	in.SelectedHeadingID = "inv-ghost"  // not in inventory
	in.Template.FullnessRatio = 0       // unset
	in.Template.HeaderAllowanceCm = 0
	in.Template.BottomHemCm = 0

	res, err := engine.CalculateTreatmentPricing(in)
	if err != nil {
		t.Fatalf("missing optional config must not fail: %v", err)
	}

	wantFragments := []string{"fullness", "header", "bottom hem", "interlining", "inv-ghost"}
	for _, frag := range wantFragments {
		found := false
		for _, w := range res.Warnings {
			if strings.Contains(w, frag) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a warning mentioning %q, got %v", frag, res.Warnings)
		}
	}
	if !res.LiningCost.IsZero() {
		t.Errorf("unmatched lining must cost nothing, got %s", res.LiningCost)
	}
}
