package core

import (
	"time"

	"github.com/shopspring/decimal"

	"quote-engine/internal/pricing"
)

// TemplateRecord is the product_templates row. It carries everything the
// pricing engine needs plus the catalog metadata the engine never sees.
type TemplateRecord struct {
	ID                 int     `json:"id"`
	CompanyID          int     `json:"company_id"`
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	PricingType        string  `json:"pricing_type"`
	PanelConfiguration string  `json:"panel_configuration"`
	FullnessRatio      float64 `json:"fullness_ratio"`

	SideHemCm         float64 `json:"side_hem_cm"`
	HeaderAllowanceCm float64 `json:"header_allowance_cm"`
	BottomHemCm       float64 `json:"bottom_hem_cm"`
	ReturnLeftCm      float64 `json:"return_left_cm"`
	ReturnRightCm     float64 `json:"return_right_cm"`
	SeamHemCm         float64 `json:"seam_hem_cm"`
	WastePercent      float64 `json:"waste_percent"`

	IncludesFabricPrice bool `json:"includes_fabric_price"`

	MachinePricePerMetre decimal.Decimal `json:"machine_price_per_metre"`
	MachinePricePerDrop  decimal.Decimal `json:"machine_price_per_drop"`
	MachinePricePerPanel decimal.Decimal `json:"machine_price_per_panel"`
	MachinePricePerSqm   decimal.Decimal `json:"machine_price_per_sqm"`

	HeadingUpchargePerMetre   decimal.Decimal `json:"heading_upcharge_per_metre"`
	HeadingUpchargePerCurtain decimal.Decimal `json:"heading_upcharge_per_curtain"`

	PricingGridID *int      `json:"pricing_grid_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// LiningTypeRecord is one row of template_lining_types.
type LiningTypeRecord struct {
	TemplateID       int             `json:"template_id"`
	Type             string          `json:"type"`
	PricePerMetre    decimal.Decimal `json:"price_per_metre"`
	LabourPerCurtain decimal.Decimal `json:"labour_per_curtain"`
}

// MaterialRecord is the materials row: fabrics, wallpapers, and heading
// tapes share one table distinguished by category.
type MaterialRecord struct {
	ID        int    `json:"id"`
	CompanyID int    `json:"company_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Category  string `json:"category"`

	CostPrice     decimal.Decimal `json:"cost_price"`
	PricePerMeter decimal.Decimal `json:"price_per_meter"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`

	FabricWidthCm      float64 `json:"fabric_width_cm"`
	VerticalRepeatCm   float64 `json:"vertical_repeat_cm"`
	HorizontalRepeatCm float64 `json:"horizontal_repeat_cm"`

	RollWidthCm float64 `json:"roll_width_cm"`
	RollLengthM float64 `json:"roll_length_m"`
	SoldBy      string  `json:"sold_by"`

	PricingGridID *int      `json:"pricing_grid_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToPricing assembles the engine's template input from the record, its lining
// rows, and its resolved grid (nil when the template has none).
func (t TemplateRecord) ToPricing(linings []LiningTypeRecord, grid *pricing.PricingGrid) pricing.Template {
	out := pricing.Template{
		Code:               t.Code,
		Name:               t.Name,
		Category:           t.Category,
		PricingType:        pricing.NormalizeMethod(t.PricingType),
		PanelConfiguration: t.PanelConfiguration,
		FullnessRatio:      t.FullnessRatio,

		SideHemCm:         t.SideHemCm,
		HeaderAllowanceCm: t.HeaderAllowanceCm,
		BottomHemCm:       t.BottomHemCm,
		ReturnLeftCm:      t.ReturnLeftCm,
		ReturnRightCm:     t.ReturnRightCm,
		SeamHemCm:         t.SeamHemCm,
		WastePercent:      t.WastePercent,

		IncludesFabricPrice: t.IncludesFabricPrice,

		MachinePricePerMetre: t.MachinePricePerMetre,
		MachinePricePerDrop:  t.MachinePricePerDrop,
		MachinePricePerPanel: t.MachinePricePerPanel,
		MachinePricePerSqm:   t.MachinePricePerSqm,

		HeadingUpchargePerMetre:   t.HeadingUpchargePerMetre,
		HeadingUpchargePerCurtain: t.HeadingUpchargePerCurtain,

		Grid: grid,
	}
	for _, lt := range linings {
		out.LiningTypes = append(out.LiningTypes, pricing.LiningType{
			Type:             lt.Type,
			PricePerMetre:    lt.PricePerMetre,
			LabourPerCurtain: lt.LabourPerCurtain,
		})
	}
	return out
}

// ToPricing assembles the engine's fabric input from the record and its
// resolved grid.
func (m MaterialRecord) ToPricing(grid *pricing.PricingGrid) *pricing.FabricItem {
	return &pricing.FabricItem{
		Code:               m.Code,
		Name:               m.Name,
		CostPrice:          m.CostPrice,
		PricePerMeter:      m.PricePerMeter,
		UnitPrice:          m.UnitPrice,
		SellingPrice:       m.SellingPrice,
		FabricWidthCm:      m.FabricWidthCm,
		VerticalRepeatCm:   m.VerticalRepeatCm,
		HorizontalRepeatCm: m.HorizontalRepeatCm,
		RollWidthCm:        m.RollWidthCm,
		RollLengthM:        m.RollLengthM,
		SoldBy:             m.SoldBy,
		Grid:               grid,
	}
}

// ToInventoryItem is the slim view the orchestrator uses for heading lookups.
func (m MaterialRecord) ToInventoryItem() pricing.InventoryItem {
	return pricing.InventoryItem{
		ID:            m.Code,
		Name:          m.Name,
		Category:      m.Category,
		PricePerMeter: m.PricePerMeter,
		UnitPrice:     m.UnitPrice,
	}
}
