package pricing

import "github.com/shopspring/decimal"

// TreatmentCategory is the closed classification every product template maps to.
// Templates carry free-text category names; DetectCategory normalizes them.
type TreatmentCategory string

const (
	CategoryCurtain   TreatmentCategory = "curtain"
	CategoryBlind     TreatmentCategory = "blind"
	CategoryWallpaper TreatmentCategory = "wallpaper"
	CategoryOther     TreatmentCategory = "other"
)

// PricingMethod identifies how a base price is turned into a cost.
// NormalizeMethod maps the hyphen/underscore spellings found in stored
// configuration onto these canonical values.
type PricingMethod string

const (
	MethodPerMetre    PricingMethod = "per_metre"
	MethodPerSqm      PricingMethod = "per_sqm"
	MethodPerDrop     PricingMethod = "per_drop"
	MethodPerPanel    PricingMethod = "per_panel"
	MethodPerWidth    PricingMethod = "per_width"
	MethodPercentage  PricingMethod = "percentage"
	MethodFixed       PricingMethod = "fixed"
	MethodPricingGrid PricingMethod = "pricing_grid"
	MethodInherit     PricingMethod = "inherit"
)

// PanelConfiguration values recognized on a template.
const (
	PanelSingle = "single"
	PanelPair   = "pair"
)

// LiningType is one lining offering on a template.
type LiningType struct {
	Type             string          `json:"type"`
	PricePerMetre    decimal.Decimal `json:"price_per_metre"`
	LabourPerCurtain decimal.Decimal `json:"labour_per_curtain"`
}

// Template describes how a product line is priced and cut. It is read-only
// configuration: the settings UI that authors it lives outside this package.
type Template struct {
	Code               string        `json:"code"`
	Name               string        `json:"name"`
	Category           string        `json:"category"` // free text, see DetectCategory
	PricingType        PricingMethod `json:"pricing_type"`
	PanelConfiguration string        `json:"panel_configuration"` // "single" or "pair"
	FullnessRatio      float64       `json:"fullness_ratio"`

	// Allowances in cm. The *AllowanceCm fields are the user-editable names;
	// the *HemCm fields are the legacy names still present on externally-synced
	// templates. Resolution is first-positive-wins, terminal default 0.
	SideHemCm         float64 `json:"side_hem_cm"`
	HeaderAllowanceCm float64 `json:"header_allowance_cm"`
	HeaderHemCm       float64 `json:"header_hem_cm"` // legacy
	BottomHemCm       float64 `json:"bottom_hem_cm"`
	BottomAllowanceCm float64 `json:"bottom_allowance_cm"` // legacy
	ReturnLeftCm      float64 `json:"return_left_cm"`
	ReturnRightCm     float64 `json:"return_right_cm"`
	SeamHemCm         float64 `json:"seam_hem_cm"`
	WastePercent      float64 `json:"waste_percent"`

	// IncludesFabricPrice marks a pricing grid as all-inclusive: the grid cell
	// already covers fabric and manufacturing, so no machining is added on top.
	IncludesFabricPrice bool `json:"includes_fabric_price"`

	MachinePricePerMetre decimal.Decimal `json:"machine_price_per_metre"`
	MachinePricePerDrop  decimal.Decimal `json:"machine_price_per_drop"`
	MachinePricePerPanel decimal.Decimal `json:"machine_price_per_panel"`
	MachinePricePerSqm   decimal.Decimal `json:"machine_price_per_sqm"`

	HeadingUpchargePerMetre   decimal.Decimal `json:"heading_upcharge_per_metre"`
	HeadingUpchargePerCurtain decimal.Decimal `json:"heading_upcharge_per_curtain"`

	LiningTypes []LiningType `json:"lining_types,omitempty"`
	Grid        *PricingGrid `json:"pricing_grid_data,omitempty"`
}

// Measurement is the per-job-item input. All lengths must already be in
// centimeters; callers own unit conversion, this package never converts.
type Measurement struct {
	RailWidthCm        float64 `json:"rail_width_cm"`
	DropCm             float64 `json:"drop_cm"`
	PoolingCm          float64 `json:"pooling_cm"`
	FabricWidthCm      float64 `json:"fabric_width_cm"`
	VerticalRepeatCm   float64 `json:"vertical_pattern_repeat_cm"`
	HorizontalRepeatCm float64 `json:"horizontal_pattern_repeat_cm"`

	// Wallpaper measurements.
	WallWidthCm  float64 `json:"wall_width_cm"`
	WallHeightCm float64 `json:"wall_height_cm"`
}

// FabricItem is a material/inventory record as supplied by the data layer.
type FabricItem struct {
	Code string `json:"code"`
	Name string `json:"name"`

	// Base price-per-meter cascade: CostPrice > PricePerMeter > UnitPrice >
	// SellingPrice. Costing off CostPrice avoids compounding a markup that the
	// (out-of-scope) margin layer applies separately.
	CostPrice     decimal.Decimal `json:"cost_price"`
	PricePerMeter decimal.Decimal `json:"price_per_meter"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`

	FabricWidthCm      float64 `json:"fabric_width_cm"`
	VerticalRepeatCm   float64 `json:"pattern_repeat_vertical_cm"`
	HorizontalRepeatCm float64 `json:"pattern_repeat_horizontal_cm"`

	// Wallpaper attributes.
	RollWidthCm float64 `json:"wallpaper_roll_width_cm"`
	RollLengthM float64 `json:"wallpaper_roll_length_m"`
	SoldBy      string  `json:"wallpaper_sold_by"` // "roll" (default) or "metre"

	Grid *PricingGrid `json:"pricing_grid_data,omitempty"`
}

// GridCell is one (width breakpoint, height breakpoint) → price entry.
type GridCell struct {
	WidthCm  float64         `json:"width_cm"`
	HeightCm float64         `json:"height_cm"`
	Price    decimal.Decimal `json:"price"`
}

// PricingGrid is a 2-D breakpoint table for products priced as discrete
// manufactured sizes. The core never mutates it.
type PricingGrid struct {
	Cells []GridCell `json:"cells"`
}

// Option is a selectable add-on: either a flat option or a node inside the
// hierarchical tree (sub-subcategory level). Extras nest one level below.
type Option struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	PricingMethod PricingMethod   `json:"pricing_method"` // may be "inherit"
	IsRequired    bool            `json:"is_required"`
	IsDefault     bool            `json:"is_default"`
	Extras        []Option        `json:"extras,omitempty"`
}

// OptionSubcategory groups options under a category.
type OptionSubcategory struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []Option `json:"items"`
}

// OptionCategory is the top level of the hierarchical option tree. Its
// CalculationMethod is what "inherit" on a descendant resolves to before
// falling back to the window-covering default.
type OptionCategory struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	CalculationMethod PricingMethod       `json:"calculation_method"`
	Subcategories     []OptionSubcategory `json:"subcategories"`
}

// BundleRule derives the quantity of a small hardware part from the
// treatment's dimensions via a configured formula.
type BundleRule struct {
	Key        string          `json:"child_item_key"` // e.g. "runner", "end_cap"
	QtyFormula string          `json:"qty_formula"`    // empty means "use the built-in default"
	UnitPrice  decimal.Decimal `json:"child_unit_price"`
	Mount      MountType       `json:"mount,omitempty"`
}

// InventoryItem is the slim inventory view the orchestrator needs for heading
// lookups. Full material records use FabricItem.
type InventoryItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PricePerMeter decimal.Decimal `json:"price_per_meter"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// BreakdownLine is one row of the itemized cost breakdown.
type BreakdownLine struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    float64         `json:"quantity"`
	Unit        string          `json:"unit"` // "m", "sqm", "roll", "panel", "item"
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total_cost"`
	Category    string          `json:"category"` // "fabric", "lining", "manufacturing", "heading", "option"
}

// CalculationResult is the orchestrator's output. It is created fresh per
// calculation and never mutated after return.
type CalculationResult struct {
	Category       TreatmentCategory `json:"category"`
	PricingType    PricingMethod     `json:"pricing_type"`
	CurtainCount   int               `json:"curtain_count"`
	LinearMeters   float64           `json:"linear_meters"`
	Sqm            float64           `json:"sqm"`
	WidthsRequired int               `json:"widths_required"`
	RollsRequired  int               `json:"rolls_required,omitempty"`

	FabricCost        decimal.Decimal `json:"fabric_cost"`
	LiningCost        decimal.Decimal `json:"lining_cost"`
	ManufacturingCost decimal.Decimal `json:"manufacturing_cost"`
	OptionsCost       decimal.Decimal `json:"options_cost"`
	HeadingCost       decimal.Decimal `json:"heading_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`

	Currency  string          `json:"currency"`
	Breakdown []BreakdownLine `json:"calculation_details"`
	Warnings  []string        `json:"warnings,omitempty"`
}
