package app

import "github.com/shopspring/decimal"

// MeasurementInput is the per-window measurement block shared by pricing
// requests. All lengths are centimeters.
type MeasurementInput struct {
	RailWidthCm        float64 `json:"rail_width_cm"`
	DropCm             float64 `json:"drop_cm"`
	PoolingCm          float64 `json:"pooling_cm,omitempty"`
	FabricWidthCm      float64 `json:"fabric_width_cm,omitempty"`
	VerticalRepeatCm   float64 `json:"vertical_repeat_cm,omitempty"`
	HorizontalRepeatCm float64 `json:"horizontal_repeat_cm,omitempty"`
	WallWidthCm        float64 `json:"wall_width_cm,omitempty"`
	WallHeightCm       float64 `json:"wall_height_cm,omitempty"`
}

// PriceTreatmentRequest names catalog records by code; the facade fetches and
// assembles them before running the engine.
type PriceTreatmentRequest struct {
	CompanyCode  string           `json:"company_code"`
	TemplateCode string           `json:"template_code"`
	MaterialCode string           `json:"material_code,omitempty"`
	Measurement  MeasurementInput `json:"measurement"`

	// PanelConfiguration overrides the template default ("single"/"pair").
	PanelConfiguration  string   `json:"panel_configuration,omitempty"`
	SelectedLining      string   `json:"selected_lining,omitempty"`
	SelectedHeadingCode string   `json:"selected_heading_code,omitempty"`
	SelectedOptionCodes []string `json:"selected_options,omitempty"`
}

// AccessoriesRequest is the input for resolving a template's hardware bundle.
type AccessoriesRequest struct {
	CompanyCode  string  `json:"company_code"`
	TemplateCode string  `json:"template_code"`
	RailWidthCm  float64 `json:"rail_width_cm"`
	DropCm       float64 `json:"drop_cm,omitempty"`
	Fullness     float64 `json:"fullness,omitempty"`
	CurtainCount int     `json:"curtain_count,omitempty"`
	Mount        string  `json:"mount,omitempty"` // "ceiling", "wall", "both"
}

// LaborRequest is the input for a make-up labor estimate.
type LaborRequest struct {
	RailWidthCm    float64         `json:"rail_width_cm"`
	DropCm         float64         `json:"drop_cm"`
	Fullness       float64         `json:"fullness,omitempty"`
	Complexity     string          `json:"complexity,omitempty"` // "simple", "moderate", "complex"
	SeamLaborHours float64         `json:"seam_labor_hours,omitempty"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
}

// QuoteLineRequest is one window of a quote being created.
type QuoteLineRequest struct {
	Description string                `json:"description"`
	Pricing     PriceTreatmentRequest `json:"pricing"`
}

// CreateQuoteRequest is the input for creating a priced quote.
type CreateQuoteRequest struct {
	CompanyCode  string             `json:"company_code"`
	CustomerName string             `json:"customer_name"`
	Notes        string             `json:"notes,omitempty"`
	Lines        []QuoteLineRequest `json:"lines"`
}
