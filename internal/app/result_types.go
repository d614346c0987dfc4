package app

import (
	"quote-engine/internal/core"
	"quote-engine/internal/pricing"
)

// PriceResult is returned by PriceTreatment.
type PriceResult struct {
	CompanyCode string                     `json:"company_code"`
	Result      *pricing.CalculationResult `json:"result"`
}

// AccessoriesResult is returned by ResolveAccessories.
type AccessoriesResult struct {
	CompanyCode  string                   `json:"company_code"`
	TemplateCode string                   `json:"template_code"`
	Accessories  *pricing.AccessoryResult `json:"accessories"`
}

// LaborEstimateResult is returned by EstimateLabor.
type LaborEstimateResult struct {
	Estimate *pricing.LaborResult `json:"estimate"`
}

// TemplateListResult is returned by ListTemplates.
type TemplateListResult struct {
	CompanyCode string                `json:"company_code"`
	Templates   []core.TemplateRecord `json:"templates"`
}

// MaterialListResult is returned by ListMaterials.
type MaterialListResult struct {
	CompanyCode string                `json:"company_code"`
	Materials   []core.MaterialRecord `json:"materials"`
}

// QuoteResult is returned by CreateQuote and GetQuote.
type QuoteResult struct {
	Quote *core.Quote `json:"quote"`
}

// QuoteListResult is returned by ListQuotes.
type QuoteListResult struct {
	CompanyCode string       `json:"company_code"`
	Quotes      []core.Quote `json:"quotes"`
}

// IntakeResult is returned by InterpretJobNotes.
type IntakeResult struct {
	Draft                *core.QuoteDraft `json:"draft,omitempty"`
	ClarificationMessage string           `json:"clarification_message,omitempty"`
	IsClarification      bool             `json:"is_clarification"`
}
