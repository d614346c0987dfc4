package app

import (
	"context"

	"quote-engine/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// PriceTreatment assembles the catalog records named in the request and
	// runs the pricing engine: quantities, itemized breakdown, warnings.
	PriceTreatment(ctx context.Context, req PriceTreatmentRequest) (*PriceResult, error)

	// ResolveAccessories evaluates the hardware bundle rules of a template
	// against the job's dimensions and prices the resulting parts list.
	ResolveAccessories(ctx context.Context, req AccessoriesRequest) (*AccessoriesResult, error)

	// EstimateLabor estimates make-up labor hours and cost for a treatment.
	EstimateLabor(ctx context.Context, req LaborRequest) (*LaborEstimateResult, error)

	// ListTemplates returns the active product templates of a company.
	ListTemplates(ctx context.Context, companyCode string) (*TemplateListResult, error)

	// ListMaterials returns the active material catalog of a company.
	ListMaterials(ctx context.Context, companyCode string) (*MaterialListResult, error)

	// CreateQuote prices every requested line and persists the quote with
	// each line's pricing input and result frozen as JSON.
	CreateQuote(ctx context.Context, req CreateQuoteRequest) (*QuoteResult, error)

	// GetQuote returns one quote with its lines.
	GetQuote(ctx context.Context, companyCode, quoteNumber string) (*QuoteResult, error)

	// ListQuotes returns quote headers, newest first.
	ListQuotes(ctx context.Context, companyCode string) (*QuoteListResult, error)

	// UpdateQuoteStatus moves a quote through DRAFT/SENT/ACCEPTED/DECLINED.
	UpdateQuoteStatus(ctx context.Context, companyCode, quoteNumber string, status core.QuoteStatus) error

	// InterpretJobNotes sends free-form job notes to the AI agent and returns
	// either a structured quote draft or a clarification request.
	InterpretJobNotes(ctx context.Context, text, companyCode string) (*IntakeResult, error)

	// LoadDefaultCompany loads the active company. Uses COMPANY_CODE env var
	// if set; otherwise expects exactly one company in the database.
	LoadDefaultCompany(ctx context.Context) (*core.Company, error)
}
