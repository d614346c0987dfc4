package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"quote-engine/internal/ai"
	"quote-engine/internal/core"
	"quote-engine/internal/pricing"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool      *pgxpool.Pool
	companies core.CompanyService
	templates core.TemplateService
	materials core.MaterialService
	options   core.OptionService
	quotes    core.QuoteService
	engine    *pricing.Engine
	agent     *ai.Agent
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil when no OPENAI_API_KEY is configured; InterpretJobNotes
// then returns an error instead of drafting.
func NewAppService(
	pool *pgxpool.Pool,
	companies core.CompanyService,
	templates core.TemplateService,
	materials core.MaterialService,
	options core.OptionService,
	quotes core.QuoteService,
	engine *pricing.Engine,
	agent *ai.Agent,
) ApplicationService {
	return &appService{
		pool:      pool,
		companies: companies,
		templates: templates,
		materials: materials,
		options:   options,
		quotes:    quotes,
		engine:    engine,
		agent:     agent,
	}
}

// PriceTreatment assembles the named catalog records and runs the engine.
func (s *appService) PriceTreatment(ctx context.Context, req PriceTreatmentRequest) (*PriceResult, error) {
	input, err := s.assemblePricingInput(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.CalculateTreatmentPricing(*input)
	if err != nil {
		return nil, err
	}
	return &PriceResult{CompanyCode: req.CompanyCode, Result: result}, nil
}

func (s *appService) ResolveAccessories(ctx context.Context, req AccessoriesRequest) (*AccessoriesResult, error) {
	rules, err := s.options.GetBundleRules(ctx, req.CompanyCode, req.TemplateCode)
	if err != nil {
		return nil, err
	}

	mount := pricing.MountType(strings.ToLower(req.Mount))
	if mount == "" {
		mount = pricing.MountBoth
	}

	resolved := pricing.ResolveAccessories(rules, pricing.AccessoryContext{
		RailWidthCm:  req.RailWidthCm,
		DropCm:       req.DropCm,
		Fullness:     req.Fullness,
		CurtainCount: req.CurtainCount,
	}, mount, nil)

	return &AccessoriesResult{
		CompanyCode:  req.CompanyCode,
		TemplateCode: req.TemplateCode,
		Accessories:  resolved,
	}, nil
}

func (s *appService) EstimateLabor(ctx context.Context, req LaborRequest) (*LaborEstimateResult, error) {
	if req.RailWidthCm <= 0 || req.DropCm <= 0 {
		return nil, fmt.Errorf("rail width and drop must be positive")
	}

	estimate := pricing.CalculateLabor(pricing.LaborInput{
		RailWidthCm:    req.RailWidthCm,
		DropCm:         req.DropCm,
		Fullness:       req.Fullness,
		LaborRate:      req.HourlyRate,
		SeamLaborHours: req.SeamLaborHours,
		Complexity:     pricing.TreatmentComplexity(strings.ToLower(req.Complexity)),
	})
	return &LaborEstimateResult{Estimate: estimate}, nil
}

func (s *appService) ListTemplates(ctx context.Context, companyCode string) (*TemplateListResult, error) {
	templates, err := s.templates.ListTemplates(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &TemplateListResult{CompanyCode: companyCode, Templates: templates}, nil
}

func (s *appService) ListMaterials(ctx context.Context, companyCode string) (*MaterialListResult, error) {
	materials, err := s.materials.ListMaterials(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &MaterialListResult{CompanyCode: companyCode, Materials: materials}, nil
}

// CreateQuote prices every line, then persists the quote with each line's
// request and result frozen as JSON so it replays after catalog edits.
func (s *appService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*QuoteResult, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("a quote needs at least one line")
	}

	lines := make([]core.QuoteLineInput, 0, len(req.Lines))
	for i, line := range req.Lines {
		line.Pricing.CompanyCode = req.CompanyCode

		priced, err := s.PriceTreatment(ctx, line.Pricing)
		if err != nil {
			return nil, fmt.Errorf("failed to price line %d: %w", i+1, err)
		}

		reqJSON, err := json.Marshal(line.Pricing)
		if err != nil {
			return nil, fmt.Errorf("failed to encode line %d request: %w", i+1, err)
		}
		resJSON, err := json.Marshal(priced.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode line %d result: %w", i+1, err)
		}

		lines = append(lines, core.QuoteLineInput{
			Description: line.Description,
			Request:     reqJSON,
			Result:      resJSON,
			Total:       priced.Result.TotalCost,
		})
	}

	quote, err := s.quotes.CreateQuote(ctx, req.CompanyCode, req.CustomerName, req.Notes, lines)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Quote: quote}, nil
}

func (s *appService) GetQuote(ctx context.Context, companyCode, quoteNumber string) (*QuoteResult, error) {
	quote, err := s.quotes.GetQuote(ctx, companyCode, quoteNumber)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Quote: quote}, nil
}

func (s *appService) ListQuotes(ctx context.Context, companyCode string) (*QuoteListResult, error) {
	quotes, err := s.quotes.ListQuotes(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &QuoteListResult{CompanyCode: companyCode, Quotes: quotes}, nil
}

func (s *appService) UpdateQuoteStatus(ctx context.Context, companyCode, quoteNumber string, status core.QuoteStatus) error {
	return s.quotes.UpdateQuoteStatus(ctx, companyCode, quoteNumber, status)
}

// InterpretJobNotes sends the notes and the company's catalog codes to the AI
// agent and maps its branching response.
func (s *appService) InterpretJobNotes(ctx context.Context, text, companyCode string) (*IntakeResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("AI intake is not configured; set OPENAI_API_KEY")
	}

	templates, err := s.templates.ListTemplates(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	materials, err := s.materials.ListMaterials(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	catalog := ai.CatalogContext{}
	for _, t := range templates {
		catalog.Templates = append(catalog.Templates, ai.CatalogEntry{Code: t.Code, Name: t.Name, Category: t.Category})
	}
	for _, m := range materials {
		catalog.Materials = append(catalog.Materials, ai.CatalogEntry{Code: m.Code, Name: m.Name, Category: m.Category})
	}

	resp, err := s.agent.InterpretJobNotes(ctx, text, catalog)
	if err != nil {
		return nil, err
	}

	if resp.IsClarificationRequest {
		msg := "Please provide more detail about the job."
		if resp.Clarification != nil {
			msg = resp.Clarification.Message
		}
		return &IntakeResult{IsClarification: true, ClarificationMessage: msg}, nil
	}
	if resp.Draft == nil {
		return nil, fmt.Errorf("AI returned neither a draft nor a clarification")
	}
	return &IntakeResult{Draft: resp.Draft}, nil
}

// LoadDefaultCompany loads the active company, using COMPANY_CODE env var if set.
func (s *appService) LoadDefaultCompany(ctx context.Context) (*core.Company, error) {
	if code := os.Getenv("COMPANY_CODE"); code != "" {
		return s.companies.GetCompany(ctx, code)
	}

	companies, err := s.companies.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("no default company found, have migrations run?")
	}
	if len(companies) > 1 {
		return nil, fmt.Errorf("multiple companies found; set COMPANY_CODE env var (e.g. COMPANY_CODE=DEMO)")
	}
	return &companies[0], nil
}

// assemblePricingInput fetches template, material, headings, and options and
// shapes them into the engine's input.
func (s *appService) assemblePricingInput(ctx context.Context, req PriceTreatmentRequest) (*pricing.TreatmentPricingInput, error) {
	if req.TemplateCode == "" {
		return nil, fmt.Errorf("template_code is required")
	}

	company, err := s.companies.GetCompany(ctx, req.CompanyCode)
	if err != nil {
		return nil, err
	}

	template, err := s.templates.GetTemplate(ctx, req.CompanyCode, req.TemplateCode)
	if err != nil {
		return nil, err
	}
	if req.PanelConfiguration != "" {
		template.PanelConfiguration = req.PanelConfiguration
	}

	var fabric *pricing.FabricItem
	if req.MaterialCode != "" {
		fabric, err = s.materials.GetMaterial(ctx, req.CompanyCode, req.MaterialCode)
		if err != nil {
			return nil, err
		}
	}

	var headings []pricing.InventoryItem
	if req.SelectedHeadingCode != "" {
		headings, err = s.materials.ListHeadings(ctx, req.CompanyCode)
		if err != nil {
			return nil, err
		}
	}

	var flat []pricing.Option
	var tree []pricing.OptionCategory
	if len(req.SelectedOptionCodes) > 0 {
		flat, err = s.options.ListFlatOptions(ctx, req.CompanyCode)
		if err != nil {
			return nil, err
		}
		tree, err = s.options.GetOptionTree(ctx, req.CompanyCode)
		if err != nil {
			return nil, err
		}
	}

	return &pricing.TreatmentPricingInput{
		Template: *template,
		Measurement: pricing.Measurement{
			RailWidthCm:        req.Measurement.RailWidthCm,
			DropCm:             req.Measurement.DropCm,
			PoolingCm:          req.Measurement.PoolingCm,
			FabricWidthCm:      req.Measurement.FabricWidthCm,
			VerticalRepeatCm:   req.Measurement.VerticalRepeatCm,
			HorizontalRepeatCm: req.Measurement.HorizontalRepeatCm,
			WallWidthCm:        req.Measurement.WallWidthCm,
			WallHeightCm:       req.Measurement.WallHeightCm,
		},
		Fabric:            fabric,
		SelectedHeadingID: req.SelectedHeadingCode,
		SelectedLining:    req.SelectedLining,
		SelectedOptionIDs: req.SelectedOptionCodes,
		FlatOptions:       flat,
		OptionTree:        tree,
		Inventory:         headings,
		Currency:          company.Currency,
	}, nil
}
