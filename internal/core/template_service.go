package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quote-engine/internal/pricing"
)

// TemplateService serves product templates: the per-product-line pricing and
// cutting configuration the engine consumes. Templates are read-mostly; the
// settings UI that authors them is out of scope here, so this service only
// reads.
type TemplateService interface {
	ListTemplates(ctx context.Context, companyCode string) ([]TemplateRecord, error)
	// GetTemplate returns the fully assembled pricing input: the template row
	// plus its lining types and its pricing grid, if one is attached.
	GetTemplate(ctx context.Context, companyCode, templateCode string) (*pricing.Template, error)
}

type templateService struct {
	pool *pgxpool.Pool
}

func NewTemplateService(pool *pgxpool.Pool) TemplateService {
	return &templateService{pool: pool}
}

const templateColumns = `
	id, company_id, code, name, category, pricing_type, panel_configuration,
	fullness_ratio, side_hem_cm, header_allowance_cm, bottom_hem_cm,
	return_left_cm, return_right_cm, seam_hem_cm, waste_percent,
	includes_fabric_price,
	machine_price_per_metre, machine_price_per_drop,
	machine_price_per_panel, machine_price_per_sqm,
	heading_upcharge_per_metre, heading_upcharge_per_curtain,
	pricing_grid_id, is_active, created_at`

func scanTemplate(row pgx.Row) (*TemplateRecord, error) {
	var t TemplateRecord
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Code, &t.Name, &t.Category, &t.PricingType, &t.PanelConfiguration,
		&t.FullnessRatio, &t.SideHemCm, &t.HeaderAllowanceCm, &t.BottomHemCm,
		&t.ReturnLeftCm, &t.ReturnRightCm, &t.SeamHemCm, &t.WastePercent,
		&t.IncludesFabricPrice,
		&t.MachinePricePerMetre, &t.MachinePricePerDrop,
		&t.MachinePricePerPanel, &t.MachinePricePerSqm,
		&t.HeadingUpchargePerMetre, &t.HeadingUpchargePerCurtain,
		&t.PricingGridID, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *templateService) ListTemplates(ctx context.Context, companyCode string) ([]TemplateRecord, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+templateColumns+`
		FROM product_templates
		WHERE company_id = $1 AND is_active = true
		ORDER BY code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []TemplateRecord
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, nil
}

func (s *templateService) GetTemplate(ctx context.Context, companyCode, templateCode string) (*pricing.Template, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	t, err := scanTemplate(s.pool.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM product_templates
		WHERE company_id = $1 AND code = $2 AND is_active = true
	`, companyID, templateCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("template %s not found for company %s", templateCode, companyCode)
		}
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}

	linings, err := s.loadLiningTypes(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	var grid *pricing.PricingGrid
	if t.PricingGridID != nil {
		grid, err = LoadGrid(ctx, s.pool, *t.PricingGridID)
		if err != nil {
			return nil, err
		}
	}

	assembled := t.ToPricing(linings, grid)
	return &assembled, nil
}

func (s *templateService) loadLiningTypes(ctx context.Context, templateID int) ([]LiningTypeRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT template_id, type, price_per_metre, labour_per_curtain
		FROM template_lining_types
		WHERE template_id = $1
		ORDER BY type
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lining types: %w", err)
	}
	defer rows.Close()

	var linings []LiningTypeRecord
	for rows.Next() {
		var lt LiningTypeRecord
		if err := rows.Scan(&lt.TemplateID, &lt.Type, &lt.PricePerMetre, &lt.LabourPerCurtain); err != nil {
			return nil, fmt.Errorf("failed to scan lining type: %w", err)
		}
		linings = append(linings, lt)
	}
	return linings, nil
}

// LoadGrid fetches a pricing grid with its cells. Grids are shared between
// templates and materials, so the loader is package-level.
func LoadGrid(ctx context.Context, pool *pgxpool.Pool, gridID int) (*pricing.PricingGrid, error) {
	rows, err := pool.Query(ctx, `
		SELECT width_cm, height_cm, price
		FROM pricing_grid_cells
		WHERE grid_id = $1
		ORDER BY width_cm, height_cm
	`, gridID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grid cells: %w", err)
	}
	defer rows.Close()

	grid := &pricing.PricingGrid{}
	for rows.Next() {
		var cell pricing.GridCell
		if err := rows.Scan(&cell.WidthCm, &cell.HeightCm, &cell.Price); err != nil {
			return nil, fmt.Errorf("failed to scan grid cell: %w", err)
		}
		grid.Cells = append(grid.Cells, cell)
	}
	if len(grid.Cells) == 0 {
		// An attached but empty grid prices like no grid at all.
		return nil, nil
	}
	return grid, nil
}
