package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quote-engine/internal/pricing"
)

// MaterialService serves the material catalog: fabrics, wallpapers, lining
// stock, and heading tapes. One table, distinguished by category.
type MaterialService interface {
	ListMaterials(ctx context.Context, companyCode string) ([]MaterialRecord, error)
	// GetMaterial returns the assembled pricing input for one material,
	// including its attached pricing grid if any.
	GetMaterial(ctx context.Context, companyCode, materialCode string) (*pricing.FabricItem, error)
	// ListHeadings returns heading-category materials as the slim inventory
	// view the pricing orchestrator uses for heading lookups.
	ListHeadings(ctx context.Context, companyCode string) ([]pricing.InventoryItem, error)
}

type materialService struct {
	pool *pgxpool.Pool
}

func NewMaterialService(pool *pgxpool.Pool) MaterialService {
	return &materialService{pool: pool}
}

const materialColumns = `
	id, company_id, code, name, category,
	cost_price, price_per_meter, unit_price, selling_price,
	fabric_width_cm, vertical_repeat_cm, horizontal_repeat_cm,
	roll_width_cm, roll_length_m, sold_by,
	pricing_grid_id, is_active, created_at`

func scanMaterial(row pgx.Row) (*MaterialRecord, error) {
	var m MaterialRecord
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.Code, &m.Name, &m.Category,
		&m.CostPrice, &m.PricePerMeter, &m.UnitPrice, &m.SellingPrice,
		&m.FabricWidthCm, &m.VerticalRepeatCm, &m.HorizontalRepeatCm,
		&m.RollWidthCm, &m.RollLengthM, &m.SoldBy,
		&m.PricingGridID, &m.IsActive, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *materialService) ListMaterials(ctx context.Context, companyCode string) ([]MaterialRecord, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+materialColumns+`
		FROM materials
		WHERE company_id = $1 AND is_active = true
		ORDER BY category, code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var materials []MaterialRecord
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, *m)
	}
	return materials, nil
}

func (s *materialService) GetMaterial(ctx context.Context, companyCode, materialCode string) (*pricing.FabricItem, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	m, err := scanMaterial(s.pool.QueryRow(ctx, `
		SELECT `+materialColumns+`
		FROM materials
		WHERE company_id = $1 AND code = $2 AND is_active = true
	`, companyID, materialCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("material %s not found for company %s", materialCode, companyCode)
		}
		return nil, fmt.Errorf("failed to fetch material: %w", err)
	}

	var grid *pricing.PricingGrid
	if m.PricingGridID != nil {
		grid, err = LoadGrid(ctx, s.pool, *m.PricingGridID)
		if err != nil {
			return nil, err
		}
	}
	return m.ToPricing(grid), nil
}

func (s *materialService) ListHeadings(ctx context.Context, companyCode string) ([]pricing.InventoryItem, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+materialColumns+`
		FROM materials
		WHERE company_id = $1 AND is_active = true AND category ILIKE '%heading%'
		ORDER BY code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query headings: %w", err)
	}
	defer rows.Close()

	var headings []pricing.InventoryItem
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan heading: %w", err)
		}
		headings = append(headings, m.ToInventoryItem())
	}
	return headings, nil
}
