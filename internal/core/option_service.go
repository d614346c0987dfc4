package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quote-engine/internal/pricing"
)

// OptionService serves the selectable add-on catalog: flat options, the
// hierarchical option tree, and hardware bundle rules. Rows come back already
// shaped as pricing inputs; the tree is assembled in memory from three flat
// queries to keep ordering deterministic.
type OptionService interface {
	// ListFlatOptions returns options not attached to any tree node, in
	// position order.
	ListFlatOptions(ctx context.Context, companyCode string) ([]pricing.Option, error)
	// GetOptionTree returns the full category → subcategory → item → extras
	// hierarchy in position order.
	GetOptionTree(ctx context.Context, companyCode string) ([]pricing.OptionCategory, error)
	// GetBundleRules returns hardware quantity rules: template-specific rules
	// when templateCode matches, company-wide rules otherwise.
	GetBundleRules(ctx context.Context, companyCode, templateCode string) ([]pricing.BundleRule, error)
}

type optionService struct {
	pool *pgxpool.Pool
}

func NewOptionService(pool *pgxpool.Pool) OptionService {
	return &optionService{pool: pool}
}

func (s *optionService) ListFlatOptions(ctx context.Context, companyCode string) ([]pricing.Option, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT code, name, price, pricing_method, is_required, is_default
		FROM options
		WHERE company_id = $1 AND subcategory_id IS NULL AND parent_option_code IS NULL AND is_active = true
		ORDER BY position, code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flat options: %w", err)
	}
	defer rows.Close()

	var opts []pricing.Option
	for rows.Next() {
		var o pricing.Option
		var method string
		if err := rows.Scan(&o.ID, &o.Name, &o.Price, &method, &o.IsRequired, &o.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		o.PricingMethod = normalizeOptionMethod(method)
		opts = append(opts, o)
	}
	return opts, nil
}

func (s *optionService) GetOptionTree(ctx context.Context, companyCode string) ([]pricing.OptionCategory, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	catRows, err := s.pool.Query(ctx, `
		SELECT id, code, name, calculation_method
		FROM option_categories
		WHERE company_id = $1 AND is_active = true
		ORDER BY position, code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query option categories: %w", err)
	}
	defer catRows.Close()

	var tree []pricing.OptionCategory
	catIndex := map[int]int{} // db id → index in tree
	for catRows.Next() {
		var id int
		var cat pricing.OptionCategory
		var method string
		if err := catRows.Scan(&id, &cat.ID, &cat.Name, &method); err != nil {
			return nil, fmt.Errorf("failed to scan option category: %w", err)
		}
		cat.CalculationMethod = normalizeOptionMethod(method)
		catIndex[id] = len(tree)
		tree = append(tree, cat)
	}
	catRows.Close()

	subRows, err := s.pool.Query(ctx, `
		SELECT id, category_id, code, name
		FROM option_subcategories
		WHERE company_id = $1
		ORDER BY position, code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query option subcategories: %w", err)
	}
	defer subRows.Close()

	type subRef struct {
		catIdx, subIdx int
	}
	subIndex := map[int]subRef{}
	for subRows.Next() {
		var id, categoryID int
		var sub pricing.OptionSubcategory
		if err := subRows.Scan(&id, &categoryID, &sub.ID, &sub.Name); err != nil {
			return nil, fmt.Errorf("failed to scan option subcategory: %w", err)
		}
		ci, ok := catIndex[categoryID]
		if !ok {
			continue // subcategory of an inactive category
		}
		subIndex[id] = subRef{catIdx: ci, subIdx: len(tree[ci].Subcategories)}
		tree[ci].Subcategories = append(tree[ci].Subcategories, sub)
	}
	subRows.Close()

	itemRows, err := s.pool.Query(ctx, `
		SELECT code, name, price, pricing_method, is_required, is_default,
		       subcategory_id, parent_option_code
		FROM options
		WHERE company_id = $1 AND subcategory_id IS NOT NULL AND is_active = true
		ORDER BY position, code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tree options: %w", err)
	}
	defer itemRows.Close()

	type itemRow struct {
		opt        pricing.Option
		subID      int
		parentCode *string
	}
	var items []itemRow
	for itemRows.Next() {
		var it itemRow
		var method string
		if err := itemRows.Scan(&it.opt.ID, &it.opt.Name, &it.opt.Price, &method,
			&it.opt.IsRequired, &it.opt.IsDefault, &it.subID, &it.parentCode); err != nil {
			return nil, fmt.Errorf("failed to scan tree option: %w", err)
		}
		it.opt.PricingMethod = normalizeOptionMethod(method)
		items = append(items, it)
	}
	itemRows.Close()

	// Items first, then extras hooked under their parent item, both in the
	// position order the queries returned.
	itemIndex := map[string]struct{ catIdx, subIdx, itemIdx int }{}
	for _, it := range items {
		if it.parentCode != nil {
			continue
		}
		ref, ok := subIndex[it.subID]
		if !ok {
			continue
		}
		sub := &tree[ref.catIdx].Subcategories[ref.subIdx]
		itemIndex[it.opt.ID] = struct{ catIdx, subIdx, itemIdx int }{ref.catIdx, ref.subIdx, len(sub.Items)}
		sub.Items = append(sub.Items, it.opt)
	}
	for _, it := range items {
		if it.parentCode == nil {
			continue
		}
		ref, ok := itemIndex[*it.parentCode]
		if !ok {
			continue // extra of an inactive or missing parent
		}
		item := &tree[ref.catIdx].Subcategories[ref.subIdx].Items[ref.itemIdx]
		item.Extras = append(item.Extras, it.opt)
	}

	return tree, nil
}

func (s *optionService) GetBundleRules(ctx context.Context, companyCode, templateCode string) ([]pricing.BundleRule, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	// Template-specific rules override company-wide rules for the same key.
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (br.child_item_key)
		       br.child_item_key, br.qty_formula, br.child_unit_price, br.mount
		FROM bundle_rules br
		LEFT JOIN product_templates pt ON pt.id = br.template_id
		WHERE br.company_id = $1 AND (br.template_id IS NULL OR pt.code = $2)
		ORDER BY br.child_item_key, br.template_id NULLS LAST
	`, companyID, templateCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query bundle rules: %w", err)
	}
	defer rows.Close()

	var rules []pricing.BundleRule
	for rows.Next() {
		var r pricing.BundleRule
		var formula, mount *string
		if err := rows.Scan(&r.Key, &formula, &r.UnitPrice, &mount); err != nil {
			return nil, fmt.Errorf("failed to scan bundle rule: %w", err)
		}
		if formula != nil {
			r.QtyFormula = *formula
		}
		if mount != nil {
			r.Mount = pricing.MountType(*mount)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// normalizeOptionMethod keeps "inherit" distinct: NormalizeMethod folds
// unknown strings to fixed, but an empty or "inherit" stored method must stay
// inheritable for the aggregator to resolve top-down.
func normalizeOptionMethod(raw string) pricing.PricingMethod {
	if raw == "" || raw == string(pricing.MethodInherit) {
		return pricing.MethodInherit
	}
	return pricing.NormalizeMethod(raw)
}
