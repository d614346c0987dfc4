package core_test

import (
	"context"
	"os"
	"testing"

	"quote-engine/internal/core"
	"quote-engine/internal/pricing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB. Schema must already be applied (cmd/migrate).
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE quote_lines, quotes, quote_sequences, bundle_rules, options,
			option_subcategories, option_categories, template_lining_types,
			product_templates, materials, pricing_grid_cells, pricing_grids, companies CASCADE;

		INSERT INTO companies (id, company_code, name, currency) VALUES (1, 'TEST', 'Test Company', 'USD');

		INSERT INTO pricing_grids (id, company_id, name) VALUES (1, 1, 'Test grid');
		INSERT INTO pricing_grid_cells (grid_id, width_cm, height_cm, price) VALUES
		(1, 100, 120, 80.00), (1, 150, 120, 95.00),
		(1, 100, 180, 90.00), (1, 150, 180, 110.00);

		INSERT INTO product_templates (id, company_id, code, name, category, pricing_type, panel_configuration,
			fullness_ratio, side_hem_cm, header_allowance_cm, bottom_hem_cm, waste_percent,
			machine_price_per_metre, pricing_grid_id)
		VALUES
		(1, 1, 'CURT-A', 'Curtain A', 'Curtains', 'per_metre', 'pair', 2.5, 5, 8, 10, 5, 6.50, NULL),
		(2, 1, 'BLIND-A', 'Blind A', 'Roller Blinds', 'pricing_grid', 'single', 0, 0, 0, 0, 0, 0, 1);

		INSERT INTO template_lining_types (template_id, type, price_per_metre, labour_per_curtain)
		VALUES (1, 'blockout', 8.50, 15.00);

		INSERT INTO materials (company_id, code, name, category, cost_price, price_per_meter, fabric_width_cm)
		VALUES (1, 'FAB-A', 'Fabric A', 'fabric', 18.00, 24.00, 137),
		       (1, 'HEAD-A', 'Heading tape A', 'heading tape', 0, 3.80, 0);

		SELECT setval('product_templates_id_seq', 10);
		SELECT setval('pricing_grids_id_seq', 10);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestTemplateService_GetTemplate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewTemplateService(pool)

	t.Run("AssemblesLiningsAndDetectsNoGrid", func(t *testing.T) {
		tmpl, err := svc.GetTemplate(ctx, "TEST", "CURT-A")
		if err != nil {
			t.Fatalf("GetTemplate: %v", err)
		}
		if tmpl.Code != "CURT-A" || tmpl.PanelConfiguration != "pair" {
			t.Errorf("unexpected template: %+v", tmpl)
		}
		if tmpl.FullnessRatio != 2.5 || tmpl.SideHemCm != 5 {
			t.Errorf("allowances not mapped: %+v", tmpl)
		}
		if len(tmpl.LiningTypes) != 1 || tmpl.LiningTypes[0].Type != "blockout" {
			t.Errorf("lining types = %+v", tmpl.LiningTypes)
		}
		if tmpl.Grid != nil {
			t.Error("CURT-A has no grid attached")
		}
	})

	t.Run("LoadsAttachedGrid", func(t *testing.T) {
		tmpl, err := svc.GetTemplate(ctx, "TEST", "BLIND-A")
		if err != nil {
			t.Fatalf("GetTemplate: %v", err)
		}
		if tmpl.Grid == nil || len(tmpl.Grid.Cells) != 4 {
			t.Fatalf("expected 4 grid cells, got %+v", tmpl.Grid)
		}
		price := pricing.PriceFromGrid(tmpl.Grid, 120, 150)
		if price.StringFixed(2) != "110.00" {
			t.Errorf("grid price = %s, want 110.00", price)
		}
	})

	t.Run("UnknownTemplate", func(t *testing.T) {
		if _, err := svc.GetTemplate(ctx, "TEST", "NOPE"); err == nil {
			t.Error("expected error for unknown template code")
		}
	})

	t.Run("UnknownCompany", func(t *testing.T) {
		if _, err := svc.ListTemplates(ctx, "GHOST"); err == nil {
			t.Error("expected error for unknown company code")
		}
	})
}

func TestMaterialService_Lookups(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewMaterialService(pool)

	t.Run("GetMaterial", func(t *testing.T) {
		fab, err := svc.GetMaterial(ctx, "TEST", "FAB-A")
		if err != nil {
			t.Fatalf("GetMaterial: %v", err)
		}
		if fab.FabricWidthCm != 137 {
			t.Errorf("fabric width = %v", fab.FabricWidthCm)
		}
		// cost_price wins the base price cascade
		if got := pricing.ResolveBasePrice(fab); got.StringFixed(2) != "18.00" {
			t.Errorf("base price = %s, want 18.00", got)
		}
	})

	t.Run("ListHeadings", func(t *testing.T) {
		headings, err := svc.ListHeadings(ctx, "TEST")
		if err != nil {
			t.Fatalf("ListHeadings: %v", err)
		}
		if len(headings) != 1 || headings[0].ID != "HEAD-A" {
			t.Errorf("headings = %+v", headings)
		}
	})

	t.Run("CompanyIsolation", func(t *testing.T) {
		pool.Exec(ctx, `
			INSERT INTO companies (id, company_code, name, currency)
			VALUES (2, 'OTHER', 'Other Company', 'EUR')
			ON CONFLICT DO NOTHING
		`)
		pool.Exec(ctx, `
			INSERT INTO materials (company_id, code, name, category, price_per_meter)
			VALUES (2, 'FAB-OTHER', 'Other fabric', 'fabric', 99.00)
		`)

		materials, err := svc.ListMaterials(ctx, "TEST")
		if err != nil {
			t.Fatalf("ListMaterials: %v", err)
		}
		for _, m := range materials {
			if m.Code == "FAB-OTHER" {
				t.Error("materials must be scoped to the requested company")
			}
		}
	})
}

func TestOptionService_TreeAndRules(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO option_categories (id, company_id, code, name, calculation_method, position)
		VALUES (1, 1, 'CAT-HW', 'Hardware', 'per_metre', 1);
		INSERT INTO option_subcategories (id, company_id, category_id, code, name, position)
		VALUES (1, 1, 1, 'SUB-TRACK', 'Tracks', 1);
		INSERT INTO options (company_id, subcategory_id, parent_option_code, code, name, price, pricing_method, position) VALUES
		(1, 1, NULL, 'OPT-TRACK', 'Track', 12.00, 'inherit', 1),
		(1, 1, 'OPT-TRACK', 'OPT-BEND', 'Bend', 18.00, 'fixed', 1),
		(1, NULL, NULL, 'OPT-MOTOR', 'Motorisation', 185.00, 'fixed', 1);
		INSERT INTO bundle_rules (company_id, template_id, child_item_key, qty_formula, child_unit_price, mount) VALUES
		(1, NULL, 'runner', NULL, 0.45, NULL),
		(1, 1, 'runner', 'ceiling(rail_width_cm / 5)', 0.50, NULL),
		(1, NULL, 'wall_bracket', NULL, 2.40, 'wall');
	`)
	if err != nil {
		t.Fatalf("seed options: %v", err)
	}

	svc := core.NewOptionService(pool)

	t.Run("FlatOptions", func(t *testing.T) {
		flat, err := svc.ListFlatOptions(ctx, "TEST")
		if err != nil {
			t.Fatalf("ListFlatOptions: %v", err)
		}
		if len(flat) != 1 || flat[0].ID != "OPT-MOTOR" {
			t.Errorf("flat options = %+v", flat)
		}
	})

	t.Run("TreeAssembly", func(t *testing.T) {
		tree, err := svc.GetOptionTree(ctx, "TEST")
		if err != nil {
			t.Fatalf("GetOptionTree: %v", err)
		}
		if len(tree) != 1 || tree[0].ID != "CAT-HW" {
			t.Fatalf("tree = %+v", tree)
		}
		if tree[0].CalculationMethod != pricing.MethodPerMetre {
			t.Errorf("category method = %s", tree[0].CalculationMethod)
		}
		items := tree[0].Subcategories[0].Items
		if len(items) != 1 || items[0].ID != "OPT-TRACK" {
			t.Fatalf("items = %+v", items)
		}
		if items[0].PricingMethod != pricing.MethodInherit {
			t.Errorf("item method = %s, want inherit", items[0].PricingMethod)
		}
		if len(items[0].Extras) != 1 || items[0].Extras[0].ID != "OPT-BEND" {
			t.Errorf("extras = %+v", items[0].Extras)
		}
	})

	t.Run("TemplateRuleOverridesCompanyWide", func(t *testing.T) {
		rules, err := svc.GetBundleRules(ctx, "TEST", "CURT-A")
		if err != nil {
			t.Fatalf("GetBundleRules: %v", err)
		}
		var runner *pricing.BundleRule
		for i := range rules {
			if rules[i].Key == "runner" {
				runner = &rules[i]
			}
		}
		if runner == nil {
			t.Fatal("runner rule missing")
		}
		if runner.QtyFormula != "ceiling(rail_width_cm / 5)" {
			t.Errorf("template-specific rule should win, got formula %q", runner.QtyFormula)
		}
	})

	t.Run("CompanyWideFallback", func(t *testing.T) {
		rules, err := svc.GetBundleRules(ctx, "TEST", "BLIND-A")
		if err != nil {
			t.Fatalf("GetBundleRules: %v", err)
		}
		for _, r := range rules {
			if r.Key == "runner" && r.QtyFormula != "" {
				t.Errorf("BLIND-A should get the company-wide runner rule, got %q", r.QtyFormula)
			}
			if r.Key == "wall_bracket" && r.Mount != pricing.MountWall {
				t.Errorf("wall_bracket mount = %s", r.Mount)
			}
		}
	})
}
