package pricing

import "github.com/shopspring/decimal"

// OptionDetail is one priced option in the breakdown.
type OptionDetail struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Method      PricingMethod   `json:"method"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Cost        decimal.Decimal `json:"cost"`
	Calculation string          `json:"calculation"`
}

// OptionsResult is the aggregated option pricing.
type OptionsResult struct {
	Total   decimal.Decimal `json:"total"`
	Details []OptionDetail  `json:"details"`
}

// AggregateOptions prices every selected option: flat options first in array
// order, then the hierarchical tree in declared order (category →
// subcategory → item → extras). Order only affects the breakdown display.
//
// Method inheritance resolves top-down: an item or extra marked "inherit"
// takes its category's calculation method, and a category marked "inherit"
// (or unset) takes the window-covering default. A selected ID not present in
// either tree is a stale selection from a deleted option and contributes
// nothing.
func AggregateOptions(selectedIDs []string, flat []Option, tree []OptionCategory,
	defaultMethod PricingMethod, ctx PriceContext) *OptionsResult {

	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	res := &OptionsResult{Total: decimal.Zero}
	add := func(opt Option, method PricingMethod) {
		priced := CalculatePrice(method, opt.Price, ctx)
		res.Details = append(res.Details, OptionDetail{
			ID:          opt.ID,
			Name:        opt.Name,
			Method:      method,
			BasePrice:   opt.Price,
			Cost:        priced.Cost,
			Calculation: priced.Calculation,
		})
		res.Total = res.Total.Add(priced.Cost)
	}

	for _, opt := range flat {
		if selected[opt.ID] {
			add(opt, ResolvePricingMethod(opt.PricingMethod, defaultMethod))
		}
	}

	for _, cat := range tree {
		catMethod := ResolvePricingMethod(cat.CalculationMethod, defaultMethod)
		for _, sub := range cat.Subcategories {
			for _, item := range sub.Items {
				itemMethod := ResolvePricingMethod(item.PricingMethod, catMethod)
				if selected[item.ID] {
					add(item, itemMethod)
				}
				for _, extra := range item.Extras {
					if selected[extra.ID] {
						add(extra, ResolvePricingMethod(extra.PricingMethod, itemMethod))
					}
				}
			}
		}
	}

	return res
}
