package core_test

import (
	"context"
	"encoding/json"
	"testing"

	"quote-engine/internal/core"

	"github.com/shopspring/decimal"
)

func TestQuoteService_CreateAndFetch(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewQuoteService(pool)

	req := json.RawMessage(`{"template_code":"CURT-A","rail_width_cm":200,"drop_cm":220}`)
	res := json.RawMessage(`{"total_cost":"422.87"}`)

	t.Run("CreateQuote_NumbersPerCompany", func(t *testing.T) {
		q1, err := svc.CreateQuote(ctx, "TEST", "Jane Smith", "living room refit", []core.QuoteLineInput{
			{Description: "Living room pair", Request: req, Result: res, Total: decimal.RequireFromString("422.87")},
			{Description: "Bedroom blind", Request: req, Result: res, Total: decimal.RequireFromString("110.00")},
		})
		if err != nil {
			t.Fatalf("CreateQuote: %v", err)
		}
		if q1.QuoteNumber != "Q-000001" {
			t.Errorf("first quote number = %s", q1.QuoteNumber)
		}
		if len(q1.Lines) != 2 || q1.Lines[0].Position != 1 || q1.Lines[1].Position != 2 {
			t.Errorf("lines = %+v", q1.Lines)
		}
		if q1.TotalCost.StringFixed(2) != "532.87" {
			t.Errorf("total = %s, want 532.87", q1.TotalCost)
		}
		if q1.Status != core.QuoteStatusDraft {
			t.Errorf("status = %s", q1.Status)
		}
		if q1.Currency != "USD" {
			t.Errorf("currency = %s, want company base currency", q1.Currency)
		}

		q2, err := svc.CreateQuote(ctx, "TEST", "Bob Lee", "", []core.QuoteLineInput{
			{Description: "Hall window", Request: req, Result: res, Total: decimal.RequireFromString("99.00")},
		})
		if err != nil {
			t.Fatalf("CreateQuote second: %v", err)
		}
		if q2.QuoteNumber != "Q-000002" {
			t.Errorf("second quote number = %s", q2.QuoteNumber)
		}
	})

	t.Run("GetQuote_RoundTripsFrozenJSON", func(t *testing.T) {
		q, err := svc.GetQuote(ctx, "TEST", "Q-000001")
		if err != nil {
			t.Fatalf("GetQuote: %v", err)
		}
		if len(q.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(q.Lines))
		}
		var snapshot map[string]any
		if err := json.Unmarshal(q.Lines[0].Request, &snapshot); err != nil {
			t.Fatalf("frozen request is not valid JSON: %v", err)
		}
		if snapshot["template_code"] != "CURT-A" {
			t.Errorf("snapshot = %v", snapshot)
		}
	})

	t.Run("ListQuotes_NewestFirst", func(t *testing.T) {
		quotes, err := svc.ListQuotes(ctx, "TEST")
		if err != nil {
			t.Fatalf("ListQuotes: %v", err)
		}
		if len(quotes) != 2 {
			t.Fatalf("expected 2 quotes, got %d", len(quotes))
		}
		if quotes[0].QuoteNumber != "Q-000002" {
			t.Errorf("expected newest first, got %s", quotes[0].QuoteNumber)
		}
		if len(quotes[0].Lines) != 0 {
			t.Error("list view should not carry lines")
		}
	})

	t.Run("UpdateQuoteStatus", func(t *testing.T) {
		if err := svc.UpdateQuoteStatus(ctx, "TEST", "Q-000001", core.QuoteStatusSent); err != nil {
			t.Fatalf("UpdateQuoteStatus: %v", err)
		}
		q, err := svc.GetQuote(ctx, "TEST", "Q-000001")
		if err != nil {
			t.Fatalf("GetQuote: %v", err)
		}
		if q.Status != core.QuoteStatusSent {
			t.Errorf("status = %s, want SENT", q.Status)
		}

		if err := svc.UpdateQuoteStatus(ctx, "TEST", "Q-000001", "BOGUS"); err == nil {
			t.Error("expected error for invalid status")
		}
		if err := svc.UpdateQuoteStatus(ctx, "TEST", "Q-999999", core.QuoteStatusSent); err == nil {
			t.Error("expected error for missing quote")
		}
	})

	t.Run("EmptyQuoteRejected", func(t *testing.T) {
		if _, err := svc.CreateQuote(ctx, "TEST", "Nobody", "", nil); err == nil {
			t.Error("expected error for quote with no lines")
		}
	})

	t.Run("SequenceIsolationBetweenCompanies", func(t *testing.T) {
		pool.Exec(ctx, `
			INSERT INTO companies (id, company_code, name, currency)
			VALUES (2, 'OTHER', 'Other Company', 'EUR')
			ON CONFLICT DO NOTHING
		`)
		q, err := svc.CreateQuote(ctx, "OTHER", "First Customer", "", []core.QuoteLineInput{
			{Description: "One window", Request: req, Result: res, Total: decimal.NewFromInt(50)},
		})
		if err != nil {
			t.Fatalf("CreateQuote for other company: %v", err)
		}
		if q.QuoteNumber != "Q-000001" {
			t.Errorf("other company's sequence should start at 1, got %s", q.QuoteNumber)
		}
		if q.Currency != "EUR" {
			t.Errorf("currency = %s, want EUR", q.Currency)
		}
	})
}
