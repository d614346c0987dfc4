package core

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusDeclined QuoteStatus = "DECLINED"
)

// Quote is a priced customer quote: a header plus one line per window.
type Quote struct {
	ID           int             `json:"id"`
	CompanyID    int             `json:"company_id"`
	QuoteNumber  string          `json:"quote_number"`
	CustomerName string          `json:"customer_name"`
	Status       QuoteStatus     `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Currency     string          `json:"currency"`
	CreatedAt    time.Time       `json:"created_at"`
	Lines        []QuoteLine     `json:"lines,omitempty"`
}

// QuoteLine stores one priced window. Request and Result are the engine's
// input and output frozen as JSON, so the quote replays exactly as priced
// even after the catalog changes.
type QuoteLine struct {
	ID          int             `json:"id"`
	QuoteID     int             `json:"quote_id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Request     json.RawMessage `json:"request"`
	Result      json.RawMessage `json:"result"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteLineInput is one line of a quote being created.
type QuoteLineInput struct {
	Description string          `json:"description"`
	Request     json.RawMessage `json:"request"`
	Result      json.RawMessage `json:"result"`
	Total       decimal.Decimal `json:"total"`
}
