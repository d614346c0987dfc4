package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// QuoteService persists priced quotes. Each line freezes the pricing request
// and result as JSON, and quote numbers run per company from a locked
// sequence row.
type QuoteService interface {
	CreateQuote(ctx context.Context, companyCode, customerName, notes string, lines []QuoteLineInput) (*Quote, error)
	// GetQuote returns the quote with its lines.
	GetQuote(ctx context.Context, companyCode, quoteNumber string) (*Quote, error)
	// ListQuotes returns quote headers, newest first, without lines.
	ListQuotes(ctx context.Context, companyCode string) ([]Quote, error)
	UpdateQuoteStatus(ctx context.Context, companyCode, quoteNumber string, status QuoteStatus) error
}

type quoteService struct {
	pool *pgxpool.Pool
}

func NewQuoteService(pool *pgxpool.Pool) QuoteService {
	return &quoteService{pool: pool}
}

func (s *quoteService) CreateQuote(ctx context.Context, companyCode, customerName, notes string, lines []QuoteLineInput) (*Quote, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("a quote needs at least one line")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var companyID int
	var currency string
	if err := tx.QueryRow(ctx, "SELECT id, currency FROM companies WHERE company_code = $1", companyCode).Scan(&companyID, &currency); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	// Per-company numbering: lock the sequence row, increment, format.
	var lastNumber int64
	err = tx.QueryRow(ctx, `
		INSERT INTO quote_sequences (company_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_number = quote_sequences.last_number + 1
		RETURNING last_number
	`, companyID).Scan(&lastNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to advance quote sequence: %w", err)
	}
	quoteNumber := fmt.Sprintf("Q-%06d", lastNumber)

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total)
	}

	q := &Quote{
		CompanyID:    companyID,
		QuoteNumber:  quoteNumber,
		CustomerName: customerName,
		Status:       QuoteStatusDraft,
		Notes:        notes,
		TotalCost:    total,
		Currency:     currency,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (company_id, quote_number, customer_name, status, notes, total_cost, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, companyID, quoteNumber, customerName, q.Status, notes, total, currency).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quote: %w", err)
	}

	for i, line := range lines {
		var ql QuoteLine
		err = tx.QueryRow(ctx, `
			INSERT INTO quote_lines (quote_id, position, description, request, result, total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, q.ID, i+1, line.Description, line.Request, line.Result, line.Total).Scan(&ql.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert quote line %d: %w", i+1, err)
		}
		ql.QuoteID = q.ID
		ql.Position = i + 1
		ql.Description = line.Description
		ql.Request = line.Request
		ql.Result = line.Result
		ql.Total = line.Total
		q.Lines = append(q.Lines, ql)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quote: %w", err)
	}
	return q, nil
}

func (s *quoteService) GetQuote(ctx context.Context, companyCode, quoteNumber string) (*Quote, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	var q Quote
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, quote_number, customer_name, status, notes, total_cost, currency, created_at
		FROM quotes
		WHERE company_id = $1 AND quote_number = $2
	`, companyID, quoteNumber).Scan(
		&q.ID, &q.CompanyID, &q.QuoteNumber, &q.CustomerName, &q.Status,
		&q.Notes, &q.TotalCost, &q.Currency, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote %s not found for company %s", quoteNumber, companyCode)
		}
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, quote_id, position, description, request, result, total
		FROM quote_lines
		WHERE quote_id = $1
		ORDER BY position
	`, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ql QuoteLine
		if err := rows.Scan(&ql.ID, &ql.QuoteID, &ql.Position, &ql.Description, &ql.Request, &ql.Result, &ql.Total); err != nil {
			return nil, fmt.Errorf("failed to scan quote line: %w", err)
		}
		q.Lines = append(q.Lines, ql)
	}
	return &q, nil
}

func (s *quoteService) ListQuotes(ctx context.Context, companyCode string) ([]Quote, error) {
	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, quote_number, customer_name, status, notes, total_cost, currency, created_at
		FROM quotes
		WHERE company_id = $1
		ORDER BY created_at DESC, id DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(
			&q.ID, &q.CompanyID, &q.QuoteNumber, &q.CustomerName, &q.Status,
			&q.Notes, &q.TotalCost, &q.Currency, &q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (s *quoteService) UpdateQuoteStatus(ctx context.Context, companyCode, quoteNumber string, status QuoteStatus) error {
	switch status {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined:
	default:
		return fmt.Errorf("invalid quote status %q", status)
	}

	var companyID int
	if err := s.pool.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("company code %s not found", companyCode)
		}
		return fmt.Errorf("failed to resolve company: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE quotes SET status = $1 WHERE company_id = $2 AND quote_number = $3",
		status, companyID, quoteNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote %s not found for company %s", quoteNumber, companyCode)
	}
	return nil
}
