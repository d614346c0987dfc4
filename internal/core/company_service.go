package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyService resolves tenants. Every other service takes a company code
// and scopes its queries through this table.
type CompanyService interface {
	GetCompany(ctx context.Context, companyCode string) (*Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
}

type companyService struct {
	pool *pgxpool.Pool
}

func NewCompanyService(pool *pgxpool.Pool) CompanyService {
	return &companyService{pool: pool}
}

func (s *companyService) GetCompany(ctx context.Context, companyCode string) (*Company, error) {
	var c Company
	err := s.pool.QueryRow(ctx,
		"SELECT id, company_code, name, currency FROM companies WHERE company_code = $1",
		companyCode,
	).Scan(&c.ID, &c.CompanyCode, &c.Name, &c.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s not found", companyCode)
		}
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	return &c, nil
}

func (s *companyService) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, company_code, name, currency FROM companies ORDER BY company_code")
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.CompanyCode, &c.Name, &c.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, nil
}
