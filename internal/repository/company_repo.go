package repository

import (
	"context"
	"fmt"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyRepository handles database operations for dim_company
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// GetByTickers returns the known companies among tickers, keyed by ticker
func (r *CompanyRepository) GetByTickers(ctx context.Context, tickers []string) (map[string]models.Company, error) {
	out := make(map[string]models.Company, len(tickers))
	if len(tickers) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT ticker, name, sector, industry FROM dim_company WHERE ticker = ANY($1)`, tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	companies, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Company])
	if err != nil {
		return nil, fmt.Errorf("failed to scan companies: %w", err)
	}
	for _, c := range companies {
		out[c.Ticker] = c
	}
	return out, nil
}

// StoreCompanies upserts companies keyed by ticker
func (r *CompanyRepository) StoreCompanies(ctx context.Context, companies []models.Company) error {
	if len(companies) == 0 {
		return nil
	}

	query := `
		INSERT INTO dim_company (ticker, name, sector, industry)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker) DO UPDATE
		SET name = EXCLUDED.name, sector = EXCLUDED.sector, industry = EXCLUDED.industry
	`

	batch := &pgx.Batch{}
	for _, c := range companies {
		batch.Queue(query, c.Ticker, c.Name, c.Sector, c.Industry)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range companies {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to store company: %w", err)
		}
	}
	return nil
}
