package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DividendRepository handles database operations for fact_dividend
type DividendRepository struct {
	pool *pgxpool.Pool
}

// NewDividendRepository creates a new DividendRepository
func NewDividendRepository(pool *pgxpool.Pool) *DividendRepository {
	return &DividendRepository{pool: pool}
}

// GetDividendSeries retrieves a ticker's payments within [startDate, endDate], ordered by date
func (r *DividendRepository) GetDividendSeries(ctx context.Context, ticker string, startDate, endDate time.Time) ([]models.DividendPoint, error) {
	query := `
		SELECT ticker, date, dividend
		FROM fact_dividend
		WHERE ticker = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, ticker, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividends for %s: %w", ticker, err)
	}
	defer rows.Close()

	var dividends []models.DividendPoint
	for rows.Next() {
		var d models.DividendPoint
		if err := rows.Scan(&d.Ticker, &d.Date, &d.Dividend); err != nil {
			return nil, fmt.Errorf("failed to scan dividend data: %w", err)
		}
		dividends = append(dividends, d)
	}
	return dividends, rows.Err()
}

// ListTickers returns every ticker that has paid a dividend, ordered alphabetically
func (r *DividendRepository) ListTickers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT ticker FROM fact_dividend ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dividend tickers: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// StoreDividends upserts payments keyed by (ticker, date)
func (r *DividendRepository) StoreDividends(ctx context.Context, dividends []models.DividendPoint) error {
	if len(dividends) == 0 {
		return nil
	}

	query := `
		INSERT INTO fact_dividend (ticker, date, dividend)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, date) DO UPDATE
		SET dividend = EXCLUDED.dividend
	`

	batch := &pgx.Batch{}
	for _, d := range dividends {
		batch.Queue(query, d.Ticker, d.Date, d.Dividend)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range dividends {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to store dividend: %w", err)
		}
	}
	return nil
}
