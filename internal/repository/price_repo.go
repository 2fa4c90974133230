package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PriceRepository handles database operations for fact_price. Index series such as ^GSPC and
// ^TNX live in the same table as equity closes.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetPriceSeries retrieves a ticker's closes within [startDate, endDate], ordered by date
func (r *PriceRepository) GetPriceSeries(ctx context.Context, ticker string, startDate, endDate time.Time) ([]models.PricePoint, error) {
	query := `
		SELECT ticker, date, price
		FROM fact_price
		WHERE ticker = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, ticker, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", ticker, err)
	}
	defer rows.Close()

	var prices []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Ticker, &p.Date, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan price data: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// StorePrices upserts closes keyed by (ticker, date)
func (r *PriceRepository) StorePrices(ctx context.Context, prices []models.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}

	query := `
		INSERT INTO fact_price (ticker, date, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, date) DO UPDATE
		SET price = EXCLUDED.price
	`

	batch := &pgx.Batch{}
	for _, p := range prices {
		batch.Queue(query, p.Ticker, p.Date, p.Price)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range prices {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to store price: %w", err)
		}
	}
	return nil
}
