package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MetadataRepository handles database operations for dividend_metadata
type MetadataRepository struct {
	pool *pgxpool.Pool
}

// NewMetadataRepository creates a new MetadataRepository
func NewMetadataRepository(pool *pgxpool.Pool) *MetadataRepository {
	return &MetadataRepository{pool: pool}
}

// List returns the stored metadata ordered by ticker
func (r *MetadataRepository) List(ctx context.Context) ([]models.DividendMetadata, error) {
	query := `
		SELECT ticker, consecutive_years, five_year_cagr, dividend_frequency
		FROM dividend_metadata
		ORDER BY ticker
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend metadata: %w", err)
	}
	defer rows.Close()

	metas := []models.DividendMetadata{}
	for rows.Next() {
		var m models.DividendMetadata
		if err := rows.Scan(&m.Ticker, &m.ConsecutiveYears, &m.FiveYearCAGR, &m.DividendFrequency); err != nil {
			return nil, fmt.Errorf("failed to scan dividend metadata: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// ReplaceAll truncates dividend_metadata and reloads it with metas in one transaction, so readers
// see either the previous set or the new one.
func (r *MetadataRepository) ReplaceAll(ctx context.Context, metas []models.DividendMetadata, updatedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE dividend_metadata`); err != nil {
		return fmt.Errorf("failed to truncate dividend metadata: %w", err)
	}

	if len(metas) > 0 {
		query := `
			INSERT INTO dividend_metadata (ticker, consecutive_years, five_year_cagr, dividend_frequency, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		batch := &pgx.Batch{}
		for _, m := range metas {
			batch.Queue(query, m.Ticker, m.ConsecutiveYears, m.FiveYearCAGR, m.DividendFrequency, updatedAt)
		}
		br := tx.SendBatch(ctx, batch)
		for range metas {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert dividend metadata: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit dividend metadata: %w", err)
	}
	return nil
}
