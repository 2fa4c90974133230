package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BenchmarkRepository handles database operations for dim_benchmark
type BenchmarkRepository struct {
	pool *pgxpool.Pool
}

// NewBenchmarkRepository creates a new BenchmarkRepository
func NewBenchmarkRepository(pool *pgxpool.Pool) *BenchmarkRepository {
	return &BenchmarkRepository{pool: pool}
}

// GetAll returns every named rate, ordered by name
func (r *BenchmarkRepository) GetAll(ctx context.Context) ([]models.BenchmarkRate, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, value, updated_at FROM dim_benchmark ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmarks: %w", err)
	}
	defer rows.Close()

	var rates []models.BenchmarkRate
	for rows.Next() {
		var b models.BenchmarkRate
		if err := rows.Scan(&b.Name, &b.Value, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark: %w", err)
		}
		rates = append(rates, b)
	}
	return rates, rows.Err()
}

// Get returns one named rate, or nil when it has never been set
func (r *BenchmarkRepository) Get(ctx context.Context, name string) (*models.BenchmarkRate, error) {
	b := &models.BenchmarkRate{}
	err := r.pool.QueryRow(ctx, `SELECT name, value, updated_at FROM dim_benchmark WHERE name = $1`, name).
		Scan(&b.Name, &b.Value, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark %q: %w", name, err)
	}
	return b, nil
}

// Upsert sets a named rate
func (r *BenchmarkRepository) Upsert(ctx context.Context, name string, value float64, updatedAt time.Time) error {
	query := `
		INSERT INTO dim_benchmark (name, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, name, value, updatedAt); err != nil {
		return fmt.Errorf("failed to upsert benchmark %q: %w", name, err)
	}
	return nil
}
