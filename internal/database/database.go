package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// DB wraps the warehouse connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// New opens a pool against pgURL and verifies it with a ping
func New(ctx context.Context, pgURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(pgURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PG_URL: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Infof("Connected to %s/%s (max %d conns)", cfg.ConnConfig.Host, cfg.ConnConfig.Database, cfg.MaxConns)
	return &DB{Pool: pool}, nil
}

// Close releases every connection in the pool
func (db *DB) Close() {
	db.Pool.Close()
}
