package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL    string
	Port     string
	AdminKey string
	LogLevel log.Level

	// Index tickers in fact_price the benchmark rates are derived from
	BenchmarkIndex string
	RiskFreeIndex  string

	ValuationWorkers int
	SeriesCacheTTL   time.Duration

	// Cron spec for the metadata refresh, evaluated in America/New_York. Empty disables it.
	RefreshSchedule string
}

// Load reads configuration from environment variables, after loading .env from the working
// directory if one exists. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	level := log.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		parsed, err := log.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
		}
		level = parsed
	}

	workers, err := intEnv("VALUATION_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, fmt.Errorf("VALUATION_WORKERS must be positive, got %d", workers)
	}

	ttl := 15 * time.Minute
	if s := os.Getenv("SERIES_CACHE_TTL"); s != "" {
		ttl, err = time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid SERIES_CACHE_TTL %q: %w", s, err)
		}
	}

	return &Config{
		PGURL:            pgURL,
		Port:             stringEnv("PORT", "8080"),
		AdminKey:         os.Getenv("ADMIN_KEY"),
		LogLevel:         level,
		BenchmarkIndex:   stringEnv("BENCHMARK_INDEX", "^GSPC"),
		RiskFreeIndex:    stringEnv("RISK_FREE_INDEX", "^TNX"),
		ValuationWorkers: workers,
		SeriesCacheTTL:   ttl,
		RefreshSchedule:  os.Getenv("REFRESH_SCHEDULE"),
	}, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}
