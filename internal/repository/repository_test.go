package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/epeers/dividendstocks/internal/database"
	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to PG_URL, which must point at a database with schema.sql applied.
// Tests are skipped when it is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		t.Skip("PG_URL environment variable not set, skipping integration tests")
	}
	db, err := database.New(context.Background(), pgURL)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db.Pool
}

// cleanupTicker removes every row a test wrote for ticker
func cleanupTicker(t *testing.T, pool *pgxpool.Pool, ticker string) {
	t.Helper()
	t.Cleanup(func() {
		ctx := context.Background()
		pool.Exec(ctx, `DELETE FROM fact_price WHERE ticker = $1`, ticker)
		pool.Exec(ctx, `DELETE FROM fact_dividend WHERE ticker = $1`, ticker)
		pool.Exec(ctx, `DELETE FROM dim_company WHERE ticker = $1`, ticker)
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceRepository_StoreAndGet(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := repository.NewPriceRepository(pool)
	cleanupTicker(t, pool, "ZZTEST1")

	prices := []models.PricePoint{
		{Ticker: "ZZTEST1", Date: day(2024, 1, 3), Price: 11},
		{Ticker: "ZZTEST1", Date: day(2024, 1, 2), Price: 10},
	}
	require.NoError(t, repo.StorePrices(ctx, prices))
	// upsert replaces the close
	require.NoError(t, repo.StorePrices(ctx, []models.PricePoint{{Ticker: "ZZTEST1", Date: day(2024, 1, 3), Price: 12}}))

	got, err := repo.GetPriceSeries(ctx, "ZZTEST1", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 10.0, got[0].Price)
	assert.Equal(t, 12.0, got[1].Price)

	none, err := repo.GetPriceSeries(ctx, "ZZTEST1", day(2023, 1, 1), day(2023, 12, 31))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDividendRepository_StoreAndList(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := repository.NewDividendRepository(pool)
	cleanupTicker(t, pool, "ZZTEST2")

	require.NoError(t, repo.StoreDividends(ctx, []models.DividendPoint{
		{Ticker: "ZZTEST2", Date: day(2023, 3, 15), Dividend: 0.5},
		{Ticker: "ZZTEST2", Date: day(2023, 6, 15), Dividend: 0.5},
	}))

	got, err := repo.GetDividendSeries(ctx, "ZZTEST2", time.Time{}, day(2023, 12, 31))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	tickers, err := repo.ListTickers(ctx)
	require.NoError(t, err)
	assert.Contains(t, tickers, "ZZTEST2")
}

func TestBenchmarkRepository_Upsert(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := repository.NewBenchmarkRepository(pool)
	name := "zz test rate"
	t.Cleanup(func() { pool.Exec(context.Background(), `DELETE FROM dim_benchmark WHERE name = $1`, name) })

	missing, err := repo.Get(ctx, name)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Upsert(ctx, name, 0.04, time.Now()))
	require.NoError(t, repo.Upsert(ctx, name, 0.045, time.Now()))

	got, err := repo.Get(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0.045, got.Value)
}

func TestCompanyRepository_StoreAndGet(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := repository.NewCompanyRepository(pool)
	cleanupTicker(t, pool, "ZZTEST3")

	require.NoError(t, repo.StoreCompanies(ctx, []models.Company{{Ticker: "ZZTEST3", Name: "Test Co", Sector: "Utilities"}}))

	got, err := repo.GetByTickers(ctx, []string{"ZZTEST3", "ZZMISSING"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Test Co", got["ZZTEST3"].Name)
}
