package services

import (
	"context"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
)

// The services depend on these instead of the pgx repositories so tests can hand in fakes.

// PriceStore reads and writes fact_price, equities and index series alike
type PriceStore interface {
	GetPriceSeries(ctx context.Context, ticker string, startDate, endDate time.Time) ([]models.PricePoint, error)
	StorePrices(ctx context.Context, prices []models.PricePoint) error
}

// DividendStore reads and writes fact_dividend
type DividendStore interface {
	GetDividendSeries(ctx context.Context, ticker string, startDate, endDate time.Time) ([]models.DividendPoint, error)
	ListTickers(ctx context.Context) ([]string, error)
	StoreDividends(ctx context.Context, dividends []models.DividendPoint) error
}

// BenchmarkStore reads and writes dim_benchmark
type BenchmarkStore interface {
	GetAll(ctx context.Context) ([]models.BenchmarkRate, error)
	Get(ctx context.Context, name string) (*models.BenchmarkRate, error)
	Upsert(ctx context.Context, name string, value float64, updatedAt time.Time) error
}

// MetadataStore reads and reloads dividend_metadata
type MetadataStore interface {
	List(ctx context.Context) ([]models.DividendMetadata, error)
	ReplaceAll(ctx context.Context, metas []models.DividendMetadata, updatedAt time.Time) error
}

// CompanyStore reads and writes dim_company
type CompanyStore interface {
	GetByTickers(ctx context.Context, tickers []string) (map[string]models.Company, error)
	StoreCompanies(ctx context.Context, companies []models.Company) error
}

// SeriesSource is everything a valuation run reads. SeriesService implements it over the stores.
type SeriesSource interface {
	GetPriceSeries(ctx context.Context, ticker string, r models.DateRange) ([]models.PricePoint, error)
	GetDividendSeries(ctx context.Context, ticker string, r models.DateRange) ([]models.DividendPoint, error)
	GetBenchmarkSeries(ctx context.Context, index string, r models.DateRange) ([]models.PricePoint, error)
	GetCurrentRates(ctx context.Context) (models.Rates, error)
	ListTickers(ctx context.Context) ([]string, error)
}
