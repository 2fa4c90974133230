package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/dividendstocks/internal/cache"
	"github.com/epeers/dividendstocks/internal/models"
)

// Full history is loaded once per ticker and sliced in memory, so every as-of date shares one cache entry.
var (
	historyStart = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	historyEnd   = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// SeriesService serves price, dividend and rate series out of the warehouse with an in-memory cache in front
type SeriesService struct {
	prices     PriceStore
	dividends  DividendStore
	benchmarks BenchmarkStore
	memCache   *cache.MemoryCache
}

// NewSeriesService creates a new SeriesService
func NewSeriesService(prices PriceStore, dividends DividendStore, benchmarks BenchmarkStore, memCache *cache.MemoryCache) *SeriesService {
	return &SeriesService{
		prices:     prices,
		dividends:  dividends,
		benchmarks: benchmarks,
		memCache:   memCache,
	}
}

// GetPriceSeries returns a ticker's closes within r, ordered by date
func (s *SeriesService) GetPriceSeries(ctx context.Context, ticker string, r models.DateRange) ([]models.PricePoint, error) {
	all, ok := s.memCache.GetPrices(ticker)
	if !ok {
		var err error
		all, err = s.prices.GetPriceSeries(ctx, ticker, historyStart, historyEnd)
		if err != nil {
			return nil, err
		}
		s.memCache.SetPrices(ticker, all)
	}

	var out []models.PricePoint
	for _, p := range all {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetDividendSeries returns a ticker's payments within r, ordered by date
func (s *SeriesService) GetDividendSeries(ctx context.Context, ticker string, r models.DateRange) ([]models.DividendPoint, error) {
	all, ok := s.memCache.GetDividends(ticker)
	if !ok {
		var err error
		all, err = s.dividends.GetDividendSeries(ctx, ticker, historyStart, historyEnd)
		if err != nil {
			return nil, err
		}
		s.memCache.SetDividends(ticker, all)
	}

	var out []models.DividendPoint
	for _, d := range all {
		if r.Contains(d.Date) {
			out = append(out, d)
		}
	}
	return out, nil
}

// GetBenchmarkSeries returns an index series. Indexes are stored in fact_price under their symbol.
func (s *SeriesService) GetBenchmarkSeries(ctx context.Context, index string, r models.DateRange) ([]models.PricePoint, error) {
	return s.GetPriceSeries(ctx, index, r)
}

// GetCurrentRates reads the two CAPM inputs from dim_benchmark
func (s *SeriesService) GetCurrentRates(ctx context.Context) (models.Rates, error) {
	rf, err := s.benchmarks.Get(ctx, models.BenchmarkRiskFreeRate)
	if err != nil {
		return models.Rates{}, err
	}
	rm, err := s.benchmarks.Get(ctx, models.BenchmarkExpectedMarketRate)
	if err != nil {
		return models.Rates{}, err
	}
	if rf == nil || rm == nil {
		return models.Rates{}, fmt.Errorf("%w: run POST /admin/refresh or set them with PUT /admin/benchmarks/:name", ErrNoRates)
	}
	return models.Rates{RiskFreeRate: rf.Value, ExpectedMarketRate: rm.Value}, nil
}

// ListTickers returns every ticker with dividend history
func (s *SeriesService) ListTickers(ctx context.Context) ([]string, error) {
	return s.dividends.ListTickers(ctx)
}

// Invalidate drops cached series after new rows were stored for tickers
func (s *SeriesService) Invalidate(tickers ...string) {
	for _, t := range tickers {
		s.memCache.Invalidate(t)
	}
}
