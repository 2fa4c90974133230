package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/valuation"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MetadataService maintains dividend_metadata and the benchmark rates in dim_benchmark
type MetadataService struct {
	series         SeriesSource
	metadata       MetadataStore
	benchmarks     BenchmarkStore
	pipeline       *valuation.Pipeline
	benchmarkIndex string
	riskFreeIndex  string
	workers        int
	now            func() time.Time
}

// NewMetadataService creates a new MetadataService
func NewMetadataService(
	series SeriesSource,
	metadata MetadataStore,
	benchmarks BenchmarkStore,
	pipeline *valuation.Pipeline,
	benchmarkIndex, riskFreeIndex string,
	workers int,
) *MetadataService {
	if workers < 1 {
		workers = 1
	}
	return &MetadataService{
		series:         series,
		metadata:       metadata,
		benchmarks:     benchmarks,
		pipeline:       pipeline,
		benchmarkIndex: benchmarkIndex,
		riskFreeIndex:  riskFreeIndex,
		workers:        workers,
		now:            time.Now,
	}
}

// Refresh recomputes the benchmark rates from the index series and the dividend metadata of every
// ticker, then reloads dividend_metadata with the qualifying tickers. When the index series cannot
// produce rates the stored ones are kept and a warning is added.
func (s *MetadataService) Refresh(ctx context.Context, asOf time.Time) (*models.RefreshResult, error) {
	defer TrackTime("MetadataService.Refresh", time.Now())
	now := s.now().UTC()

	rates, err := s.refreshRates(ctx, asOf, now)
	if err != nil {
		return nil, err
	}

	tickers, err := s.series.ListTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}

	history := models.DateRange{Start: historyStart, End: dateOnly(asOf)}
	series := make([]valuation.TickerSeries, len(tickers))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, ticker := range tickers {
		g.Go(func() error {
			divs, err := s.series.GetDividendSeries(ctx, ticker, history)
			if err != nil {
				log.Errorf("failed to load dividends for %s: %v", ticker, err)
				err = fmt.Errorf("failed to load dividends: %w", err)
			}
			series[i] = valuation.TickerSeries{Ticker: ticker, Dividends: divs, FetchErr: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := s.pipeline.Metadata(series, asOf)
	addExclusionWarnings(ctx, res)

	metas := res.QualifiedMetadata()
	if err := s.metadata.ReplaceAll(ctx, metas, now); err != nil {
		return nil, fmt.Errorf("failed to store dividend metadata: %w", err)
	}

	runID := uuid.NewString()
	log.Infof("metadata refresh %s as of %s: %d of %d tickers qualify, %d excluded",
		runID, asOf.Format(dateLayout), len(metas), len(tickers), res.Summary.Excluded)

	return &models.RefreshResult{
		RunID:         runID,
		AsOf:          asOf.Format(dateLayout),
		ReferenceYear: valuation.ReferenceYear(asOf),
		Qualified:     len(metas),
		Evaluated:     len(tickers),
		Benchmarks:    rates,
		Summary:       res.Summary,
	}, nil
}

// refreshRates derives and stores the rates, falling back to the stored ones when the index
// series are too short. It returns nil rates when there is nothing to fall back to.
func (s *MetadataService) refreshRates(ctx context.Context, asOf, now time.Time) (*models.Rates, error) {
	window := trailingRange(asOf, 365*valuation.MarketRateYears)
	bench, err := s.series.GetBenchmarkSeries(ctx, s.benchmarkIndex, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark series %s: %w", s.benchmarkIndex, err)
	}
	riskFree, err := s.series.GetBenchmarkSeries(ctx, s.riskFreeIndex, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk-free series %s: %w", s.riskFreeIndex, err)
	}

	rates, err := valuation.MarketRates(bench, riskFree, asOf)
	if err != nil {
		derr := err
		stored, err := s.series.GetCurrentRates(ctx)
		if errors.Is(err, ErrNoRates) {
			msg := fmt.Sprintf("could not derive rates from %s and %s (%v) and none are stored; valuations return 503 until rates are set",
				s.benchmarkIndex, s.riskFreeIndex, derr)
			log.Warn(msg)
			AddWarning(ctx, models.Warning{Code: models.WarnRatesStale, Message: msg})
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		log.Warnf("keeping stored benchmark rates: %v", derr)
		AddWarning(ctx, models.Warning{
			Code:    models.WarnRatesStale,
			Message: fmt.Sprintf("could not derive rates from %s and %s: %v", s.benchmarkIndex, s.riskFreeIndex, derr),
		})
		return &stored, nil
	}

	if err := s.benchmarks.Upsert(ctx, models.BenchmarkRiskFreeRate, rates.RiskFreeRate, now); err != nil {
		return nil, err
	}
	if err := s.benchmarks.Upsert(ctx, models.BenchmarkExpectedMarketRate, rates.ExpectedMarketRate, now); err != nil {
		return nil, err
	}
	return &rates, nil
}

// List returns the stored dividend metadata
func (s *MetadataService) List(ctx context.Context) (*models.MetadataListResponse, error) {
	metas, err := s.metadata.List(ctx)
	if err != nil {
		return nil, err
	}
	return &models.MetadataListResponse{Count: len(metas), Metadata: metas}, nil
}

// Benchmarks returns the stored rates. Rates stays zero until both have been set.
func (s *MetadataService) Benchmarks(ctx context.Context) (*models.BenchmarksResponse, error) {
	all, err := s.benchmarks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []models.BenchmarkRate{}
	}
	rates, err := s.series.GetCurrentRates(ctx)
	if err != nil && !errors.Is(err, ErrNoRates) {
		return nil, err
	}
	return &models.BenchmarksResponse{Rates: rates, Benchmarks: all}, nil
}

// UpdateBenchmark overrides one of the two CAPM rates by hand
func (s *MetadataService) UpdateBenchmark(ctx context.Context, name string, value float64) (*models.BenchmarkRate, error) {
	if name != models.BenchmarkRiskFreeRate && name != models.BenchmarkExpectedMarketRate {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBenchmark, name)
	}
	now := s.now().UTC()
	if err := s.benchmarks.Upsert(ctx, name, value, now); err != nil {
		return nil, err
	}
	log.Infof("benchmark %q set to %v", name, value)
	return &models.BenchmarkRate{Name: name, Value: value, UpdatedAt: now}, nil
}
