package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/valuation"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// Trailing windows of the histories attached to each valued ticker
const (
	PriceHistoryDays    = 30
	DividendHistoryDays = 365
)

// ReasonNotQualified is reported for a single-ticker request on a ticker below the consistent-payer threshold
const ReasonNotQualified = "not_qualified"

// ValuationService runs the dividend discount valuation over the warehouse
type ValuationService struct {
	series         SeriesSource
	companies      CompanyStore
	pipeline       *valuation.Pipeline
	benchmarkIndex string
	workers        int
	now            func() time.Time
}

// NewValuationService creates a new ValuationService. workers bounds concurrent series fetches.
func NewValuationService(series SeriesSource, pipeline *valuation.Pipeline, benchmarkIndex string, workers int) *ValuationService {
	if workers < 1 {
		workers = 1
	}
	return &ValuationService{
		series:         series,
		pipeline:       pipeline,
		benchmarkIndex: benchmarkIndex,
		workers:        workers,
		now:            time.Now,
	}
}

// WithCompanies makes valuations carry each company's dim_company row
func (s *ValuationService) WithCompanies(companies CompanyStore) *ValuationService {
	s.companies = companies
	return s
}

// dateOnly truncates t to its calendar date at midnight UTC
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// trailingRange is the [asOf - days, asOf] window
func trailingRange(asOf time.Time, days int) models.DateRange {
	end := dateOnly(asOf)
	return models.DateRange{Start: end.AddDate(0, 0, -days), End: end}
}

// Valuate values every ticker with dividend history as of asOf. Per-ticker failures become exclusions
// and warnings on ctx; only a failure to load the rates, the benchmark or the ticker list fails the run.
func (s *ValuationService) Valuate(ctx context.Context, asOf time.Time) (*models.ValuationResponse, error) {
	defer TrackTime("ValuationService.Valuate", time.Now())

	tickers, err := s.series.ListTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}

	in, err := s.loadInput(ctx, tickers, asOf)
	if err != nil {
		return nil, err
	}

	res := s.pipeline.Run(*in)
	addExclusionWarnings(ctx, res)
	s.attachDetails(ctx, in, res.Records)

	runID := uuid.NewString()
	log.Infof("valuation run %s as of %s: %d evaluated, %d valued, %d not qualified, %d excluded",
		runID, asOf.Format(dateLayout), res.Summary.Evaluated, res.Summary.Valued, res.Summary.NotQualified, res.Summary.Excluded)

	return &models.ValuationResponse{
		RunID:       runID,
		LastUpdated: s.now().UTC(),
		AsOf:        asOf.Format(dateLayout),
		Benchmarks:  in.Rates,
		Valuations:  res.Records,
		Summary:     res.Summary,
	}, nil
}

// ValuateTicker values a single ticker. When the ticker cannot be valued the returned Exclusion says why
// and the response is nil.
func (s *ValuationService) ValuateTicker(ctx context.Context, ticker string, asOf time.Time) (*models.TickerValuationResponse, *models.Exclusion, error) {
	defer TrackTime("ValuationService.ValuateTicker", time.Now())

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	in, err := s.loadInput(ctx, []string{ticker}, asOf)
	if err != nil {
		return nil, nil, err
	}
	ts := in.Tickers[0]
	if ts.FetchErr == nil && len(ts.Prices) == 0 && len(ts.Dividends) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	res := s.pipeline.Run(*in)
	out := res.Outcomes[0]
	switch {
	case out.Err != nil:
		addExclusionWarnings(ctx, res)
		return nil, &res.Summary.Exclusions[0], nil
	case out.Record == nil:
		msg := fmt.Sprintf("%d consecutive years of dividend growth in %d, need %d",
			out.Metadata.ConsecutiveYears, valuation.ReferenceYear(asOf), valuation.MinConsecutiveGrowthYears)
		return nil, &models.Exclusion{Ticker: ticker, Reason: ReasonNotQualified, Message: msg}, nil
	}

	records := []models.ValuationRecord{*out.Record}
	s.attachDetails(ctx, in, records)

	return &models.TickerValuationResponse{
		RunID:      uuid.NewString(),
		AsOf:       asOf.Format(dateLayout),
		Benchmarks: in.Rates,
		Valuation:  records[0],
	}, nil, nil
}

// attachDetails adds the company row and the recent price and dividend history to each record.
// Histories are sliced from the series already loaded for the run.
func (s *ValuationService) attachDetails(ctx context.Context, in *valuation.Input, records []models.ValuationRecord) {
	if len(records) == 0 {
		return
	}
	byTicker := make(map[string]valuation.TickerSeries, len(in.Tickers))
	for _, ts := range in.Tickers {
		byTicker[ts.Ticker] = ts
	}

	var companies map[string]models.Company
	if s.companies != nil {
		tickers := make([]string, len(records))
		for i, r := range records {
			tickers[i] = r.Ticker
		}
		var err error
		companies, err = s.companies.GetByTickers(ctx, tickers)
		if err != nil {
			// a missing company row never fails a valuation
			log.Warnf("failed to load companies: %v", err)
		}
	}

	priceWindow := trailingRange(in.AsOf, PriceHistoryDays)
	dividendWindow := trailingRange(in.AsOf, DividendHistoryDays)
	for i := range records {
		rec := &records[i]
		if c, ok := companies[rec.Ticker]; ok {
			rec.Company = &c
		}
		ts := byTicker[rec.Ticker]
		for _, p := range ts.Prices {
			if priceWindow.Contains(p.Date) {
				rec.PriceHistory = append(rec.PriceHistory, p)
			}
		}
		for _, d := range ts.Dividends {
			if d.Dividend > 0 && dividendWindow.Contains(d.Date) {
				rec.DividendHistory = append(rec.DividendHistory, d)
			}
		}
	}
}

// loadInput materializes everything a pipeline run needs. Series of different tickers are fetched
// concurrently; a failed fetch marks that ticker only.
func (s *ValuationService) loadInput(ctx context.Context, tickers []string, asOf time.Time) (*valuation.Input, error) {
	rates, err := s.series.GetCurrentRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark rates: %w", err)
	}

	window := trailingRange(asOf, valuation.BetaWindowDays)
	bench, err := s.series.GetBenchmarkSeries(ctx, s.benchmarkIndex, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark series %s: %w", s.benchmarkIndex, err)
	}
	if len(bench) == 0 {
		log.Warnf("benchmark series %s is empty before %s, every beta will fail", s.benchmarkIndex, asOf.Format(dateLayout))
	}

	history := models.DateRange{Start: historyStart, End: window.End}
	series := make([]valuation.TickerSeries, len(tickers))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, ticker := range tickers {
		g.Go(func() error {
			ts := valuation.TickerSeries{Ticker: ticker}
			if err := ctx.Err(); err != nil {
				ts.FetchErr = err
				series[i] = ts
				return nil
			}
			ts.Prices, ts.FetchErr = s.series.GetPriceSeries(ctx, ticker, window)
			if ts.FetchErr == nil {
				ts.Dividends, ts.FetchErr = s.series.GetDividendSeries(ctx, ticker, history)
			}
			if ts.FetchErr != nil {
				log.Errorf("failed to load series for %s: %v", ticker, ts.FetchErr)
				ts.FetchErr = fmt.Errorf("failed to load series: %w", ts.FetchErr)
			}
			series[i] = ts
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &valuation.Input{
		AsOf:      asOf,
		Rates:     rates,
		Benchmark: bench,
		Tickers:   series,
	}, nil
}
