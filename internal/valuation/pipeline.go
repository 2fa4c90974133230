package valuation

import (
	"errors"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"golang.org/x/sync/errgroup"
)

// Options tune a Pipeline. The zero value is usable; unset fields fall back to the defaults.
type Options struct {
	MinBetaObservations int
	Workers             int
}

// DefaultOptions returns the settings the published valuations are computed with.
func DefaultOptions() Options {
	return Options{
		MinBetaObservations: MinBetaObservations,
		Workers:             8,
	}
}

// TickerSeries is everything the pipeline needs about one ticker. FetchErr is set by adapters
// when the series could not be loaded; the ticker is then reported as data_unavailable.
type TickerSeries struct {
	Ticker    string
	Prices    []models.PricePoint
	Dividends []models.DividendPoint
	FetchErr  error
}

// Input is a fully materialized valuation run
type Input struct {
	AsOf      time.Time
	Rates     models.Rates
	Benchmark []models.PricePoint
	Tickers   []TickerSeries
}

// Outcome is the result for one ticker. Exactly one of Record (valued), !Qualified with nil Err
// (not a consistent payer) or Err (excluded) describes it. Qualified stays true for a ticker
// excluded after passing the consistent-payer screen.
type Outcome struct {
	Ticker    string
	Metadata  models.DividendMetadata
	Qualified bool
	Record    *models.ValuationRecord
	Err       error
	Reason    Reason
}

// Result of a Run. Records and Outcomes keep the order of Input.Tickers.
type Result struct {
	Records  []models.ValuationRecord
	Outcomes []Outcome
	Summary  models.RunSummary
}

// Pipeline chains the growth streak, CAGR, beta, CAPM and DDM calculators per ticker.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	opts Options
}

// NewPipeline creates a Pipeline
func NewPipeline(opts Options) *Pipeline {
	def := DefaultOptions()
	if opts.MinBetaObservations <= 0 {
		opts.MinBetaObservations = def.MinBetaObservations
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	return &Pipeline{opts: opts}
}

// ReferenceYear is the last full calendar year before asOf.
func ReferenceYear(asOf time.Time) int {
	return asOf.Year() - 1
}

// EvaluateMetadata computes a ticker's dividend metadata at referenceYear. A ticker below the
// consistent-payer threshold comes back with qualified=false and a nil error; the CAGR and
// frequency are only computed for qualifying tickers.
func EvaluateMetadata(ticker string, dividends []models.DividendPoint, referenceYear int) (models.DividendMetadata, bool, error) {
	aggs := AggregateAnnual(sortedDividends(dividends))
	meta := models.DividendMetadata{
		Ticker:           ticker,
		ConsecutiveYears: CurrentStreak(aggs, referenceYear),
	}
	if !IsConsistentPayer(meta.ConsecutiveYears) {
		return meta, false, nil
	}

	cagr, err := FiveYearCAGR(aggs, referenceYear)
	if err != nil {
		return meta, false, err
	}
	meta.FiveYearCAGR = cagr

	// A positive streak implies a positive total, so at least one payment; checked anyway
	// because the frequency is a divisor downstream.
	freq := aggs[indexOfYear(aggs, referenceYear)].PaymentCount
	if freq < 1 {
		return meta, false, stageErr(StageFrequency, ErrInsufficientHistory, "no payments in %d", referenceYear)
	}
	meta.DividendFrequency = freq

	return meta, true, nil
}

// Run values every ticker in the input. A failing ticker is excluded and recorded in the summary;
// it never aborts the batch. Running twice on the same input yields identical results.
func (p *Pipeline) Run(in Input) Result {
	benchReturns := LogReturns(TrailingWindow(in.Benchmark, in.AsOf, BetaWindowDays))
	refYear := ReferenceYear(in.AsOf)

	outcomes := make([]Outcome, len(in.Tickers))
	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i := range in.Tickers {
		g.Go(func() error {
			outcomes[i] = p.evaluate(in.Tickers[i], in.Rates, benchReturns, in.AsOf, refYear)
			return nil
		})
	}
	_ = g.Wait()

	return assemble(outcomes)
}

// Metadata evaluates only the dividend metadata stage for every ticker.
func (p *Pipeline) Metadata(tickers []TickerSeries, asOf time.Time) Result {
	refYear := ReferenceYear(asOf)
	outcomes := make([]Outcome, len(tickers))
	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i := range tickers {
		g.Go(func() error {
			ts := tickers[i]
			out := Outcome{Ticker: ts.Ticker}
			if ts.FetchErr != nil {
				out.Err, out.Reason = ts.FetchErr, ReasonDataUnavailable
			} else {
				out.Metadata, out.Qualified, out.Err = EvaluateMetadata(ts.Ticker, ts.Dividends, refYear)
				if out.Err != nil {
					out.Reason = ReasonOf(out.Err)
				}
			}
			outcomes[i] = out
			return nil
		})
	}
	_ = g.Wait()

	return assemble(outcomes)
}

func (p *Pipeline) evaluate(ts TickerSeries, rates models.Rates, benchReturns []DatedReturn, asOf time.Time, refYear int) Outcome {
	out := Outcome{Ticker: ts.Ticker}
	fail := func(err error) Outcome {
		out.Err = err
		out.Reason = ReasonOf(err)
		return out
	}

	if ts.FetchErr != nil {
		out.Err, out.Reason = ts.FetchErr, ReasonDataUnavailable
		return out
	}

	meta, qualified, err := EvaluateMetadata(ts.Ticker, ts.Dividends, refYear)
	out.Metadata = meta
	if err != nil {
		return fail(err)
	}
	if !qualified {
		return out
	}
	out.Qualified = true

	tickerReturns := LogReturns(TrailingWindow(ts.Prices, asOf, BetaWindowDays))
	beta, err := BetaFromReturns(tickerReturns, benchReturns, p.opts.MinBetaObservations)
	if err != nil {
		return fail(err)
	}

	required, err := RequiredRate(rates, beta)
	if err != nil {
		return fail(err)
	}

	lastPrice, err := LastPrice(ts.Prices, asOf)
	if err != nil {
		return fail(err)
	}
	lastDividend, err := LastDividend(ts.Dividends, asOf)
	if err != nil {
		return fail(err)
	}

	ddm, err := GordonGrowth(DDMInput{
		LastDividend:      lastDividend,
		DividendFrequency: meta.DividendFrequency,
		RequiredRate:      required,
		DividendGrowth:    meta.FiveYearCAGR,
		LastPrice:         lastPrice,
	})
	if err != nil {
		return fail(err)
	}

	out.Record = &models.ValuationRecord{
		Ticker:            ts.Ticker,
		LastPrice:         lastPrice,
		LastDividend:      lastDividend,
		ForwardDividend:   ddm.ForwardDividend,
		RequiredRate:      required,
		FairValue:         ddm.FairValue,
		PctChange:         ddm.PctChange,
		Beta:              beta,
		ConsecutiveYears:  meta.ConsecutiveYears,
		FiveYearCAGR:      meta.FiveYearCAGR,
		DividendFrequency: meta.DividendFrequency,
	}
	return out
}

// assemble collects records and builds the summary in input order.
func assemble(outcomes []Outcome) Result {
	res := Result{
		Records:  []models.ValuationRecord{},
		Outcomes: outcomes,
		Summary: models.RunSummary{
			Evaluated:        len(outcomes),
			ExcludedByReason: map[string]int{},
			Exclusions:       []models.Exclusion{},
		},
	}
	for _, o := range outcomes {
		if o.Qualified {
			res.Summary.Qualified++
		}
		switch {
		case o.Err != nil:
			res.Summary.Excluded++
			res.Summary.ExcludedByReason[string(o.Reason)]++
			res.Summary.Exclusions = append(res.Summary.Exclusions, models.Exclusion{
				Ticker:  o.Ticker,
				Reason:  string(o.Reason),
				Message: o.Err.Error(),
			})
		case o.Record != nil:
			res.Summary.Valued++
			res.Records = append(res.Records, *o.Record)
		case o.Qualified:
			// metadata-only runs, counted above
		default:
			res.Summary.NotQualified++
		}
	}
	return res
}

// Find returns the outcome for ticker.
func (r Result) Find(ticker string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Ticker == ticker {
			return o, true
		}
	}
	return Outcome{}, false
}

// QualifiedMetadata returns the metadata of every qualifying ticker, in input order.
func (r Result) QualifiedMetadata() []models.DividendMetadata {
	out := []models.DividendMetadata{}
	for _, o := range r.Outcomes {
		if o.Qualified && o.Err == nil {
			out = append(out, o.Metadata)
		}
	}
	return out
}

// IsExclusion reports whether err is one of the per-ticker conditions of this package.
func IsExclusion(err error) bool {
	return errors.Is(err, ErrInsufficientHistory) || errors.Is(err, ErrUndefinedMetric) || errors.Is(err, ErrModelNotApplicable)
}
