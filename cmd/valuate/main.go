// Command valuate runs the dividend discount model over CSV exports without a database.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/epeers/dividendstocks/internal/csvimport"
	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/util"
	"github.com/epeers/dividendstocks/internal/valuation"
	log "github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"
)

// runOptions are the knobs of a single offline run
type runOptions struct {
	AsOf           time.Time
	BenchmarkIndex string
	RiskFreeIndex  string
	// Rates overrides the rates derived from the index series when set
	Rates   *models.Rates
	Workers int
}

// report is what the run command prints
type report struct {
	AsOf       string                   `json:"asOf"`
	Benchmarks models.Rates             `json:"benchmarks"`
	Valuations []models.ValuationRecord `json:"valuations"`
	Summary    models.RunSummary        `json:"summary"`
}

// dedupe keeps the last row per (ticker, date), the way the warehouse upsert does
func dedupe[T any](rows []T, key func(T) (string, time.Time)) []T {
	type rowKey struct {
		ticker string
		date   time.Time
	}
	pos := make(map[rowKey]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		ticker, date := key(r)
		k := rowKey{ticker, date}
		if i, ok := pos[k]; ok {
			out[i] = r
			continue
		}
		pos[k] = len(out)
		out = append(out, r)
	}
	return out
}

// groupSeries splits the parsed CSV rows by ticker after dropping duplicate (ticker, date) rows.
// The universe is every ticker that paid a dividend.
func groupSeries(prices []models.PricePoint, dividends []models.DividendPoint) (map[string][]models.PricePoint, []valuation.TickerSeries) {
	prices = dedupe(prices, func(p models.PricePoint) (string, time.Time) { return p.Ticker, p.Date })
	dividends = dedupe(dividends, func(d models.DividendPoint) (string, time.Time) { return d.Ticker, d.Date })

	byTicker := make(map[string][]models.PricePoint)
	for _, p := range prices {
		byTicker[p.Ticker] = append(byTicker[p.Ticker], p)
	}
	divs := make(map[string][]models.DividendPoint)
	for _, d := range dividends {
		divs[d.Ticker] = append(divs[d.Ticker], d)
	}

	tickers := make([]string, 0, len(divs))
	for t := range divs {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	series := make([]valuation.TickerSeries, 0, len(tickers))
	for _, t := range tickers {
		series = append(series, valuation.TickerSeries{Ticker: t, Prices: byTicker[t], Dividends: divs[t]})
	}
	return byTicker, series
}

func valuateFiles(pricesCSV, dividendsCSV io.Reader, opts runOptions) (*report, error) {
	prices, err := csvimport.ParsePrices(pricesCSV)
	if err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	dividends, err := csvimport.ParseDividends(dividendsCSV)
	if err != nil {
		return nil, fmt.Errorf("dividends: %w", err)
	}
	byTicker, series := groupSeries(prices, dividends)

	var rates models.Rates
	if opts.Rates != nil {
		rates = *opts.Rates
	} else {
		rates, err = valuation.MarketRates(byTicker[opts.BenchmarkIndex], byTicker[opts.RiskFreeIndex], opts.AsOf)
		if err != nil {
			return nil, fmt.Errorf("failed to derive benchmark rates from %s and %s: %w", opts.BenchmarkIndex, opts.RiskFreeIndex, err)
		}
	}

	res := valuation.NewPipeline(valuation.Options{Workers: opts.Workers}).Run(valuation.Input{
		AsOf:      opts.AsOf,
		Rates:     rates,
		Benchmark: byTicker[opts.BenchmarkIndex],
		Tickers:   series,
	})
	return &report{
		AsOf:       opts.AsOf.Format("2006-01-02"),
		Benchmarks: rates,
		Valuations: res.Records,
		Summary:    res.Summary,
	}, nil
}

func metadataFile(dividendsCSV io.Reader, asOf time.Time) ([]models.DividendMetadata, models.RunSummary, error) {
	dividends, err := csvimport.ParseDividends(dividendsCSV)
	if err != nil {
		return nil, models.RunSummary{}, fmt.Errorf("dividends: %w", err)
	}
	_, series := groupSeries(nil, dividends)
	res := valuation.NewPipeline(valuation.DefaultOptions()).Metadata(series, asOf)
	return res.QualifiedMetadata(), res.Summary, nil
}

func parseAsOf(c *cli.Context) (time.Time, error) {
	s := c.String("as-of")
	if s == "" {
		return util.MarketDay(time.Now()), nil
	}
	var d models.FlexibleDate
	if err := d.UnmarshalParam(s); err != nil {
		return time.Time{}, err
	}
	return d.Time, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	app := cli.NewApp()
	app.Name = "valuate"
	app.Usage = "Dividend discount model valuations from CSV exports"

	asOfFlag := cli.StringFlag{Name: "as-of", Usage: "valuation date, YYYY-MM-DD (default: today in New York)"}
	dividendsFlag := cli.StringFlag{Name: "dividends,d", Usage: "CSV with columns ticker,date,dividend"}

	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "value every consistent dividend payer",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "prices,p", Usage: "CSV with columns ticker,date,price, index series included"},
				dividendsFlag,
				cli.StringFlag{Name: "benchmark", Value: "^GSPC", Usage: "benchmark index ticker"},
				cli.StringFlag{Name: "risk-free-index", Value: "^TNX", Usage: "treasury yield ticker, quoted in percent"},
				cli.Float64Flag{Name: "risk-free", Usage: "risk-free rate override, as a decimal fraction"},
				cli.Float64Flag{Name: "market", Usage: "expected market return override, as a decimal fraction"},
				cli.IntFlag{Name: "workers", Value: 8},
				asOfFlag,
			},
			Action: func(c *cli.Context) error {
				if c.String("prices") == "" || c.String("dividends") == "" {
					return cli.NewExitError("--prices and --dividends are required", 2)
				}
				asOf, err := parseAsOf(c)
				if err != nil {
					return cli.NewExitError(err.Error(), 2)
				}
				opts := runOptions{
					AsOf:           asOf,
					BenchmarkIndex: c.String("benchmark"),
					RiskFreeIndex:  c.String("risk-free-index"),
					Workers:        c.Int("workers"),
				}
				if c.IsSet("risk-free") != c.IsSet("market") {
					return cli.NewExitError("--risk-free and --market must be given together", 2)
				}
				if c.IsSet("risk-free") {
					opts.Rates = &models.Rates{RiskFreeRate: c.Float64("risk-free"), ExpectedMarketRate: c.Float64("market")}
				}

				pf, err := os.Open(c.String("prices"))
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				defer pf.Close()
				df, err := os.Open(c.String("dividends"))
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				defer df.Close()

				rep, err := valuateFiles(pf, df, opts)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				log.Infof("valued %d of %d tickers", rep.Summary.Valued, rep.Summary.Evaluated)
				return printJSON(os.Stdout, rep)
			},
		},
		{
			Name:  "metadata",
			Usage: "print the dividend metadata of every consistent payer",
			Flags: []cli.Flag{dividendsFlag, asOfFlag},
			Action: func(c *cli.Context) error {
				if c.String("dividends") == "" {
					return cli.NewExitError("--dividends is required", 2)
				}
				asOf, err := parseAsOf(c)
				if err != nil {
					return cli.NewExitError(err.Error(), 2)
				}
				df, err := os.Open(c.String("dividends"))
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				defer df.Close()

				meta, summary, err := metadataFile(df, asOf)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				log.Infof("%d of %d tickers qualified for reference year %d", len(meta), summary.Evaluated, valuation.ReferenceYear(asOf))
				return printJSON(os.Stdout, meta)
			},
		},
	}

	log.SetOutput(os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
