package services_test

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/epeers/dividendstocks/internal/cache"
	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/services"
	"github.com/epeers/dividendstocks/internal/valuation"
)

// fakeStore is an in-memory warehouse implementing every store interface of the services package
type fakeStore struct {
	mu          sync.Mutex
	prices      map[string][]models.PricePoint
	dividends   map[string][]models.DividendPoint
	benchmarks  map[string]models.BenchmarkRate
	metadata    []models.DividendMetadata
	companies   []models.Company
	failTickers map[string]bool
	priceCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		prices:      map[string][]models.PricePoint{},
		dividends:   map[string][]models.DividendPoint{},
		benchmarks:  map[string]models.BenchmarkRate{},
		failTickers: map[string]bool{},
	}
}

var errFakeDown = errors.New("connection reset by peer")

func (f *fakeStore) GetPriceSeries(_ context.Context, ticker string, start, end time.Time) ([]models.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCalls++
	if f.failTickers[ticker] {
		return nil, errFakeDown
	}
	var out []models.PricePoint
	for _, p := range f.prices[ticker] {
		if !p.Date.Before(start) && !p.Date.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) StorePrices(_ context.Context, prices []models.PricePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range prices {
		f.prices[p.Ticker] = append(f.prices[p.Ticker], p)
	}
	return nil
}

func (f *fakeStore) GetDividendSeries(_ context.Context, ticker string, start, end time.Time) ([]models.DividendPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTickers[ticker] {
		return nil, errFakeDown
	}
	var out []models.DividendPoint
	for _, d := range f.dividends[ticker] {
		if !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTickers(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for t := range f.dividends {
		out = append(out, t)
	}
	for t := range f.failTickers {
		if _, ok := f.dividends[t]; !ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) StoreDividends(_ context.Context, dividends []models.DividendPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range dividends {
		f.dividends[d.Ticker] = append(f.dividends[d.Ticker], d)
	}
	return nil
}

func (f *fakeStore) GetAll(context.Context) ([]models.BenchmarkRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.BenchmarkRate
	for _, b := range f.benchmarks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, name string) (*models.BenchmarkRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.benchmarks[name]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeStore) Upsert(_ context.Context, name string, value float64, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.benchmarks[name] = models.BenchmarkRate{Name: name, Value: value, UpdatedAt: updatedAt}
	return nil
}

func (f *fakeStore) List(context.Context) ([]models.DividendMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.DividendMetadata{}, f.metadata...), nil
}

func (f *fakeStore) ReplaceAll(_ context.Context, metas []models.DividendMetadata, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata = append([]models.DividendMetadata{}, metas...)
	return nil
}

func (f *fakeStore) GetByTickers(_ context.Context, tickers []string) (map[string]models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.Company)
	for _, t := range tickers {
		for _, c := range f.companies {
			if c.Ticker == t {
				out[t] = c
			}
		}
	}
	return out, nil
}

func (f *fakeStore) StoreCompanies(_ context.Context, companies []models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.companies = append(f.companies, companies...)
	return nil
}

var testAsOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func wave(i int) float64 {
	return 0.01*math.Sin(float64(i)) + 0.004*math.Cos(float64(3*i))
}

// seed fills the store with a benchmark index, a treasury yield series, a consistent payer (JNJ),
// a young payer (NEW) and a ticker whose fetches fail (BAD).
func seed(f *fakeStore) {
	start := testAsOf.AddDate(0, 0, -89)
	for i := 0; i < 90; i++ {
		d := start.AddDate(0, 0, i)
		f.prices["^GSPC"] = append(f.prices["^GSPC"], models.PricePoint{Ticker: "^GSPC", Date: d, Price: 100 * math.Exp(wave(i))})
		f.prices["JNJ"] = append(f.prices["JNJ"], models.PricePoint{Ticker: "JNJ", Date: d, Price: 50 * math.Exp(1.5*wave(i))})
		f.prices["NEW"] = append(f.prices["NEW"], models.PricePoint{Ticker: "NEW", Date: d, Price: 20 * math.Exp(wave(i))})
	}
	// five years back so the index CAGR is defined
	f.prices["^GSPC"] = append([]models.PricePoint{{Ticker: "^GSPC", Date: testAsOf.AddDate(0, 0, -365*5), Price: 60}}, f.prices["^GSPC"]...)
	f.prices["^TNX"] = []models.PricePoint{{Ticker: "^TNX", Date: testAsOf.AddDate(0, 0, -1), Price: 4.25}}

	for y, amt := range map[int]float64{2018: 0.50, 2019: 0.55, 2020: 0.60, 2021: 0.65, 2022: 0.70, 2023: 0.75, 2024: 0.80} {
		for _, m := range []time.Month{3, 6, 9, 12} {
			f.dividends["JNJ"] = append(f.dividends["JNJ"], models.DividendPoint{Ticker: "JNJ", Date: time.Date(y, m, 15, 0, 0, 0, 0, time.UTC), Dividend: amt})
		}
	}
	sort.Slice(f.dividends["JNJ"], func(i, j int) bool { return f.dividends["JNJ"][i].Date.Before(f.dividends["JNJ"][j].Date) })
	for y, amt := range map[int]float64{2023: 0.2, 2024: 0.3} {
		f.dividends["NEW"] = append(f.dividends["NEW"], models.DividendPoint{Ticker: "NEW", Date: time.Date(y, 6, 1, 0, 0, 0, 0, time.UTC), Dividend: amt})
	}
	f.failTickers["BAD"] = true
}

func seedRates(f *fakeStore) {
	f.benchmarks[models.BenchmarkRiskFreeRate] = models.BenchmarkRate{Name: models.BenchmarkRiskFreeRate, Value: 0.03}
	f.benchmarks[models.BenchmarkExpectedMarketRate] = models.BenchmarkRate{Name: models.BenchmarkExpectedMarketRate, Value: 0.08}
}

type testServices struct {
	store     *fakeStore
	series    *services.SeriesService
	valuation *services.ValuationService
	metadata  *services.MetadataService
	admin     *services.AdminService
}

func newTestServices() *testServices {
	store := newFakeStore()
	series := services.NewSeriesService(store, store, store, cache.NewMemoryCache(time.Hour))
	pipeline := valuation.NewPipeline(valuation.DefaultOptions())
	return &testServices{
		store:     store,
		series:    series,
		valuation: services.NewValuationService(series, pipeline, "^GSPC", 4).WithCompanies(store),
		metadata:  services.NewMetadataService(series, store, store, pipeline, "^GSPC", "^TNX", 4),
		admin:     services.NewAdminService(store, store, store, series),
	}
}
