package models

import "time"

// PricePoint is one closing price observation for a ticker. Unique per (ticker, date).
type PricePoint struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`
}

// DividendPoint is one dividend payment for a ticker. Unique per (ticker, date).
type DividendPoint struct {
	Ticker   string    `json:"ticker"`
	Date     time.Time `json:"date"`
	Dividend float64   `json:"dividend"`
}

// AnnualDividendAggregate is derived from DividendPoint on every run and never stored on its own.
type AnnualDividendAggregate struct {
	Ticker        string  `json:"ticker"`
	Year          int     `json:"year"`
	TotalDividend float64 `json:"total_dividend"`
	PaymentCount  int     `json:"payment_count"`
}

// Benchmark rate names as they appear in dim_benchmark.name
const (
	BenchmarkRiskFreeRate       = "risk-free rate"
	BenchmarkExpectedMarketRate = "expected market return"
)

// BenchmarkRate holds the latest known value for a named rate
type BenchmarkRate struct {
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rates are the two benchmark inputs of the required rate model
type Rates struct {
	RiskFreeRate       float64 `json:"riskFreeRate"`
	ExpectedMarketRate float64 `json:"expectedMarketRate"`
}

// DateRange is an inclusive [Start, End] window of calendar dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Company is a row of dim_company
type Company struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}
