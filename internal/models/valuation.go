package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// OutputPrecision is the number of fractional digits every decimal field is written with.
// Snapshot consumers compare responses byte for byte, so this must not change between runs.
const OutputPrecision = 6

// fixed renders v as a JSON number with OutputPrecision fractional digits.
// Non-finite values become null.
func fixed(v float64) json.RawMessage {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.RawMessage("null")
	}
	return json.RawMessage(decimal.NewFromFloat(v).StringFixed(OutputPrecision))
}

// DividendMetadata describes a ticker's dividend growth at the reference year
type DividendMetadata struct {
	Ticker            string  `json:"ticker"`
	ConsecutiveYears  int     `json:"consecutiveYears"`
	FiveYearCAGR      float64 `json:"fiveYearCAGR"`
	DividendFrequency int     `json:"dividendFrequency"`
}

func (m DividendMetadata) MarshalJSON() ([]byte, error) {
	type plain struct {
		Ticker            string          `json:"ticker"`
		ConsecutiveYears  int             `json:"consecutiveYears"`
		FiveYearCAGR      json.RawMessage `json:"fiveYearCAGR"`
		DividendFrequency int             `json:"dividendFrequency"`
	}
	return json.Marshal(plain{
		Ticker:            m.Ticker,
		ConsecutiveYears:  m.ConsecutiveYears,
		FiveYearCAGR:      fixed(m.FiveYearCAGR),
		DividendFrequency: m.DividendFrequency,
	})
}

// ValuationRecord is the dividend discount model output for one ticker.
// It is recomputed on every request and has no lifecycle of its own.
// Company and the two histories are attached by the service layer, never by the model.
type ValuationRecord struct {
	Ticker            string
	LastPrice         float64
	LastDividend      float64
	ForwardDividend   float64
	RequiredRate      float64
	FairValue         float64
	PctChange         float64
	Beta              float64
	ConsecutiveYears  int
	FiveYearCAGR      float64
	DividendFrequency int

	Company         *Company
	PriceHistory    []PricePoint
	DividendHistory []DividendPoint
}

// historyPoint is one dated observation in a record's price or dividend history
type historyPoint struct {
	Date     string          `json:"date"`
	Price    json.RawMessage `json:"price,omitempty"`
	Dividend json.RawMessage `json:"dividend,omitempty"`
}

func priceHistory(points []PricePoint) []historyPoint {
	if len(points) == 0 {
		return nil
	}
	out := make([]historyPoint, len(points))
	for i, p := range points {
		out[i] = historyPoint{Date: p.Date.Format(dateLayout), Price: fixed(p.Price)}
	}
	return out
}

func dividendHistory(points []DividendPoint) []historyPoint {
	if len(points) == 0 {
		return nil
	}
	out := make([]historyPoint, len(points))
	for i, d := range points {
		out[i] = historyPoint{Date: d.Date.Format(dateLayout), Dividend: fixed(d.Dividend)}
	}
	return out
}

func (v ValuationRecord) MarshalJSON() ([]byte, error) {
	type plain struct {
		Ticker            string          `json:"ticker"`
		LastPrice         json.RawMessage `json:"lastPrice"`
		LastDividend      json.RawMessage `json:"lastDividend"`
		ForwardDividend   json.RawMessage `json:"forwardDividend"`
		RequiredRate      json.RawMessage `json:"requiredRate"`
		FairValue         json.RawMessage `json:"valuation"`
		PctChange         json.RawMessage `json:"pctChange"`
		Beta              json.RawMessage `json:"beta"`
		ConsecutiveYears  int             `json:"consecutiveYears"`
		FiveYearCAGR      json.RawMessage `json:"fiveYearCAGR"`
		DividendFrequency int             `json:"dividendFrequency"`
		Name              string          `json:"name,omitempty"`
		Sector            string          `json:"sector,omitempty"`
		Industry          string          `json:"industry,omitempty"`
		PriceHistory      []historyPoint  `json:"priceHistory,omitempty"`
		DividendHistory   []historyPoint  `json:"dividendHistory,omitempty"`
	}
	out := plain{
		Ticker:            v.Ticker,
		LastPrice:         fixed(v.LastPrice),
		LastDividend:      fixed(v.LastDividend),
		ForwardDividend:   fixed(v.ForwardDividend),
		RequiredRate:      fixed(v.RequiredRate),
		FairValue:         fixed(v.FairValue),
		PctChange:         fixed(v.PctChange),
		Beta:              fixed(v.Beta),
		ConsecutiveYears:  v.ConsecutiveYears,
		FiveYearCAGR:      fixed(v.FiveYearCAGR),
		DividendFrequency: v.DividendFrequency,
		PriceHistory:      priceHistory(v.PriceHistory),
		DividendHistory:   dividendHistory(v.DividendHistory),
	}
	if v.Company != nil {
		out.Name, out.Sector, out.Industry = v.Company.Name, v.Company.Sector, v.Company.Industry
	}
	return json.Marshal(out)
}

// Exclusion records why a ticker was left out of a valuation run
type Exclusion struct {
	Ticker  string `json:"ticker"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// RunSummary counts what happened to every ticker handed to a run.
// Qualified counts tickers that passed the consistent-payer screen, whatever happened after it.
// Valuation runs: Evaluated = Valued + NotQualified + Excluded.
// Metadata runs value nothing: Evaluated = Qualified + NotQualified + Excluded.
type RunSummary struct {
	Evaluated        int            `json:"evaluated"`
	Qualified        int            `json:"qualified"`
	Valued           int            `json:"valued"`
	NotQualified     int            `json:"notQualified"`
	Excluded         int            `json:"excluded"`
	ExcludedByReason map[string]int `json:"excludedByReason"`
	Exclusions       []Exclusion    `json:"exclusions"`
}

// ValuationResponse is the body of GET /valuations
type ValuationResponse struct {
	RunID       string            `json:"runId"`
	LastUpdated time.Time         `json:"lastUpdated"`
	AsOf        string            `json:"asOf"`
	Benchmarks  Rates             `json:"benchmarks"`
	Valuations  []ValuationRecord `json:"valuations"`
	Summary     RunSummary        `json:"summary"`
	Warnings    []Warning         `json:"warnings,omitempty"`
}

// RefreshResult is returned by a metadata refresh. Benchmarks is nil when neither the index
// series nor dim_benchmark could supply rates.
type RefreshResult struct {
	RunID         string     `json:"runId"`
	AsOf          string     `json:"asOf"`
	ReferenceYear int        `json:"referenceYear"`
	Qualified     int        `json:"qualified"`
	Evaluated     int        `json:"evaluated"`
	Benchmarks    *Rates     `json:"benchmarks,omitempty"`
	Summary       RunSummary `json:"summary"`
	Warnings      []Warning  `json:"warnings,omitempty"`
}
