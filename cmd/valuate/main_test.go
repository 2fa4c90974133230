package main

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAsOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

// pricesCSV writes 60 daily closes for ^GSPC, KO (beta 1) and a 4.5% ^TNX quote
func pricesCSV() string {
	var b strings.Builder
	b.WriteString("ticker,date,price\n")
	for i := 60; i >= 0; i-- {
		d := testAsOf.AddDate(0, 0, -i).Format("2006-01-02")
		w := 0.01 * math.Sin(float64(i)*1.7)
		fmt.Fprintf(&b, "^GSPC,%s,%.8f\n", d, 100*math.Exp(w))
		fmt.Fprintf(&b, "KO,%s,%.8f\n", d, 50*math.Exp(w))
	}
	fmt.Fprintf(&b, "^TNX,%s,4.5\n", testAsOf.Format("2006-01-02"))
	return b.String()
}

// dividendsCSV: KO raises its quarterly payment every year 2018-2024, NEW started in 2023
func dividendsCSV() string {
	var b strings.Builder
	b.WriteString("ticker,date,dividend\n")
	for y, amt := 2018, 0.50; y <= 2024; y, amt = y+1, amt+0.05 {
		for _, m := range []int{3, 6, 9, 12} {
			fmt.Fprintf(&b, "KO,%d-%02d-15,%.2f\n", y, m, amt)
		}
	}
	b.WriteString("NEW,2023-06-15,0.10\nNEW,2024-06-15,0.20\n")
	return b.String()
}

func TestValuateFiles_WithRateOverride(t *testing.T) {
	rep, err := valuateFiles(strings.NewReader(pricesCSV()), strings.NewReader(dividendsCSV()), runOptions{
		AsOf:           testAsOf,
		BenchmarkIndex: "^GSPC",
		RiskFreeIndex:  "^TNX",
		Rates:          &models.Rates{RiskFreeRate: 0.04, ExpectedMarketRate: 0.10},
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-06-30", rep.AsOf)
	assert.Equal(t, 2, rep.Summary.Evaluated)
	assert.Equal(t, 1, rep.Summary.NotQualified)
	require.Len(t, rep.Valuations, 1)

	ko := rep.Valuations[0]
	assert.Equal(t, "KO", ko.Ticker)
	assert.InDelta(t, 1.0, ko.Beta, 1e-4)
	assert.InDelta(t, 0.10, ko.RequiredRate, 1e-4)
	assert.InDelta(t, 0.80, ko.LastDividend, 1e-9)
	assert.Equal(t, 4, ko.DividendFrequency)
}

func TestValuateFiles_DerivesRatesFromIndexSeries(t *testing.T) {
	rep, err := valuateFiles(strings.NewReader(pricesCSV()), strings.NewReader(dividendsCSV()), runOptions{
		AsOf:           testAsOf,
		BenchmarkIndex: "^GSPC",
		RiskFreeIndex:  "^TNX",
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.045, rep.Benchmarks.RiskFreeRate, 1e-12)
	assert.Equal(t, rep.Summary.Evaluated, rep.Summary.Valued+rep.Summary.NotQualified+rep.Summary.Excluded)
}

func TestValuateFiles_MissingRiskFreeSeries(t *testing.T) {
	_, err := valuateFiles(strings.NewReader(pricesCSV()), strings.NewReader(dividendsCSV()), runOptions{
		AsOf:           testAsOf,
		BenchmarkIndex: "^GSPC",
		RiskFreeIndex:  "^IRX",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "^IRX")
}

func TestValuateFiles_BadCSV(t *testing.T) {
	_, err := valuateFiles(strings.NewReader("ticker,date\n"), strings.NewReader(dividendsCSV()), runOptions{AsOf: testAsOf})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prices")
}

func TestMetadataFile(t *testing.T) {
	meta, summary, err := metadataFile(strings.NewReader(dividendsCSV()), testAsOf)
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "KO", meta[0].Ticker)
	assert.Equal(t, 6, meta[0].ConsecutiveYears)
	assert.InDelta(t, math.Pow(0.80/0.60, 0.2)-1, meta[0].FiveYearCAGR, 1e-9)
	assert.Equal(t, 1, summary.NotQualified)
}

func TestMetadataFile_DuplicateRowsCountOnce(t *testing.T) {
	dup := dividendsCSV() + "KO,2024-03-15,0.80\n"
	meta, _, err := metadataFile(strings.NewReader(dup), testAsOf)
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, 4, meta[0].DividendFrequency)
	assert.InDelta(t, math.Pow(3.2/2.4, 0.2)-1, meta[0].FiveYearCAGR, 1e-9)
}

func TestGroupSeries_DuplicateRowsKeepLast(t *testing.T) {
	prices := []models.PricePoint{
		{Ticker: "KO", Date: testAsOf.AddDate(0, 0, -1), Price: 60},
		{Ticker: "KO", Date: testAsOf, Price: 61},
		{Ticker: "KO", Date: testAsOf, Price: 62},
	}
	dividends := []models.DividendPoint{
		{Ticker: "KO", Date: testAsOf, Dividend: 0.50},
		{Ticker: "KO", Date: testAsOf, Dividend: 0.51},
		{Ticker: "PEP", Date: testAsOf, Dividend: 1.35},
	}

	byTicker, series := groupSeries(prices, dividends)
	require.Len(t, byTicker["KO"], 2)
	assert.Equal(t, 62.0, byTicker["KO"][1].Price, "the later row for a date replaces the earlier one")

	require.Len(t, series, 2)
	assert.Equal(t, "KO", series[0].Ticker)
	require.Len(t, series[0].Dividends, 1)
	assert.Equal(t, 0.51, series[0].Dividends[0].Dividend)
}

func TestValuateFiles_DuplicateDividendRow(t *testing.T) {
	rep, err := valuateFiles(strings.NewReader(pricesCSV()), strings.NewReader(dividendsCSV()+"KO,2024-12-15,0.80\n"), runOptions{
		AsOf:           testAsOf,
		BenchmarkIndex: "^GSPC",
		RiskFreeIndex:  "^TNX",
		Rates:          &models.Rates{RiskFreeRate: 0.04, ExpectedMarketRate: 0.10},
	})
	require.NoError(t, err)
	require.Len(t, rep.Valuations, 1)
	ko := rep.Valuations[0]
	assert.Equal(t, 4, ko.DividendFrequency)
	assert.InDelta(t, 3.2, ko.ForwardDividend, 1e-9)
}
