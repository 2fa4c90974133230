package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataService_Refresh(t *testing.T) {
	ts := newTestServices()
	seed(ts.store)
	ts.store.metadata = []models.DividendMetadata{{Ticker: "STALE", ConsecutiveYears: 9}}

	ctx, wc := services.NewWarningContext(context.Background())
	res, err := ts.metadata.Refresh(ctx, testAsOf)
	require.NoError(t, err)

	assert.Equal(t, 2024, res.ReferenceYear)
	assert.Equal(t, 3, res.Evaluated)
	assert.Equal(t, 1, res.Qualified)
	assert.Equal(t, 1, res.Summary.Qualified)
	assert.Equal(t, 0, res.Summary.Valued, "a refresh values nothing")
	assert.Equal(t, res.Summary.Evaluated, res.Summary.Qualified+res.Summary.NotQualified+res.Summary.Excluded)
	require.NotNil(t, res.Benchmarks)
	assert.InDelta(t, 0.0425, res.Benchmarks.RiskFreeRate, 1e-12)
	assert.Greater(t, res.Benchmarks.ExpectedMarketRate, 0.0)

	list, err := ts.metadata.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Count, "refresh truncates and reloads")
	assert.Equal(t, "JNJ", list.Metadata[0].Ticker)
	assert.Equal(t, 6, list.Metadata[0].ConsecutiveYears)
	assert.Equal(t, 4, list.Metadata[0].DividendFrequency)

	stored, err := ts.series.GetCurrentRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, *res.Benchmarks, stored)

	require.Len(t, wc.GetWarnings(), 1)
	assert.Equal(t, models.WarnDataUnavailable, wc.GetWarnings()[0].Code)
}

func TestMetadataService_Refresh_KeepsStoredRates(t *testing.T) {
	ts := newTestServices()
	seed(ts.store)
	seedRates(ts.store)
	delete(ts.store.prices, "^TNX")

	ctx, wc := services.NewWarningContext(context.Background())
	res, err := ts.metadata.Refresh(ctx, testAsOf)
	require.NoError(t, err)
	require.NotNil(t, res.Benchmarks)
	assert.Equal(t, models.Rates{RiskFreeRate: 0.03, ExpectedMarketRate: 0.08}, *res.Benchmarks)

	var codes []string
	for _, w := range wc.GetWarnings() {
		codes = append(codes, string(w.Code))
	}
	assert.Contains(t, strings.Join(codes, ","), string(models.WarnRatesStale))
}

func TestMetadataService_Refresh_NoRatesAnywhere(t *testing.T) {
	ts := newTestServices()
	seed(ts.store)
	delete(ts.store.prices, "^TNX")

	ctx, wc := services.NewWarningContext(context.Background())
	res, err := ts.metadata.Refresh(ctx, testAsOf)
	require.NoError(t, err, "metadata is still refreshed")
	assert.Nil(t, res.Benchmarks)
	assert.Equal(t, 1, res.Qualified)

	var stale []models.Warning
	for _, w := range wc.GetWarnings() {
		if w.Code == models.WarnRatesStale {
			stale = append(stale, w)
		}
	}
	require.Len(t, stale, 1)
	assert.Contains(t, stale[0].Message, "none are stored")

	_, err = ts.series.GetCurrentRates(context.Background())
	assert.ErrorIs(t, err, services.ErrNoRates, "nothing was written as a zero rate")
}

func TestMetadataService_Benchmarks(t *testing.T) {
	ts := newTestServices()
	ctx := context.Background()

	empty, err := ts.metadata.Benchmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Benchmarks)
	assert.Equal(t, models.Rates{}, empty.Rates)

	_, err = ts.metadata.UpdateBenchmark(ctx, models.BenchmarkRiskFreeRate, 0.041)
	require.NoError(t, err)
	_, err = ts.metadata.UpdateBenchmark(ctx, models.BenchmarkExpectedMarketRate, 0.09)
	require.NoError(t, err)
	_, err = ts.metadata.UpdateBenchmark(ctx, "inflation", 0.02)
	assert.ErrorIs(t, err, services.ErrUnknownBenchmark)

	got, err := ts.metadata.Benchmarks(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Benchmarks, 2)
	assert.Equal(t, models.Rates{RiskFreeRate: 0.041, ExpectedMarketRate: 0.09}, got.Rates)
}
