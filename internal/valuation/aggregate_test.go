package valuation_test

import (
	"testing"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/valuation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateAnnual(t *testing.T) {
	points := []models.DividendPoint{
		{Ticker: "KO", Date: date(2021, 12, 1), Dividend: 0.42},
		{Ticker: "KO", Date: date(2020, 3, 1), Dividend: 0.41},
		{Ticker: "KO", Date: date(2021, 3, 1), Dividend: 0.42},
		{Ticker: "KO", Date: date(2020, 9, 1), Dividend: 0},
		{Ticker: "KO", Date: date(2023, 6, 1), Dividend: 0.46},
	}

	aggs := valuation.AggregateAnnual(points)
	require.Len(t, aggs, 3)

	assert.Equal(t, 2020, aggs[0].Year)
	assert.InDelta(t, 0.41, aggs[0].TotalDividend, 1e-12)
	assert.Equal(t, 1, aggs[0].PaymentCount, "zero dividend is not a payment")

	assert.Equal(t, 2021, aggs[1].Year)
	assert.InDelta(t, 0.84, aggs[1].TotalDividend, 1e-12)
	assert.Equal(t, 2, aggs[1].PaymentCount)

	// 2022 has no rows and is absent rather than zero
	assert.Equal(t, 2023, aggs[2].Year)
	assert.Equal(t, "KO", aggs[2].Ticker)
}

func TestAggregateAnnual_Empty(t *testing.T) {
	assert.Empty(t, valuation.AggregateAnnual(nil))
}
