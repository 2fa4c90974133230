package valuation_test

import (
	"testing"

	"github.com/epeers/dividendstocks/internal/valuation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCAGR(t *testing.T) {
	rate, err := valuation.CAGR(1.00, 1.2763, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, rate, 1e-4)

	rate, err = valuation.CAGR(2, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)

	rate, err = valuation.CAGR(2, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, rate, 1e-12)
}

func TestCAGR_Errors(t *testing.T) {
	_, err := valuation.CAGR(0, 1, 5)
	assert.ErrorIs(t, err, valuation.ErrInsufficientHistory)

	_, err = valuation.CAGR(1, -1, 5)
	assert.ErrorIs(t, err, valuation.ErrUndefinedMetric)

	_, err = valuation.CAGR(1, 2, 0)
	assert.ErrorIs(t, err, valuation.ErrUndefinedMetric)

	var stage *valuation.StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, valuation.StageCAGR, stage.Stage)
}

func TestFiveYearCAGR(t *testing.T) {
	// 2019..2025, window is 2021..2025
	aggs := annual(0.5, 0.9, 1.0, 1.1, 1.2, 1.3, 1.2763)

	rate, err := valuation.FiveYearCAGR(aggs, 2025)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, rate, 1e-4)
}

func TestFiveYearCAGR_ShortHistory(t *testing.T) {
	aggs := annual(1, 2, 3, 4) // 2019..2022

	_, err := valuation.FiveYearCAGR(aggs, 2022)
	assert.ErrorIs(t, err, valuation.ErrInsufficientHistory)

	_, err = valuation.FiveYearCAGR(aggs, 2030)
	assert.ErrorIs(t, err, valuation.ErrInsufficientHistory)
}
