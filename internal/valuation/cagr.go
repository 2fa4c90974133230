package valuation

import (
	"math"

	"github.com/epeers/dividendstocks/internal/models"
)

// CAGRWindow is the number of annual totals the dividend growth rate is measured over,
// the reference year and the four before it.
const CAGRWindow = 5

// CAGR returns (last/first)^(1/periods) - 1.
func CAGR(first, last float64, periods int) (float64, error) {
	if periods <= 0 {
		return 0, stageErr(StageCAGR, ErrUndefinedMetric, "periods must be positive, got %d", periods)
	}
	if first == 0 {
		return 0, stageErr(StageCAGR, ErrInsufficientHistory, "first value of the window is zero")
	}
	ratio := last / first
	if ratio < 0 {
		return 0, stageErr(StageCAGR, ErrUndefinedMetric, "negative growth ratio %g", ratio)
	}
	rate := math.Pow(ratio, 1/float64(periods)) - 1
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, stageErr(StageCAGR, ErrUndefinedMetric, "non-finite CAGR")
	}
	return rate, nil
}

// FiveYearCAGR measures dividend growth over the CAGRWindow aggregates ending at referenceYear.
// The window is positional like the growth streak, and the exponent is 1/CAGRWindow.
func FiveYearCAGR(aggs []models.AnnualDividendAggregate, referenceYear int) (float64, error) {
	end := indexOfYear(aggs, referenceYear)
	if end < 0 {
		return 0, stageErr(StageCAGR, ErrInsufficientHistory, "no dividends in %d", referenceYear)
	}
	start := end - (CAGRWindow - 1)
	if start < 0 {
		return 0, stageErr(StageCAGR, ErrInsufficientHistory, "%d annual totals, need %d", end+1, CAGRWindow)
	}
	return CAGR(aggs[start].TotalDividend, aggs[end].TotalDividend, CAGRWindow)
}
