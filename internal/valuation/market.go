package valuation

import (
	"time"

	"github.com/epeers/dividendstocks/internal/models"
)

// MarketRateYears is the span the expected market return is annualized over.
const MarketRateYears = 5

// MarketRates derives the benchmark rates from index series: the expected market return is the
// benchmark's five-year price CAGR, the risk-free rate is the latest treasury yield quoted in percent.
func MarketRates(benchmark, riskFree []models.PricePoint, asOf time.Time) (models.Rates, error) {
	window := TrailingWindow(benchmark, asOf, 365*MarketRateYears)
	if len(window) < 2 {
		return models.Rates{}, stageErr(StageMarketRates, ErrInsufficientHistory, "%d benchmark prices in window", len(window))
	}
	market, err := CAGR(window[0].Price, window[len(window)-1].Price, MarketRateYears)
	if err != nil {
		return models.Rates{}, err
	}

	yield, err := LastPrice(riskFree, asOf)
	if err != nil {
		return models.Rates{}, stageErr(StageMarketRates, ErrInsufficientHistory, "no risk-free yield on or before %s", asOf.Format("2006-01-02"))
	}

	return models.Rates{
		RiskFreeRate:       yield / 100,
		ExpectedMarketRate: market,
	}, nil
}
