package valuation

import (
	"math"

	"github.com/epeers/dividendstocks/internal/models"
)

// RequiredRate applies CAPM: rf + beta * (rm - rf).
func RequiredRate(rates models.Rates, beta float64) (float64, error) {
	rate := rates.RiskFreeRate + beta*(rates.ExpectedMarketRate-rates.RiskFreeRate)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, stageErr(StageRequiredRate, ErrUndefinedMetric, "non-finite required rate")
	}
	return rate, nil
}
