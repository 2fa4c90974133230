package valuation

import (
	"time"

	"github.com/epeers/dividendstocks/internal/models"
)

// LastPrice returns the price of the latest point dated on or before asOf.
func LastPrice(points []models.PricePoint, asOf time.Time) (float64, error) {
	cutoff := dayOf(asOf)
	var (
		last  float64
		found bool
	)
	for _, p := range sortedPrices(points) {
		if dayOf(p.Date).After(cutoff) {
			break
		}
		last, found = p.Price, true
	}
	if !found {
		return 0, stageErr(StageLatest, ErrInsufficientHistory, "no price on or before %s", cutoff.Format("2006-01-02"))
	}
	return last, nil
}

// LastDividend returns the latest strictly positive dividend dated on or before asOf.
func LastDividend(points []models.DividendPoint, asOf time.Time) (float64, error) {
	cutoff := dayOf(asOf)
	var (
		last  float64
		found bool
	)
	for _, d := range sortedDividends(points) {
		if dayOf(d.Date).After(cutoff) {
			break
		}
		if d.Dividend > 0 {
			last, found = d.Dividend, true
		}
	}
	if !found {
		return 0, stageErr(StageLatest, ErrInsufficientHistory, "no dividend on or before %s", cutoff.Format("2006-01-02"))
	}
	return last, nil
}
