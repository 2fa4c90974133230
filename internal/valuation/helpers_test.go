package valuation_test

import (
	"math"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// quarterly pays amounts[i] four times in year first+i.
func quarterly(ticker string, first int, amounts ...float64) []models.DividendPoint {
	var out []models.DividendPoint
	for i, amt := range amounts {
		for _, m := range []time.Month{time.March, time.June, time.September, time.December} {
			out = append(out, models.DividendPoint{Ticker: ticker, Date: date(first+i, m, 15), Dividend: amt})
		}
	}
	return out
}

func annual(totals ...float64) []models.AnnualDividendAggregate {
	out := make([]models.AnnualDividendAggregate, len(totals))
	for i, t := range totals {
		out[i] = models.AnnualDividendAggregate{Ticker: "T", Year: 2019 + i, TotalDividend: t, PaymentCount: 1}
	}
	return out
}

// wave is a deterministic log-price path.
func wave(i int) float64 {
	return 0.01*math.Sin(float64(i)) + 0.004*math.Cos(float64(3*i))
}

// pricedPair returns a benchmark and a ticker whose daily log returns are exactly beta times the
// benchmark's, over days calendar days ending at asOf.
func pricedPair(ticker string, asOf time.Time, days int, beta float64) (bench, prices []models.PricePoint) {
	start := asOf.AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		bench = append(bench, models.PricePoint{Ticker: "^GSPC", Date: d, Price: 100 * math.Exp(wave(i))})
		prices = append(prices, models.PricePoint{Ticker: ticker, Date: d, Price: 50 * math.Exp(beta*wave(i))})
	}
	return bench, prices
}
