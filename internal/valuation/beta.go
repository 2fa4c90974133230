package valuation

import (
	"math"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
)

const (
	// BetaWindowDays is the trailing window returns are measured over (five 365-day years).
	BetaWindowDays = 365 * 5
	// MinBetaObservations is the default minimum number of aligned daily returns for a beta.
	MinBetaObservations = 20
	// minBenchmarkVariance guards against dividing by a numerically zero variance.
	minBenchmarkVariance = 1e-12
)

// DatedReturn is a daily log return, ln(price[t] / price[t-1]), stamped with t.
type DatedReturn struct {
	Date   time.Time
	Return float64
}

// TrailingWindow keeps the points dated within days before asOf, asOf included, ordered by date.
func TrailingWindow(points []models.PricePoint, asOf time.Time, days int) []models.PricePoint {
	window := models.DateRange{Start: dayOf(asOf).AddDate(0, 0, -days), End: dayOf(asOf)}
	var out []models.PricePoint
	for _, p := range sortedPrices(points) {
		if window.Contains(dayOf(p.Date)) {
			out = append(out, p)
		}
	}
	return out
}

// LogReturns converts an ordered price series to log returns. The first observation has no
// predecessor and yields nothing; pairs with a non-positive price are skipped.
func LogReturns(points []models.PricePoint) []DatedReturn {
	if len(points) < 2 {
		return nil
	}
	out := make([]DatedReturn, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].Price, points[i].Price
		if prev <= 0 || cur <= 0 {
			continue
		}
		out = append(out, DatedReturn{Date: points[i].Date, Return: math.Log(cur / prev)})
	}
	return out
}

// AlignReturns inner-joins two return series on calendar date, keeping the order of a.
func AlignReturns(a, b []DatedReturn) (x, y []float64) {
	byDate := make(map[time.Time]float64, len(b))
	for _, r := range b {
		byDate[dayOf(r.Date)] = r.Return
	}
	for _, r := range a {
		if other, ok := byDate[dayOf(r.Date)]; ok {
			x = append(x, r.Return)
			y = append(y, other)
		}
	}
	return x, y
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PopulationCovariance divides by N, not N-1. x and y must have the same non-zero length.
func PopulationCovariance(x, y []float64) float64 {
	mx, my := mean(x), mean(y)
	var sum float64
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x))
}

// PopulationVariance divides by N, not N-1.
func PopulationVariance(x []float64) float64 {
	return PopulationCovariance(x, x)
}

// BetaFromMoments returns covariance / variance.
func BetaFromMoments(covariance, variance float64) (float64, error) {
	if math.Abs(variance) < minBenchmarkVariance {
		return 0, stageErr(StageBeta, ErrUndefinedMetric, "benchmark variance %g is zero", variance)
	}
	beta := covariance / variance
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, stageErr(StageBeta, ErrUndefinedMetric, "non-finite beta")
	}
	return beta, nil
}

// BetaFromReturns estimates beta of tickerReturns against benchmarkReturns over the dates both
// series share. Fewer than minObs aligned returns is insufficient history.
func BetaFromReturns(tickerReturns, benchmarkReturns []DatedReturn, minObs int) (float64, error) {
	if minObs < 2 {
		minObs = 2
	}
	x, y := AlignReturns(tickerReturns, benchmarkReturns)
	if len(x) < minObs {
		return 0, stageErr(StageBeta, ErrInsufficientHistory, "%d aligned returns, need %d", len(x), minObs)
	}
	return BetaFromMoments(PopulationCovariance(x, y), PopulationVariance(y))
}

// Beta estimates a ticker's beta against a benchmark index over the BetaWindowDays before asOf.
func Beta(ticker, benchmark []models.PricePoint, asOf time.Time, minObs int) (float64, error) {
	tickerReturns := LogReturns(TrailingWindow(ticker, asOf, BetaWindowDays))
	benchReturns := LogReturns(TrailingWindow(benchmark, asOf, BetaWindowDays))
	return BetaFromReturns(tickerReturns, benchReturns, minObs)
}

// dayOf strips the clock so series loaded from different sources join on calendar date.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
