package valuation

import (
	"sort"

	"github.com/epeers/dividendstocks/internal/models"
)

// AggregateAnnual sums one ticker's dividends per calendar year and counts the strictly positive
// payments. The result is ordered by year ascending; years without any point are absent.
func AggregateAnnual(dividends []models.DividendPoint) []models.AnnualDividendAggregate {
	byYear := make(map[int]*models.AnnualDividendAggregate)
	for _, d := range dividends {
		year := d.Date.Year()
		agg, ok := byYear[year]
		if !ok {
			agg = &models.AnnualDividendAggregate{Ticker: d.Ticker, Year: year}
			byYear[year] = agg
		}
		agg.TotalDividend += d.Dividend
		if d.Dividend > 0 {
			agg.PaymentCount++
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]models.AnnualDividendAggregate, len(years))
	for i, y := range years {
		out[i] = *byYear[y]
	}
	return out
}

// sortedDividends returns a copy of points ordered by date. Sums over a year are order sensitive in
// floating point, so every caller goes through here to keep runs byte-identical.
func sortedDividends(points []models.DividendPoint) []models.DividendPoint {
	out := make([]models.DividendPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func sortedPrices(points []models.PricePoint) []models.PricePoint {
	out := make([]models.PricePoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// indexOfYear returns the position of year in aggs, or -1.
func indexOfYear(aggs []models.AnnualDividendAggregate, year int) int {
	for i := range aggs {
		if aggs[i].Year == year {
			return i
		}
	}
	return -1
}
