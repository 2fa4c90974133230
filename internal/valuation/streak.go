package valuation

import "github.com/epeers/dividendstocks/internal/models"

// MinConsecutiveGrowthYears is the consistent-payer threshold: a ticker needs at least this many
// consecutive years of dividend increases at the reference year to be valued.
const MinConsecutiveGrowthYears = 5

// GrowthStreaks returns, for every aggregate, the length of the run of year-over-year increases
// ending at that position. Comparisons are by position, not calendar year: a missing year does not
// insert a zero, the next present year is compared with the previous present one.
// The first year has nothing to compare against and always scores 0.
func GrowthStreaks(aggs []models.AnnualDividendAggregate) []int {
	streaks := make([]int, len(aggs))
	for i := 1; i < len(aggs); i++ {
		increase := aggs[i].TotalDividend - aggs[i-1].TotalDividend
		if increase > 0 {
			streaks[i] = streaks[i-1] + 1
		}
	}
	return streaks
}

// CurrentStreak returns the growth streak at referenceYear. A ticker without an aggregate for
// that year has no current streak and scores 0.
func CurrentStreak(aggs []models.AnnualDividendAggregate, referenceYear int) int {
	idx := indexOfYear(aggs, referenceYear)
	if idx < 0 {
		return 0
	}
	return GrowthStreaks(aggs)[idx]
}

// IsConsistentPayer applies the MinConsecutiveGrowthYears policy.
func IsConsistentPayer(streak int) bool {
	return streak >= MinConsecutiveGrowthYears
}
