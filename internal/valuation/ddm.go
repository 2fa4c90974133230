package valuation

import "math"

// DDMInput holds the Gordon growth model inputs for one ticker
type DDMInput struct {
	LastDividend      float64
	DividendFrequency int
	RequiredRate      float64
	DividendGrowth    float64
	LastPrice         float64
}

// DDMResult is the model output
type DDMResult struct {
	ForwardDividend float64
	FairValue       float64
	PctChange       float64
}

// GordonGrowth values a dividend stream as forwardDividend / (requiredRate - growth) and compares it
// with the market price. The model only applies while the required rate exceeds growth; otherwise
// the arithmetic yields an infinite or negative "fair value" and ErrModelNotApplicable is returned.
func GordonGrowth(in DDMInput) (DDMResult, error) {
	if in.DividendFrequency < 1 {
		return DDMResult{}, stageErr(StageDDM, ErrUndefinedMetric, "dividend frequency %d", in.DividendFrequency)
	}
	if in.LastPrice <= 0 {
		return DDMResult{}, stageErr(StageDDM, ErrUndefinedMetric, "last price %g", in.LastPrice)
	}
	if in.RequiredRate <= in.DividendGrowth {
		return DDMResult{}, stageErr(StageDDM, ErrModelNotApplicable,
			"required rate %.6f <= dividend growth %.6f", in.RequiredRate, in.DividendGrowth)
	}

	forward := in.LastDividend * float64(in.DividendFrequency)
	fair := forward / (in.RequiredRate - in.DividendGrowth)
	pct := (fair - in.LastPrice) / in.LastPrice
	if math.IsNaN(fair) || math.IsInf(fair, 0) || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return DDMResult{}, stageErr(StageDDM, ErrUndefinedMetric, "non-finite fair value")
	}

	return DDMResult{
		ForwardDividend: forward,
		FairValue:       fair,
		PctChange:       pct,
	}, nil
}
