package models

// WarningCode categorizes warnings by subsystem.
// W1xxx = valuation exclusions, W2xxx = data collaborators.
type WarningCode string

const (
	WarnInsufficientHistory WarningCode = "W1001" // not enough dividend or price history for a calculator
	WarnUndefinedMetric     WarningCode = "W1002" // zero variance, zero denominator or non-finite result
	WarnModelNotApplicable  WarningCode = "W1003" // required rate <= dividend growth
	WarnDataUnavailable     WarningCode = "W2001" // series fetch failed for one ticker
	WarnRatesStale          WarningCode = "W2002" // benchmark rate missing from the index series, kept previous value
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
