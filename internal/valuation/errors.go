package valuation

import (
	"errors"
	"fmt"
)

// Per-ticker failure conditions. None of them is fatal to a run: a ticker that hits one is
// excluded from the result set and counted in the run summary.
var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrUndefinedMetric     = errors.New("undefined metric")
	ErrModelNotApplicable  = errors.New("model not applicable")
)

// Reason is the JSON-stable code an exclusion is reported under.
type Reason string

const (
	ReasonInsufficientHistory Reason = "insufficient_history"
	ReasonUndefinedMetric     Reason = "undefined_metric"
	ReasonModelNotApplicable  Reason = "model_not_applicable"
	// ReasonDataUnavailable is only produced by adapters when a collaborator fetch fails.
	ReasonDataUnavailable Reason = "data_unavailable"
	ReasonUnknown         Reason = "unknown"
)

// Stage names used in StageError
const (
	StageAggregate    = "aggregate"
	StageGrowthStreak = "growth_streak"
	StageCAGR         = "cagr"
	StageFrequency    = "frequency"
	StageLatest       = "latest"
	StageBeta         = "beta"
	StageRequiredRate = "required_rate"
	StageDDM          = "ddm"
	StageMarketRates  = "market_rates"
)

// StageError tells which calculator rejected a ticker and why. It unwraps to one of the sentinels.
type StageError struct {
	Stage  string
	Err    error
	Detail string
}

func (e *StageError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Stage, e.Err, e.Detail)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error, format string, args ...any) error {
	return &StageError{Stage: stage, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf maps an error returned by this package to its exclusion reason.
func ReasonOf(err error) Reason {
	switch {
	case errors.Is(err, ErrInsufficientHistory):
		return ReasonInsufficientHistory
	case errors.Is(err, ErrUndefinedMetric):
		return ReasonUndefinedMetric
	case errors.Is(err, ErrModelNotApplicable):
		return ReasonModelNotApplicable
	default:
		return ReasonUnknown
	}
}
