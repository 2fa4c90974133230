package services

import (
	"context"
	"sync"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/valuation"
)

type warningContextKey struct{}

// WarningCollector accumulates warnings during a service call chain.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
}

// NewWarningContext returns a context carrying a fresh WarningCollector,
// plus a reference to the collector so the handler can retrieve warnings later.
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{}
	return context.WithValue(ctx, warningContextKey{}, wc), wc
}

// AddWarning appends a warning to the collector in ctx.
// If ctx has no collector, the call is a no-op.
func AddWarning(ctx context.Context, w models.Warning) {
	wc, ok := ctx.Value(warningContextKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, w)
}

// GetWarnings returns all collected warnings.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.warnings
}

// warningCode maps an exclusion reason to the warning code it is reported under.
func warningCode(r valuation.Reason) models.WarningCode {
	switch r {
	case valuation.ReasonInsufficientHistory:
		return models.WarnInsufficientHistory
	case valuation.ReasonModelNotApplicable:
		return models.WarnModelNotApplicable
	case valuation.ReasonDataUnavailable:
		return models.WarnDataUnavailable
	default:
		return models.WarnUndefinedMetric
	}
}

// addExclusionWarnings reports every excluded ticker of a run on ctx.
func addExclusionWarnings(ctx context.Context, res valuation.Result) {
	for _, ex := range res.Summary.Exclusions {
		AddWarning(ctx, models.Warning{
			Code:    warningCode(valuation.Reason(ex.Reason)),
			Message: ex.Ticker + ": " + ex.Message,
		})
	}
}
