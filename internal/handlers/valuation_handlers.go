package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/services"
	"github.com/epeers/dividendstocks/internal/util"
	"github.com/gin-gonic/gin"
)

// Valuator is the part of services.ValuationService the handlers use
type Valuator interface {
	Valuate(ctx context.Context, asOf time.Time) (*models.ValuationResponse, error)
	ValuateTicker(ctx context.Context, ticker string, asOf time.Time) (*models.TickerValuationResponse, *models.Exclusion, error)
}

// ValuationHandler handles valuation endpoints
type ValuationHandler struct {
	valuationSvc Valuator
	now          func() time.Time
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(valuationSvc Valuator) *ValuationHandler {
	return &ValuationHandler{
		valuationSvc: valuationSvc,
		now:          time.Now,
	}
}

// asOf binds the optional as_of query parameter, defaulting to today in New York
func (h *ValuationHandler) asOf(c *gin.Context) (time.Time, bool) {
	var req models.ValuationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "as_of must be in YYYY-MM-DD format",
		})
		return time.Time{}, false
	}
	return req.AsOf.OrDefault(util.MarketDay(h.now())), true
}

// valuationError maps service errors to a status code
func valuationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTickerNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrNoRates):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "rates_unavailable",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

// List handles GET /valuations
// @Summary Value every consistent dividend payer
// @Description Runs the dividend discount model for every ticker with dividend history. Tickers that cannot be valued are listed in the summary.
// @Tags valuations
// @Produce json
// @Param as_of query string false "Valuation date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.ValuationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /valuations [get]
func (h *ValuationHandler) List(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.valuationSvc.Valuate(ctx, asOf)
	if err != nil {
		valuationError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /valuations/:ticker
// @Summary Value one ticker
// @Description Runs the dividend discount model for a single ticker. A ticker that cannot be valued returns 422 with the reason.
// @Tags valuations
// @Produce json
// @Param ticker path string true "Ticker symbol"
// @Param as_of query string false "Valuation date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.TickerValuationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ExcludedTickerResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /valuations/{ticker} [get]
func (h *ValuationHandler) Get(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	resp, excl, err := h.valuationSvc.ValuateTicker(c.Request.Context(), c.Param("ticker"), asOf)
	if err != nil {
		valuationError(c, err)
		return
	}
	if excl != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ExcludedTickerResponse{
			Error:     "not_valued",
			Exclusion: *excl,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
