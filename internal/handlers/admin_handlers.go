package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/services"
	"github.com/epeers/dividendstocks/internal/util"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Importer is the part of services.AdminService the handlers use
type Importer interface {
	ImportPrices(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	ImportDividends(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	ImportCompanies(ctx context.Context, r io.Reader) (*models.ImportResult, error)
}

// Refresher is the write side of services.MetadataService
type Refresher interface {
	Refresh(ctx context.Context, asOf time.Time) (*models.RefreshResult, error)
	UpdateBenchmark(ctx context.Context, name string, value float64) (*models.BenchmarkRate, error)
}

// AdminHandler handles admin endpoints
type AdminHandler struct {
	adminSvc    Importer
	metadataSvc Refresher
	now         func() time.Time
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminSvc Importer, metadataSvc Refresher) *AdminHandler {
	return &AdminHandler{
		adminSvc:    adminSvc,
		metadataSvc: metadataSvc,
		now:         time.Now,
	}
}

// Refresh handles POST /admin/refresh
// @Summary Recompute dividend metadata and benchmark rates
// @Description Rebuilds dividend_metadata from fact_dividend and derives the benchmark rates from the index series
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminKey
// @Param request body models.RefreshRequest false "Optional as_of date"
// @Success 200 {object} models.RefreshResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/refresh [post]
func (h *AdminHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
			return
		}
	}
	asOf := req.AsOf.OrDefault(util.MarketDay(h.now()))

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, err := h.metadataSvc.Refresh(ctx, asOf)
	if err != nil {
		log.Errorf("metadata refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	result.Warnings = wc.GetWarnings()

	c.JSON(http.StatusOK, result)
}

// importFile runs one of the CSV importers on the multipart "file" field
func (h *AdminHandler) importFile(c *gin.Context, importFn func(context.Context, io.Reader) (*models.ImportResult, error)) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "multipart field \"file\" is required",
		})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}
	defer f.Close()

	result, err := importFn(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, services.ErrInvalidImport) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_csv",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImportPrices handles POST /admin/import/prices
// @Summary Import daily closes
// @Description Upserts a CSV with columns ticker,date,price into fact_price. Index series (^GSPC, ^TNX) are imported the same way.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security AdminKey
// @Param file formData file true "CSV file"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/import/prices [post]
func (h *AdminHandler) ImportPrices(c *gin.Context) {
	h.importFile(c, h.adminSvc.ImportPrices)
}

// ImportDividends handles POST /admin/import/dividends
// @Summary Import dividend payments
// @Description Upserts a CSV with columns ticker,date,dividend into fact_dividend
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security AdminKey
// @Param file formData file true "CSV file"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/import/dividends [post]
func (h *AdminHandler) ImportDividends(c *gin.Context) {
	h.importFile(c, h.adminSvc.ImportDividends)
}

// ImportCompanies handles POST /admin/import/companies
// @Summary Import companies
// @Description Upserts a CSV with columns ticker,name,sector,industry into dim_company
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security AdminKey
// @Param file formData file true "CSV file"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/import/companies [post]
func (h *AdminHandler) ImportCompanies(c *gin.Context) {
	h.importFile(c, h.adminSvc.ImportCompanies)
}

// UpdateBenchmark handles PUT /admin/benchmarks/:name
// @Summary Override a benchmark rate
// @Description Sets "risk-free rate" or "expected market return" by hand
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminKey
// @Param name path string true "Benchmark name"
// @Param request body models.UpdateBenchmarkRequest true "New value as a decimal fraction"
// @Success 200 {object} models.BenchmarkRate
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/benchmarks/{name} [put]
func (h *AdminHandler) UpdateBenchmark(c *gin.Context) {
	var req models.UpdateBenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	rate, err := h.metadataSvc.UpdateBenchmark(c.Request.Context(), c.Param("name"), *req.Value)
	if err != nil {
		if errors.Is(err, services.ErrUnknownBenchmark) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, rate)
}
