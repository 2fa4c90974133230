package handlers

import (
	"context"
	"net/http"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/gin-gonic/gin"
)

// MetadataReader is the read side of services.MetadataService
type MetadataReader interface {
	List(ctx context.Context) (*models.MetadataListResponse, error)
	Benchmarks(ctx context.Context) (*models.BenchmarksResponse, error)
}

// MetadataHandler serves the persisted dividend metadata and benchmark rates
type MetadataHandler struct {
	metadataSvc MetadataReader
}

// NewMetadataHandler creates a new MetadataHandler
func NewMetadataHandler(metadataSvc MetadataReader) *MetadataHandler {
	return &MetadataHandler{metadataSvc: metadataSvc}
}

// List handles GET /dividends/metadata
// @Summary List dividend metadata
// @Description Consistent dividend payers from the last refresh, with growth streak, five-year CAGR and payment frequency
// @Tags dividends
// @Produce json
// @Success 200 {object} models.MetadataListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /dividends/metadata [get]
func (h *MetadataHandler) List(c *gin.Context) {
	resp, err := h.metadataSvc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Benchmarks handles GET /benchmarks
// @Summary Current benchmark rates
// @Tags benchmarks
// @Produce json
// @Success 200 {object} models.BenchmarksResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /benchmarks [get]
func (h *MetadataHandler) Benchmarks(c *gin.Context) {
	resp, err := h.metadataSvc.Benchmarks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}
