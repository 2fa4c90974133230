package handlers

import (
	"net/http"

	"github.com/epeers/dividendstocks/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every API route on router. Admin routes require the X-Admin-Key header.
func RegisterRoutes(router *gin.Engine, valuationH *ValuationHandler, metadataH *MetadataHandler, adminH *AdminHandler, adminKey string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/valuations", valuationH.List)
	router.GET("/valuations/:ticker", valuationH.Get)
	router.GET("/dividends/metadata", metadataH.List)
	router.GET("/benchmarks", metadataH.Benchmarks)

	admin := router.Group("/admin", middleware.RequireAdmin(adminKey))
	admin.POST("/refresh", adminH.Refresh)
	admin.POST("/import/prices", adminH.ImportPrices)
	admin.POST("/import/dividends", adminH.ImportDividends)
	admin.POST("/import/companies", adminH.ImportCompanies)
	admin.PUT("/benchmarks/:name", adminH.UpdateBenchmark)
}
