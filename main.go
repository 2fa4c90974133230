// @title Dividend Stocks API
// @version 1.0
// @description Dividend discount model valuations for consistent dividend payers.
// @BasePath /
// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/dividendstocks/config"
	_ "github.com/epeers/dividendstocks/docs"
	"github.com/epeers/dividendstocks/internal/cache"
	"github.com/epeers/dividendstocks/internal/database"
	"github.com/epeers/dividendstocks/internal/handlers"
	"github.com/epeers/dividendstocks/internal/middleware"
	"github.com/epeers/dividendstocks/internal/repository"
	"github.com/epeers/dividendstocks/internal/scheduler"
	"github.com/epeers/dividendstocks/internal/services"
	"github.com/epeers/dividendstocks/internal/util"
	"github.com/epeers/dividendstocks/internal/valuation"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	// Create context for initialization
	ctx := context.Background()

	// Initialize database connection
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize caches
	memCache := cache.NewMemoryCache(cfg.SeriesCacheTTL)

	// Initialize repositories
	priceRepo := repository.NewPriceRepository(db.Pool)
	dividendRepo := repository.NewDividendRepository(db.Pool)
	benchmarkRepo := repository.NewBenchmarkRepository(db.Pool)
	metadataRepo := repository.NewMetadataRepository(db.Pool)
	companyRepo := repository.NewCompanyRepository(db.Pool)

	// Initialize services
	pipeline := valuation.NewPipeline(valuation.Options{Workers: cfg.ValuationWorkers})
	seriesSvc := services.NewSeriesService(priceRepo, dividendRepo, benchmarkRepo, memCache)
	valuationSvc := services.NewValuationService(seriesSvc, pipeline, cfg.BenchmarkIndex, cfg.ValuationWorkers).
		WithCompanies(companyRepo)
	metadataSvc := services.NewMetadataService(seriesSvc, metadataRepo, benchmarkRepo, pipeline,
		cfg.BenchmarkIndex, cfg.RiskFreeIndex, cfg.ValuationWorkers)
	adminSvc := services.NewAdminService(priceRepo, dividendRepo, companyRepo, seriesSvc)

	// Initialize handlers
	valuationHandler := handlers.NewValuationHandler(valuationSvc)
	metadataHandler := handlers.NewMetadataHandler(metadataSvc)
	adminHandler := handlers.NewAdminHandler(adminSvc, metadataSvc)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	handlers.RegisterRoutes(router, valuationHandler, metadataHandler, adminHandler, cfg.AdminKey)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.AdminKey == "" {
		log.Warn("ADMIN_KEY is not set, admin routes are disabled")
	}

	// Schedule the metadata refresh
	sched := scheduler.New()
	if cfg.RefreshSchedule != "" {
		err := sched.RegisterJob("metadata-refresh", cfg.RefreshSchedule, func(ctx context.Context) error {
			result, err := metadataSvc.Refresh(ctx, util.MarketDay(time.Now()))
			if err != nil {
				return err
			}
			log.Infof("metadata refresh %s: %d of %d tickers qualified", result.RunID, result.Qualified, result.Evaluated)
			return nil
		})
		if err != nil {
			log.Fatalf("Failed to schedule metadata refresh: %v", err)
		}
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.AdminKeyHeader},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests and a running refresh 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warnf("Scheduler did not stop cleanly: %v", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
