package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/epeers/dividendstocks/internal/csvimport"
	"github.com/epeers/dividendstocks/internal/models"
	log "github.com/sirupsen/logrus"
)

// AdminService loads CSV uploads into the warehouse
type AdminService struct {
	prices    PriceStore
	dividends DividendStore
	companies CompanyStore
	seriesSvc *SeriesService
}

// NewAdminService creates a new AdminService
func NewAdminService(prices PriceStore, dividends DividendStore, companies CompanyStore, seriesSvc *SeriesService) *AdminService {
	return &AdminService{
		prices:    prices,
		dividends: dividends,
		companies: companies,
		seriesSvc: seriesSvc,
	}
}

func distinct(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	var out []string
	for _, t := range tickers {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// ImportPrices parses a ticker,date,price CSV and upserts it into fact_price
func (s *AdminService) ImportPrices(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	defer TrackTime("AdminService.ImportPrices", time.Now())

	prices, err := csvimport.ParsePrices(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := s.prices.StorePrices(ctx, prices); err != nil {
		return nil, fmt.Errorf("failed to store prices: %w", err)
	}

	tickers := make([]string, len(prices))
	for i, p := range prices {
		tickers[i] = p.Ticker
	}
	tickers = distinct(tickers)
	s.seriesSvc.Invalidate(tickers...)

	log.Infof("imported %d prices for %d tickers", len(prices), len(tickers))
	return &models.ImportResult{RowsParsed: len(prices), RowsStored: len(prices), Tickers: len(tickers)}, nil
}

// ImportDividends parses a ticker,date,dividend CSV and upserts it into fact_dividend
func (s *AdminService) ImportDividends(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	defer TrackTime("AdminService.ImportDividends", time.Now())

	dividends, err := csvimport.ParseDividends(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := s.dividends.StoreDividends(ctx, dividends); err != nil {
		return nil, fmt.Errorf("failed to store dividends: %w", err)
	}

	tickers := make([]string, len(dividends))
	for i, d := range dividends {
		tickers[i] = d.Ticker
	}
	tickers = distinct(tickers)
	s.seriesSvc.Invalidate(tickers...)

	log.Infof("imported %d dividends for %d tickers", len(dividends), len(tickers))
	return &models.ImportResult{RowsParsed: len(dividends), RowsStored: len(dividends), Tickers: len(tickers)}, nil
}

// ImportCompanies parses a company CSV and upserts it into dim_company
func (s *AdminService) ImportCompanies(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	companies, err := csvimport.ParseCompanies(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := s.companies.StoreCompanies(ctx, companies); err != nil {
		return nil, fmt.Errorf("failed to store companies: %w", err)
	}
	return &models.ImportResult{RowsParsed: len(companies), RowsStored: len(companies), Tickers: len(companies)}, nil
}
