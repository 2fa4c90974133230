package services

import "errors"

var (
	// ErrTickerNotFound means the warehouse has neither prices nor dividends for a ticker
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrNoRates means dim_benchmark lacks the risk-free rate or the expected market return
	ErrNoRates = errors.New("benchmark rates not available")
	// ErrUnknownBenchmark is returned when updating a rate the valuation does not use
	ErrUnknownBenchmark = errors.New("unknown benchmark")
	// ErrInvalidImport wraps CSV parse failures of an upload
	ErrInvalidImport = errors.New("invalid import file")
)
