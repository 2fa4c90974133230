package models

// ValuationsRequest holds the query parameters of GET /valuations
type ValuationsRequest struct {
	AsOf FlexibleDate `form:"as_of"`
}

// RefreshRequest represents the request body for POST /admin/refresh
type RefreshRequest struct {
	AsOf FlexibleDate `json:"as_of"`
}

// UpdateBenchmarkRequest represents the request body for PUT /admin/benchmarks/:name
type UpdateBenchmarkRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

// TickerValuationResponse is the body of GET /valuations/:ticker
type TickerValuationResponse struct {
	RunID      string          `json:"runId"`
	AsOf       string          `json:"asOf"`
	Benchmarks Rates           `json:"benchmarks"`
	Valuation  ValuationRecord `json:"valuation"`
}

// ExcludedTickerResponse is returned when a single ticker could not be valued
type ExcludedTickerResponse struct {
	Error     string    `json:"error"`
	Exclusion Exclusion `json:"exclusion"`
}

// MetadataListResponse is the body of GET /dividends/metadata
type MetadataListResponse struct {
	Count    int                `json:"count"`
	Metadata []DividendMetadata `json:"metadata"`
}

// BenchmarksResponse is the body of GET /benchmarks
type BenchmarksResponse struct {
	Rates      Rates           `json:"rates"`
	Benchmarks []BenchmarkRate `json:"benchmarks"`
}

// ImportResult reports the outcome of a CSV import
type ImportResult struct {
	RowsParsed int `json:"rows_parsed"`
	RowsStored int `json:"rows_stored"`
	Tickers    int `json:"tickers"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
