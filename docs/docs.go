// Package docs registers the OpenAPI document served under /swagger/*any.
// It mirrors the @ annotations on the handlers and is maintained by hand alongside them.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/benchmarks/{name}": {
            "put": {
                "security": [{"AdminKey": []}],
                "description": "Sets \"risk-free rate\" or \"expected market return\" by hand",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Override a benchmark rate",
                "parameters": [
                    {"type": "string", "description": "Benchmark name", "name": "name", "in": "path", "required": true},
                    {"description": "New value as a decimal fraction", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateBenchmarkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BenchmarkRate"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/admin/import/companies": {
            "post": {
                "security": [{"AdminKey": []}],
                "description": "Upserts a CSV with columns ticker,name,sector,industry into dim_company",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Import companies",
                "parameters": [
                    {"type": "file", "description": "CSV file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ImportResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/admin/import/dividends": {
            "post": {
                "security": [{"AdminKey": []}],
                "description": "Upserts a CSV with columns ticker,date,dividend into fact_dividend",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Import dividend payments",
                "parameters": [
                    {"type": "file", "description": "CSV file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ImportResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/admin/import/prices": {
            "post": {
                "security": [{"AdminKey": []}],
                "description": "Upserts a CSV with columns ticker,date,price into fact_price. Index series (^GSPC, ^TNX) are imported the same way.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Import daily closes",
                "parameters": [
                    {"type": "file", "description": "CSV file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ImportResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/admin/refresh": {
            "post": {
                "security": [{"AdminKey": []}],
                "description": "Rebuilds dividend_metadata from fact_dividend and derives the benchmark rates from the index series",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Recompute dividend metadata and benchmark rates",
                "parameters": [
                    {"description": "Optional as_of date", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/models.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RefreshResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/benchmarks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["benchmarks"],
                "summary": "Current benchmark rates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BenchmarksResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/dividends/metadata": {
            "get": {
                "description": "Consistent dividend payers from the last refresh, with growth streak, five-year CAGR and payment frequency",
                "produces": ["application/json"],
                "tags": ["dividends"],
                "summary": "List dividend metadata",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MetadataListResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/valuations": {
            "get": {
                "description": "Runs the dividend discount model for every ticker with dividend history. Tickers that cannot be valued are listed in the summary.",
                "produces": ["application/json"],
                "tags": ["valuations"],
                "summary": "Value every consistent dividend payer",
                "parameters": [
                    {"type": "string", "description": "Valuation date (YYYY-MM-DD), defaults to today", "name": "as_of", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ValuationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/valuations/{ticker}": {
            "get": {
                "description": "Runs the dividend discount model for a single ticker. A ticker that cannot be valued returns 422 with the reason.",
                "produces": ["application/json"],
                "tags": ["valuations"],
                "summary": "Value one ticker",
                "parameters": [
                    {"type": "string", "description": "Ticker symbol", "name": "ticker", "in": "path", "required": true},
                    {"type": "string", "description": "Valuation date (YYYY-MM-DD), defaults to today", "name": "as_of", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TickerValuationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ExcludedTickerResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.BenchmarkRate": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "updated_at": {"type": "string"},
                "value": {"type": "number"}
            }
        },
        "models.BenchmarksResponse": {
            "type": "object",
            "properties": {
                "benchmarks": {"type": "array", "items": {"$ref": "#/definitions/models.BenchmarkRate"}},
                "rates": {"$ref": "#/definitions/models.Rates"}
            }
        },
        "models.DividendMetadata": {
            "type": "object",
            "properties": {
                "consecutiveYears": {"type": "integer"},
                "dividendFrequency": {"type": "integer"},
                "fiveYearCAGR": {"type": "number"},
                "ticker": {"type": "string"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.ExcludedTickerResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "exclusion": {"$ref": "#/definitions/models.Exclusion"}
            }
        },
        "models.Exclusion": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "reason": {"type": "string"},
                "ticker": {"type": "string"}
            }
        },
        "models.HistoryPoint": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "dividend": {"type": "number"},
                "price": {"type": "number"}
            }
        },
        "models.ImportResult": {
            "type": "object",
            "properties": {
                "rows_parsed": {"type": "integer"},
                "rows_stored": {"type": "integer"},
                "tickers": {"type": "integer"}
            }
        },
        "models.MetadataListResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "metadata": {"type": "array", "items": {"$ref": "#/definitions/models.DividendMetadata"}}
            }
        },
        "models.Rates": {
            "type": "object",
            "properties": {
                "expectedMarketRate": {"type": "number"},
                "riskFreeRate": {"type": "number"}
            }
        },
        "models.RefreshRequest": {
            "type": "object",
            "properties": {
                "as_of": {"type": "string"}
            }
        },
        "models.RefreshResult": {
            "type": "object",
            "properties": {
                "asOf": {"type": "string"},
                "benchmarks": {"$ref": "#/definitions/models.Rates"},
                "evaluated": {"type": "integer"},
                "qualified": {"type": "integer"},
                "referenceYear": {"type": "integer"},
                "runId": {"type": "string"},
                "summary": {"$ref": "#/definitions/models.RunSummary"},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/models.Warning"}}
            }
        },
        "models.RunSummary": {
            "type": "object",
            "properties": {
                "evaluated": {"type": "integer"},
                "excluded": {"type": "integer"},
                "excludedByReason": {"type": "object", "additionalProperties": {"type": "integer"}},
                "exclusions": {"type": "array", "items": {"$ref": "#/definitions/models.Exclusion"}},
                "notQualified": {"type": "integer"},
                "qualified": {"type": "integer"},
                "valued": {"type": "integer"}
            }
        },
        "models.TickerValuationResponse": {
            "type": "object",
            "properties": {
                "asOf": {"type": "string"},
                "benchmarks": {"$ref": "#/definitions/models.Rates"},
                "runId": {"type": "string"},
                "valuation": {"$ref": "#/definitions/models.ValuationRecord"}
            }
        },
        "models.UpdateBenchmarkRequest": {
            "type": "object",
            "required": ["value"],
            "properties": {
                "value": {"type": "number"}
            }
        },
        "models.ValuationRecord": {
            "type": "object",
            "properties": {
                "beta": {"type": "number"},
                "consecutiveYears": {"type": "integer"},
                "dividendFrequency": {"type": "integer"},
                "dividendHistory": {"type": "array", "items": {"$ref": "#/definitions/models.HistoryPoint"}},
                "fiveYearCAGR": {"type": "number"},
                "forwardDividend": {"type": "number"},
                "industry": {"type": "string"},
                "lastDividend": {"type": "number"},
                "lastPrice": {"type": "number"},
                "name": {"type": "string"},
                "pctChange": {"type": "number"},
                "priceHistory": {"type": "array", "items": {"$ref": "#/definitions/models.HistoryPoint"}},
                "requiredRate": {"type": "number"},
                "sector": {"type": "string"},
                "ticker": {"type": "string"},
                "valuation": {"type": "number"}
            }
        },
        "models.ValuationResponse": {
            "type": "object",
            "properties": {
                "asOf": {"type": "string"},
                "benchmarks": {"$ref": "#/definitions/models.Rates"},
                "lastUpdated": {"type": "string"},
                "runId": {"type": "string"},
                "summary": {"$ref": "#/definitions/models.RunSummary"},
                "valuations": {"type": "array", "items": {"$ref": "#/definitions/models.ValuationRecord"}},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/models.Warning"}}
            }
        },
        "models.Warning": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "AdminKey": {
            "type": "apiKey",
            "name": "X-Admin-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Dividend Stocks API",
	Description:      "Dividend discount model valuations for consistent dividend payers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
