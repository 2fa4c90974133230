package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
)

// table is a CSV reader with a case-insensitive column index built from the header row
type table struct {
	reader *csv.Reader
	colIdx map[string]int
	rowNum int // header is row 1, data starts at row 2
}

func newTable(r io.Reader, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range required {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}
	return &table{reader: reader, colIdx: colIdx, rowNum: 1}, nil
}

// next returns the next record, or nil at EOF
func (t *table) next() ([]string, error) {
	record, err := t.reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("row %d: failed to read CSV record: %w", t.rowNum+1, err)
	}
	t.rowNum++
	return record, nil
}

// col returns the trimmed value of a column, "" when it is absent from the header or the record
func (t *table) col(record []string, name string) string {
	idx, ok := t.colIdx[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (t *table) ticker(record []string) (string, error) {
	ticker := strings.ToUpper(t.col(record, "ticker"))
	if ticker == "" {
		return "", fmt.Errorf("row %d: ticker is empty", t.rowNum)
	}
	return ticker, nil
}

func (t *table) date(record []string) (time.Time, error) {
	s := t.col(record, "date")
	var d models.FlexibleDate
	if s == "" {
		return time.Time{}, fmt.Errorf("row %d: date is empty", t.rowNum)
	}
	if err := d.UnmarshalParam(s); err != nil {
		return time.Time{}, fmt.Errorf("row %d: invalid date %q", t.rowNum, s)
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), nil
}

func (t *table) float(record []string, name string) (float64, error) {
	s := t.col(record, name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid %s %q", t.rowNum, name, s)
	}
	return v, nil
}

// ParsePrices parses a price CSV with columns ticker, date, price. Extra columns are ignored.
// Any malformed row fails the whole file.
func ParsePrices(r io.Reader) ([]models.PricePoint, error) {
	t, err := newTable(r, "ticker", "date", "price")
	if err != nil {
		return nil, err
	}

	var prices []models.PricePoint
	for {
		record, err := t.next()
		if err != nil {
			return nil, err
		}
		if record == nil {
			break
		}

		ticker, err := t.ticker(record)
		if err != nil {
			return nil, err
		}
		date, err := t.date(record)
		if err != nil {
			return nil, err
		}
		price, err := t.float(record, "price")
		if err != nil {
			return nil, err
		}
		if price < 0 {
			return nil, fmt.Errorf("row %d: negative price %v", t.rowNum, price)
		}

		prices = append(prices, models.PricePoint{Ticker: ticker, Date: date, Price: price})
	}
	return prices, nil
}

// ParseDividends parses a dividend CSV with columns ticker, date, dividend. Zero dividends are kept,
// they are ignored by the payment count but still belong to the annual total.
func ParseDividends(r io.Reader) ([]models.DividendPoint, error) {
	t, err := newTable(r, "ticker", "date", "dividend")
	if err != nil {
		return nil, err
	}

	var dividends []models.DividendPoint
	for {
		record, err := t.next()
		if err != nil {
			return nil, err
		}
		if record == nil {
			break
		}

		ticker, err := t.ticker(record)
		if err != nil {
			return nil, err
		}
		date, err := t.date(record)
		if err != nil {
			return nil, err
		}
		amount, err := t.float(record, "dividend")
		if err != nil {
			return nil, err
		}
		if amount < 0 {
			return nil, fmt.Errorf("row %d: negative dividend %v", t.rowNum, amount)
		}

		dividends = append(dividends, models.DividendPoint{Ticker: ticker, Date: date, Dividend: amount})
	}
	return dividends, nil
}

// ParseCompanies parses a company CSV. Required column: ticker.
// Optional columns: name, sector, industry (missing columns default to "").
// Rows with an empty ticker are skipped.
func ParseCompanies(r io.Reader) ([]models.Company, error) {
	t, err := newTable(r, "ticker")
	if err != nil {
		return nil, err
	}

	var companies []models.Company
	for {
		record, err := t.next()
		if err != nil {
			return nil, err
		}
		if record == nil {
			break
		}

		ticker := strings.ToUpper(t.col(record, "ticker"))
		if ticker == "" {
			continue
		}
		companies = append(companies, models.Company{
			Ticker:   ticker,
			Name:     t.col(record, "name"),
			Sector:   t.col(record, "sector"),
			Industry: t.col(record, "industry"),
		})
	}
	return companies, nil
}
