package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_ImportPricesInvalidatesCache(t *testing.T) {
	ts := newTestServices()
	ctx := context.Background()
	window := models.DateRange{Start: testAsOf.AddDate(0, 0, -10), End: testAsOf}

	before, err := ts.series.GetPriceSeries(ctx, "KO", window)
	require.NoError(t, err)
	assert.Empty(t, before)

	res, err := ts.admin.ImportPrices(ctx, strings.NewReader("ticker,date,price\nKO,2025-06-27,61.2\nKO,2025-06-30,61.9\nPEP,2025-06-30,140\n"))
	require.NoError(t, err)
	assert.Equal(t, models.ImportResult{RowsParsed: 3, RowsStored: 3, Tickers: 2}, *res)

	after, err := ts.series.GetPriceSeries(ctx, "KO", window)
	require.NoError(t, err)
	assert.Len(t, after, 2, "cached empty series was invalidated by the import")
}

func TestAdminService_ImportDividends(t *testing.T) {
	ts := newTestServices()

	res, err := ts.admin.ImportDividends(context.Background(), strings.NewReader("ticker,date,dividend\nKO,2025-04-01,0.51\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsStored)
	assert.Len(t, ts.store.dividends["KO"], 1)
}

func TestAdminService_ImportInvalidFile(t *testing.T) {
	ts := newTestServices()

	_, err := ts.admin.ImportPrices(context.Background(), strings.NewReader("ticker,close\nKO,1\n"))
	assert.ErrorIs(t, err, services.ErrInvalidImport)

	_, err = ts.admin.ImportCompanies(context.Background(), strings.NewReader("name\nCoca-Cola\n"))
	assert.ErrorIs(t, err, services.ErrInvalidImport)
}

func TestAdminService_ImportCompanies(t *testing.T) {
	ts := newTestServices()

	res, err := ts.admin.ImportCompanies(context.Background(), strings.NewReader("ticker,name\nKO,Coca-Cola\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsStored)
	assert.Equal(t, "Coca-Cola", ts.store.companies[0].Name)
}
