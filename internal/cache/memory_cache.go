package cache

import (
	"sync"
	"time"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/epeers/dividendstocks/internal/util"
)

// MemoryCache provides an in-memory L1 cache for per-ticker price and dividend series.
// An entry expires after the TTL or at the next market close, whichever comes first, so a
// series loaded before the close is never served after the daily load.
type MemoryCache struct {
	prices     map[string]seriesEntry[models.PricePoint]
	dividends  map[string]seriesEntry[models.DividendPoint]
	priceMu    sync.RWMutex
	dividendMu sync.RWMutex
	ttl        time.Duration
	now        func() time.Time
}

type seriesEntry[T any] struct {
	data      []T
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		prices:    make(map[string]seriesEntry[models.PricePoint]),
		dividends: make(map[string]seriesEntry[models.DividendPoint]),
		ttl:       ttl,
		now:       time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.now = now
}

func (c *MemoryCache) expiry() time.Time {
	now := c.now()
	exp := now.Add(c.ttl)
	if marketClose := util.NextMarketDate(now); marketClose.After(now) && marketClose.Before(exp) {
		exp = marketClose
	}
	return exp
}

// GetPrices retrieves a cached price series if fresh
func (c *MemoryCache) GetPrices(ticker string) ([]models.PricePoint, bool) {
	c.priceMu.RLock()
	defer c.priceMu.RUnlock()

	entry, exists := c.prices[ticker]
	if !exists || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// SetPrices caches a price series
func (c *MemoryCache) SetPrices(ticker string, data []models.PricePoint) {
	c.priceMu.Lock()
	defer c.priceMu.Unlock()

	c.prices[ticker] = seriesEntry[models.PricePoint]{data: data, expiresAt: c.expiry()}
}

// GetDividends retrieves a cached dividend series if fresh
func (c *MemoryCache) GetDividends(ticker string) ([]models.DividendPoint, bool) {
	c.dividendMu.RLock()
	defer c.dividendMu.RUnlock()

	entry, exists := c.dividends[ticker]
	if !exists || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// SetDividends caches a dividend series
func (c *MemoryCache) SetDividends(ticker string, data []models.DividendPoint) {
	c.dividendMu.Lock()
	defer c.dividendMu.Unlock()

	c.dividends[ticker] = seriesEntry[models.DividendPoint]{data: data, expiresAt: c.expiry()}
}

// Invalidate removes both series of a ticker from the cache
func (c *MemoryCache) Invalidate(ticker string) {
	c.priceMu.Lock()
	delete(c.prices, ticker)
	c.priceMu.Unlock()

	c.dividendMu.Lock()
	delete(c.dividends, ticker)
	c.dividendMu.Unlock()
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.priceMu.Lock()
	c.prices = make(map[string]seriesEntry[models.PricePoint])
	c.priceMu.Unlock()

	c.dividendMu.Lock()
	c.dividends = make(map[string]seriesEntry[models.DividendPoint])
	c.dividendMu.Unlock()
}
