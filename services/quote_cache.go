package services

import (
	"sync"
	"time"

	"eclipse-tracker/interfaces"
)

// ManualSource marks quotes entered by hand rather than fetched from a
// provider
const ManualSource = "manual"

// QuoteCache holds the latest quote per ticker. Writes are last-wins; the
// cache never holds more than one quote for a ticker. It is owned by the
// caller and passed explicitly wherever quotes are joined with positions.
type QuoteCache struct {
	mu     sync.RWMutex
	quotes map[string]*interfaces.Quote
}

// NewQuoteCache creates an empty quote cache
func NewQuoteCache() *QuoteCache {
	return &QuoteCache{
		quotes: make(map[string]*interfaces.Quote),
	}
}

// Set stores the quote for its ticker, replacing any previous snapshot
func (c *QuoteCache) Set(quote *interfaces.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[quote.Ticker] = quote
}

// Get returns the cached quote for ticker, or nil if none is held
func (c *QuoteCache) Get(ticker string) *interfaces.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quotes[ticker]
}

// All returns a snapshot copy of the cache keyed by ticker
func (c *QuoteCache) All() map[string]*interfaces.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()

	quotes := make(map[string]*interfaces.Quote, len(c.quotes))
	for ticker, quote := range c.quotes {
		quotes[ticker] = quote
	}
	return quotes
}

// SetManual synthesizes a quote from a hand-entered price and caches it. All
// OHLC fields carry the entered price and the day change is zero; the quote
// persists until overwritten by a fetch or another manual entry.
func (c *QuoteCache) SetManual(ticker string, price float64) *interfaces.Quote {
	now := time.Now()
	quote := &interfaces.Quote{
		Ticker:        ticker,
		Current:       price,
		PreviousClose: price,
		Open:          price,
		High:          price,
		Low:           price,
		Timestamp:     now.Unix(),
		LastFetched:   now.UnixMilli(),
		Source:        ManualSource,
	}
	c.Set(quote)
	return quote
}
