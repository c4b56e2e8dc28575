package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"eclipse-tracker/interfaces"
)

// QuoteRefresher fetches quote batches sequentially and stores the results
// in the cache. Requests are spaced out to stay under the provider's rate
// ceiling; a failed ticker is skipped, never fatal to the batch.
type QuoteRefresher struct {
	service interfaces.QuoteService
	cache   *QuoteCache
	delay   time.Duration
	logger  *logrus.Logger
}

// NewQuoteRefresher creates a refresher over the given provider and cache.
// The default 120ms spacing keeps Finnhub's free tier under 60 requests a
// minute with headroom.
func NewQuoteRefresher(service interfaces.QuoteService, cache *QuoteCache) *QuoteRefresher {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &QuoteRefresher{
		service: service,
		cache:   cache,
		delay:   120 * time.Millisecond,
		logger:  logger,
	}
}

// RefreshBatch fetches each unique ticker in order and caches successful
// results. It returns the quotes fetched in this batch keyed by ticker;
// failed tickers are absent from the result.
func (r *QuoteRefresher) RefreshBatch(ctx context.Context, tickers []string) map[string]*interfaces.Quote {
	quotes := make(map[string]*interfaces.Quote)

	seen := make(map[string]bool, len(tickers))
	unique := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		if !seen[ticker] {
			seen[ticker] = true
			unique = append(unique, ticker)
		}
	}

	for i, ticker := range unique {
		if i > 0 {
			select {
			case <-ctx.Done():
				return quotes
			case <-time.After(r.delay):
			}
		}

		quote, err := r.service.GetQuote(ctx, ticker)
		if err != nil {
			r.logger.WithError(err).WithField("ticker", ticker).Warn("Quote fetch failed")
			continue
		}

		r.cache.Set(quote)
		quotes[ticker] = quote
	}

	r.logger.WithFields(logrus.Fields{
		"requested": len(unique),
		"fetched":   len(quotes),
	}).Info("Quote batch refreshed")

	return quotes
}
