package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/sirupsen/logrus"

	"eclipse-tracker/interfaces"
)

// AlpacaQuoteService fetches stock quotes from Alpaca market data snapshots
type AlpacaQuoteService struct {
	client *marketdata.Client
	logger *logrus.Logger
}

// NewAlpacaQuoteService creates an Alpaca-backed quote service
func NewAlpacaQuoteService(apiKey, secretKey string) *AlpacaQuoteService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &AlpacaQuoteService{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: secretKey,
		}),
		logger: logger,
	}
}

// Name returns the provider tag stamped onto fetched quotes
func (s *AlpacaQuoteService) Name() string {
	return "alpaca"
}

// GetQuote fetches a snapshot for the ticker and maps it onto the tracker's
// quote shape: latest trade price as current, previous daily bar close as
// previous close, today's daily bar for OHL.
func (s *AlpacaQuoteService) GetQuote(ctx context.Context, ticker string) (*interfaces.Quote, error) {
	snapshot, err := s.client.GetSnapshot(ticker, marketdata.GetSnapshotRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}

	if snapshot == nil || snapshot.LatestTrade == nil {
		return nil, fmt.Errorf("no data for ticker %s", ticker)
	}

	quote := &interfaces.Quote{
		Ticker:      ticker,
		Current:     snapshot.LatestTrade.Price,
		Timestamp:   snapshot.LatestTrade.Timestamp.Unix(),
		LastFetched: time.Now().UnixMilli(),
		Source:      s.Name(),
	}

	if snapshot.PrevDailyBar != nil {
		quote.PreviousClose = snapshot.PrevDailyBar.Close
	}
	if snapshot.DailyBar != nil {
		quote.Open = snapshot.DailyBar.Open
		quote.High = snapshot.DailyBar.High
		quote.Low = snapshot.DailyBar.Low
	}

	ret := CalcTodayReturn(quote.Current, quote.PreviousClose)
	quote.Change = ret.DollarChange
	quote.ChangePercent = ret.PercentChange

	s.logger.WithFields(logrus.Fields{
		"ticker":  ticker,
		"current": quote.Current,
	}).Debug("Fetched quote")

	return quote, nil
}
