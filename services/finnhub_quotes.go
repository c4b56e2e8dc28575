package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"eclipse-tracker/interfaces"
)

// FinnhubQuoteService fetches stock quotes from the Finnhub REST API
type FinnhubQuoteService struct {
	apiKey  func() string
	baseURL string
	logger  *logrus.Logger
	client  *http.Client
}

// NewFinnhubQuoteService creates a Finnhub-backed quote service. The API key
// is resolved per request so a key saved through the settings endpoint takes
// effect without a restart.
func NewFinnhubQuoteService(apiKey func() string) *FinnhubQuoteService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &FinnhubQuoteService{
		apiKey:  apiKey,
		baseURL: "https://finnhub.io/api/v1",
		logger:  logger,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider tag stamped onto fetched quotes
func (s *FinnhubQuoteService) Name() string {
	return "finnhub"
}

// finnhubQuote is Finnhub's /quote response
type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// GetQuote fetches the latest quote for a ticker
func (s *FinnhubQuoteService) GetQuote(ctx context.Context, ticker string) (*interfaces.Quote, error) {
	key := s.apiKey()
	if key == "" {
		return nil, fmt.Errorf("no API key configured")
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		s.baseURL, url.QueryEscape(ticker), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var data finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}

	// Finnhub returns zeros for unknown tickers
	if data.Current == 0 && data.PreviousClose == 0 {
		return nil, fmt.Errorf("no data for ticker %s", ticker)
	}

	s.logger.WithFields(logrus.Fields{
		"ticker":  ticker,
		"current": data.Current,
	}).Debug("Fetched quote")

	return &interfaces.Quote{
		Ticker:        ticker,
		Current:       data.Current,
		PreviousClose: data.PreviousClose,
		Open:          data.Open,
		High:          data.High,
		Low:           data.Low,
		Change:        data.Change,
		ChangePercent: data.ChangePercent,
		Timestamp:     data.Timestamp,
		LastFetched:   time.Now().UnixMilli(),
		Source:        s.Name(),
	}, nil
}
