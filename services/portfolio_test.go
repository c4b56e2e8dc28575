package services

import (
	"testing"
	"time"

	"eclipse-tracker/interfaces"
)

func testPosition(ticker string, strike, premium float64, contracts int, expiration string) *interfaces.Position {
	return &interfaces.Position{
		ID:             "pos_" + ticker,
		Ticker:         ticker,
		OptionType:     interfaces.Call,
		StrikePrice:    strike,
		PremiumPaid:    premium,
		Contracts:      contracts,
		ExpirationDate: expiration,
		Status:         interfaces.StatusOpen,
	}
}

func TestCalcPortfolioMetricsScenario(t *testing.T) {
	now := time.Date(2026, 2, 15, 14, 30, 0, 0, time.UTC)
	expiry := now.AddDate(0, 0, 30).Format(interfaces.DateLayout)

	positions := []*interfaces.Position{
		testPosition("AAPL", 100, 2, 1, expiry),
	}
	quotes := map[string]*interfaces.Quote{
		"AAPL": {Ticker: "AAPL", Current: 105, PreviousClose: 103, Source: "finnhub"},
	}

	metrics := CalcPortfolioMetricsAt(positions, nil, quotes, now)

	if !almostEqual(metrics.TotalInvested, 200) {
		t.Errorf("invested: expected 200, got %v", metrics.TotalInvested)
	}
	// intrinsic 5, original time value max(0, 2-5)=0: estimate 5, pnl (5-2)*100
	if !almostEqual(metrics.UnrealizedPnL, 300) {
		t.Errorf("unrealized: expected 300, got %v", metrics.UnrealizedPnL)
	}
	if !almostEqual(metrics.TotalCurrentValue, 500) {
		t.Errorf("current value: expected 500, got %v", metrics.TotalCurrentValue)
	}
	if !almostEqual(metrics.TotalPnL, 300) {
		t.Errorf("total pnl: expected 300, got %v", metrics.TotalPnL)
	}
}

func TestCalcPortfolioMetricsMissingQuote(t *testing.T) {
	now := time.Date(2026, 2, 15, 14, 30, 0, 0, time.UTC)
	expiry := now.AddDate(0, 0, 30).Format(interfaces.DateLayout)

	positions := []*interfaces.Position{
		testPosition("AAPL", 100, 2, 1, expiry),
		testPosition("TSLA", 400, 10, 2, expiry),
	}
	// TSLA has no quote; AAPL's is unusable (zero price)
	quotes := map[string]*interfaces.Quote{
		"AAPL": {Ticker: "AAPL", Current: 0},
	}

	metrics := CalcPortfolioMetricsAt(positions, nil, quotes, now)

	// Both carried at cost, neither claims any P&L
	if !almostEqual(metrics.TotalInvested, 2200) {
		t.Errorf("invested: expected 2200, got %v", metrics.TotalInvested)
	}
	if !almostEqual(metrics.TotalCurrentValue, 2200) {
		t.Errorf("current value: expected 2200, got %v", metrics.TotalCurrentValue)
	}
	if metrics.UnrealizedPnL != 0 {
		t.Errorf("unrealized: expected 0, got %v", metrics.UnrealizedPnL)
	}
}

func TestCalcPortfolioMetricsRealized(t *testing.T) {
	now := time.Date(2026, 2, 15, 14, 30, 0, 0, time.UTC)

	closed := []*interfaces.ClosedPosition{
		{Position: interfaces.Position{Ticker: "AAPL", Status: interfaces.StatusClosed}, RealizedPnL: 500},
		{Position: interfaces.Position{Ticker: "TSLA", Status: interfaces.StatusExpired}, RealizedPnL: -200},
	}

	metrics := CalcPortfolioMetricsAt(nil, closed, nil, now)

	if !almostEqual(metrics.RealizedPnL, 300) {
		t.Errorf("realized: expected 300, got %v", metrics.RealizedPnL)
	}
	if !almostEqual(metrics.TotalPnL, 300) {
		t.Errorf("total pnl: expected 300, got %v", metrics.TotalPnL)
	}
	if !almostEqual(metrics.WinRate, 50) {
		t.Errorf("win rate: expected 50, got %v", metrics.WinRate)
	}
	if metrics.ClosedCount != 2 {
		t.Errorf("closed count: expected 2, got %d", metrics.ClosedCount)
	}
}

func TestWinRateNoClosedPositions(t *testing.T) {
	if got := WinRate(nil); got != 0 {
		t.Errorf("expected 0 with no closed positions, got %v", got)
	}
}

func TestTotalInvested(t *testing.T) {
	positions := []*interfaces.Position{
		testPosition("AAPL", 100, 2, 1, "2026-03-20"),
		testPosition("TSLA", 400, 10, 2, "2026-03-20"),
	}
	if got := TotalInvested(positions); !almostEqual(got, 2200) {
		t.Errorf("expected 2200, got %v", got)
	}
}
