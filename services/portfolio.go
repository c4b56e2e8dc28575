package services

import (
	"time"

	"eclipse-tracker/interfaces"
)

// TotalInvested sums the premium at risk across all open positions
func TotalInvested(positions []*interfaces.Position) float64 {
	total := 0.0
	for _, pos := range positions {
		total += pos.PremiumPaid * float64(pos.Contracts) * interfaces.ContractMultiplier
	}
	return total
}

// WinRate returns the percentage of closed positions with positive realized
// P&L, or 0 when nothing has been closed yet.
func WinRate(closedPositions []*interfaces.ClosedPosition) float64 {
	if len(closedPositions) == 0 {
		return 0
	}
	wins := 0
	for _, pos := range closedPositions {
		if pos.RealizedPnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(closedPositions)) * 100
}

// CalcPortfolioMetrics folds the valuation engine over the full position set
// joined with the quote map by ticker. Positions without a usable quote are
// valued at cost and contribute no unrealized P&L.
func CalcPortfolioMetrics(positions []*interfaces.Position, closedPositions []*interfaces.ClosedPosition, quotes map[string]*interfaces.Quote) *interfaces.PortfolioMetrics {
	return CalcPortfolioMetricsAt(positions, closedPositions, quotes, time.Now())
}

// CalcPortfolioMetricsAt is CalcPortfolioMetrics with an explicit evaluation
// time for days-to-expiration.
func CalcPortfolioMetricsAt(positions []*interfaces.Position, closedPositions []*interfaces.ClosedPosition, quotes map[string]*interfaces.Quote, now time.Time) *interfaces.PortfolioMetrics {
	metrics := &interfaces.PortfolioMetrics{
		TotalInvested: TotalInvested(positions),
		ClosedCount:   len(closedPositions),
	}

	for _, pos := range positions {
		cost := pos.PremiumPaid * float64(pos.Contracts) * interfaces.ContractMultiplier

		quote, ok := quotes[pos.Ticker]
		if !ok || quote.Current <= 0 {
			// No usable quote: carried at cost, no P&L claimed
			metrics.TotalCurrentValue += cost
			continue
		}

		estimated := EstimatedOptionValue(
			quote.Current,
			pos.StrikePrice,
			pos.PremiumPaid,
			DaysToExpirationFrom(pos.ExpirationDate, now),
			pos.OptionType,
		)
		metrics.TotalCurrentValue += estimated * float64(pos.Contracts) * interfaces.ContractMultiplier
		metrics.UnrealizedPnL += PositionPnLAt(pos, quote.Current, now)
	}

	for _, pos := range closedPositions {
		metrics.RealizedPnL += pos.RealizedPnL
	}

	metrics.TotalPnL = metrics.UnrealizedPnL + metrics.RealizedPnL
	metrics.WinRate = WinRate(closedPositions)

	return metrics
}
