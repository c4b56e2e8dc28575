package services

import (
	"math"
	"time"

	"eclipse-tracker/interfaces"
)

// decayBaselineDays normalizes the time-decay factor: an option with 30 or
// more days remaining keeps its full time value.
const decayBaselineDays = 30.0

// Breakeven returns the underlying price at which profit at expiration is
// exactly zero.
func Breakeven(strike, premium float64, optionType interfaces.OptionType) float64 {
	if optionType == interfaces.Put {
		return strike - premium
	}
	return strike + premium
}

// IntrinsicValue returns the in-the-money portion of an option's value,
// ignoring time value.
func IntrinsicValue(currentPrice, strike float64, optionType interfaces.OptionType) float64 {
	if optionType == interfaces.Put {
		return math.Max(0, strike-currentPrice)
	}
	return math.Max(0, currentPrice-strike)
}

// IsInTheMoney reports whether the underlying is strictly past the strike.
// A price equal to the strike is never in the money.
func IsInTheMoney(currentPrice, strike float64, optionType interfaces.OptionType) bool {
	if optionType == interfaces.Put {
		return currentPrice < strike
	}
	return currentPrice > strike
}

// MaxLoss returns the total premium at risk. Loss is capped at the premium
// paid; the tracker does not model spreads or short positions.
func MaxLoss(premium float64, contracts int) float64 {
	return premium * float64(contracts) * interfaces.ContractMultiplier
}

// ProfitAtPrice returns the position's profit at expiration with the
// underlying at targetPrice.
func ProfitAtPrice(targetPrice, strike, premium float64, contracts int, optionType interfaces.OptionType) float64 {
	intrinsic := IntrinsicValue(targetPrice, strike, optionType)
	return (intrinsic - premium) * float64(contracts) * interfaces.ContractMultiplier
}

// DaysToExpiration returns the calendar days from today until the expiration
// date, floored at zero. Same-day expiration is 0.
func DaysToExpiration(expiration string) int {
	return DaysToExpirationFrom(expiration, time.Now())
}

// DaysToExpirationFrom counts calendar days from now's date to the expiration
// date, ceiling-rounded and never negative. An unparseable date counts as
// already expired.
func DaysToExpirationFrom(expiration string, now time.Time) int {
	expiry, err := time.ParseInLocation(interfaces.DateLayout, expiration, now.Location())
	if err != nil {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(math.Ceil(expiry.Sub(today).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// CalcTodayReturn returns the day move of the underlying. With no previous
// close to compare against it reports a flat move rather than dividing by
// zero.
func CalcTodayReturn(currentPrice, previousClose float64) interfaces.TodayReturn {
	if previousClose == 0 {
		return interfaces.TodayReturn{}
	}
	change := currentPrice - previousClose
	return interfaces.TodayReturn{
		DollarChange:  change,
		PercentChange: (change / previousClose) * 100,
	}
}

// EstimatedOptionValue approximates the option's current per-share value as
// intrinsic value plus decayed time value. Time value decays with the square
// root of days remaining against a 30-day baseline and is gone entirely at
// expiration. The premium paid is treated as an upper bound on original time
// value since the entry-day underlying price is not tracked. This is a
// deliberate heuristic, not a pricing model: no volatility, no rates, no
// Greeks.
func EstimatedOptionValue(currentPrice, strike, premium float64, daysToExpiration int, optionType interfaces.OptionType) float64 {
	intrinsic := IntrinsicValue(currentPrice, strike, optionType)

	decayFactor := 0.0
	if daysToExpiration > 0 {
		decayFactor = math.Sqrt(float64(daysToExpiration) / decayBaselineDays)
	}

	originalTimeValue := math.Max(0, premium-math.Max(0, intrinsic))
	estimatedTimeValue := originalTimeValue * math.Min(1, decayFactor)

	return math.Max(0, intrinsic+estimatedTimeValue)
}

// PositionPnL returns the unrealized P&L of an open position at the given
// underlying price.
func PositionPnL(position *interfaces.Position, currentPrice float64) float64 {
	return PositionPnLAt(position, currentPrice, time.Now())
}

// PositionPnLAt is PositionPnL with an explicit evaluation time for the
// days-to-expiration calculation.
func PositionPnLAt(position *interfaces.Position, currentPrice float64, now time.Time) float64 {
	estimated := EstimatedOptionValue(
		currentPrice,
		position.StrikePrice,
		position.PremiumPaid,
		DaysToExpirationFrom(position.ExpirationDate, now),
		position.OptionType,
	)
	return (estimated - position.PremiumPaid) * float64(position.Contracts) * interfaces.ContractMultiplier
}

// ProjectionRange discretizes profit at expiration across a price window
// around the current price, strike and breakeven. It returns 51 evenly
// spaced samples including both endpoints, with sample prices rounded to
// cents.
func ProjectionRange(currentPrice, strike, premium float64, contracts int, optionType interfaces.OptionType) []interfaces.ProjectionPoint {
	breakeven := Breakeven(strike, premium, optionType)
	lower := math.Min(currentPrice, strike) * 0.90
	upper := math.Max(math.Max(currentPrice, strike), breakeven) * 1.30
	step := (upper - lower) / 50

	points := make([]interfaces.ProjectionPoint, 0, 51)
	for i := 0; i <= 50; i++ {
		price := lower + step*float64(i)

		above := price > breakeven
		if optionType == interfaces.Put {
			above = price < breakeven
		}

		points = append(points, interfaces.ProjectionPoint{
			UnderlyingPrice:  math.Round(price*100) / 100,
			Profit:           ProfitAtPrice(price, strike, premium, contracts, optionType),
			IsAboveBreakeven: above,
		})
	}
	return points
}
