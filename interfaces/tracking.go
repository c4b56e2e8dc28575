package interfaces

import "context"

// Quote is a ticker-scoped price snapshot. One quote is held per ticker at a
// time; each refresh overwrites the previous snapshot wholesale.
type Quote struct {
	Ticker        string  `json:"ticker"`
	Current       float64 `json:"current"`
	PreviousClose float64 `json:"previous_close"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Timestamp     int64   `json:"timestamp"`    // exchange time, unix seconds
	LastFetched   int64   `json:"last_fetched"` // retrieval time, unix millis
	Source        string  `json:"source"`       // provider name or "manual"
}

// TodayReturn is the day-over-day move of an underlying
type TodayReturn struct {
	DollarChange  float64 `json:"dollar_change"`
	PercentChange float64 `json:"percent_change"`
}

// ProjectionPoint is one sample of a profit-vs-underlying-price curve
type ProjectionPoint struct {
	UnderlyingPrice  float64 `json:"underlying_price"`
	Profit           float64 `json:"profit"`
	IsAboveBreakeven bool    `json:"is_above_breakeven"`
}

// PortfolioMetrics are the portfolio-level totals across open and closed
// positions joined with whatever quotes are available.
type PortfolioMetrics struct {
	TotalInvested     float64 `json:"total_invested"`
	TotalCurrentValue float64 `json:"total_current_value"`
	UnrealizedPnL     float64 `json:"unrealized_pnl"`
	RealizedPnL       float64 `json:"realized_pnl"`
	TotalPnL          float64 `json:"total_pnl"`
	WinRate           float64 `json:"win_rate"`
	ClosedCount       int     `json:"closed_count"`
}

// GoalProgress describes how far total P&L is from a goal's target
type GoalProgress struct {
	Remaining       float64 `json:"remaining"`
	PercentComplete float64 `json:"percent_complete"`
}

// GoalProjection sizes the trades needed to close a goal gap. Achievable is
// false when the assumed return or premium is non-positive; the numeric
// fields are zero in that case rather than carrying an infinity.
type GoalProjection struct {
	Achievable           bool    `json:"achievable"`
	ContractsNeeded      int     `json:"contracts_needed"`
	TotalCapitalRequired float64 `json:"total_capital_required"`
	ProfitPerContract    float64 `json:"profit_per_contract"`
}

// QuoteService fetches a quote for a single ticker from a market data
// provider. A failed fetch returns an error; it is never fatal to a batch.
type QuoteService interface {
	GetQuote(ctx context.Context, ticker string) (*Quote, error)
	Name() string
}

// StorageService defines local persistence for the tracker's collections.
// Loads return the documented default when nothing has been saved yet.
type StorageService interface {
	SavePositions(positions []*Position) error
	LoadPositions() ([]*Position, error)
	SaveClosedPositions(positions []*ClosedPosition) error
	LoadClosedPositions() ([]*ClosedPosition, error)
	SaveGoals(goals []*Goal) error
	LoadGoals() ([]*Goal, error)
	SaveAPIKey(key string) error
	LoadAPIKey() (string, error)
}
