package interfaces

// OptionType identifies the side of an option contract
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// Valid reports whether t is one of the two supported option types
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// PositionStatus tracks the lifecycle state of a position
type PositionStatus string

const (
	StatusOpen    PositionStatus = "OPEN"
	StatusClosed  PositionStatus = "CLOSED"
	StatusExpired PositionStatus = "EXPIRED"
)

// DateLayout is the calendar-date format used for expiration, entry and
// exit dates throughout the tracker
const DateLayout = "2006-01-02"

// ContractMultiplier is the number of underlying shares per contract
const ContractMultiplier = 100.0

// Position represents an open long option position
type Position struct {
	ID             string         `json:"id"`
	Ticker         string         `json:"ticker"`
	OptionType     OptionType     `json:"option_type"`
	StrikePrice    float64        `json:"strike_price"`
	PremiumPaid    float64        `json:"premium_paid"` // per-share cost basis
	Contracts      int            `json:"contracts"`
	ExpirationDate string         `json:"expiration_date"` // YYYY-MM-DD
	EntryDate      string         `json:"entry_date"`      // YYYY-MM-DD
	TargetPrice    *float64       `json:"target_price,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	Status         PositionStatus `json:"status"`
}

// ClosedPosition is a Position after a close-by-sale or worthless expiry.
// Records are append-only; they are never modified after creation.
type ClosedPosition struct {
	Position
	ExitDate    string  `json:"exit_date"`    // YYYY-MM-DD
	ExitPremium float64 `json:"exit_premium"` // 0 for EXPIRED
	RealizedPnL float64 `json:"realized_pnl"`
}

// Goal is a target P&L amount tracked against total portfolio P&L
type Goal struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	TargetDate   string  `json:"target_date"`  // YYYY-MM-DD
	CreatedDate  string  `json:"created_date"` // YYYY-MM-DD
}

// DefaultGoals returns the goal set used when no goals have been saved yet
func DefaultGoals() []*Goal {
	return []*Goal{
		{ID: "goal_1", Name: "$50K by March 15", TargetAmount: 50000, TargetDate: "2026-03-15", CreatedDate: "2026-02-15"},
		{ID: "goal_2", Name: "$100K by April 15", TargetAmount: 100000, TargetDate: "2026-04-15", CreatedDate: "2026-02-15"},
	}
}
