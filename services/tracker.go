package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"eclipse-tracker/interfaces"
)

// OpenPositionRequest carries the user's inputs for a new position
type OpenPositionRequest struct {
	Ticker         string   `json:"ticker"`
	OptionType     string   `json:"option_type"`
	StrikePrice    float64  `json:"strike_price"`
	PremiumPaid    float64  `json:"premium_paid"`
	Contracts      int      `json:"contracts"`
	ExpirationDate string   `json:"expiration_date"`
	EntryDate      string   `json:"entry_date"`
	TargetPrice    *float64 `json:"target_price,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// NewPosition validates the request and constructs an open position. It
// fails without producing a record when a required field is missing or
// invalid; the ticker is normalized to trimmed uppercase.
func NewPosition(req *OpenPositionRequest) (*interfaces.Position, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	optionType := interfaces.OptionType(req.OptionType)
	if optionType == "" {
		optionType = interfaces.Call
	}
	if !optionType.Valid() {
		return nil, fmt.Errorf("option_type must be CALL or PUT")
	}

	if req.StrikePrice <= 0 {
		return nil, fmt.Errorf("strike_price must be positive")
	}
	if req.PremiumPaid <= 0 {
		return nil, fmt.Errorf("premium_paid must be positive")
	}
	if req.Contracts < 1 {
		return nil, fmt.Errorf("contracts must be at least 1")
	}
	if _, err := time.Parse(interfaces.DateLayout, req.ExpirationDate); err != nil {
		return nil, fmt.Errorf("expiration_date must be a valid %s date", interfaces.DateLayout)
	}

	entryDate := req.EntryDate
	if entryDate == "" {
		entryDate = time.Now().Format(interfaces.DateLayout)
	} else if _, err := time.Parse(interfaces.DateLayout, entryDate); err != nil {
		return nil, fmt.Errorf("entry_date must be a valid %s date", interfaces.DateLayout)
	}

	return &interfaces.Position{
		ID:             generatePositionID(),
		Ticker:         ticker,
		OptionType:     optionType,
		StrikePrice:    req.StrikePrice,
		PremiumPaid:    req.PremiumPaid,
		Contracts:      req.Contracts,
		ExpirationDate: req.ExpirationDate,
		EntryDate:      entryDate,
		TargetPrice:    req.TargetPrice,
		Notes:          req.Notes,
		Status:         interfaces.StatusOpen,
	}, nil
}

// NewClosedPosition builds the closed record for a position sold at
// exitPremium per share on exitDate. The input position is not modified.
func NewClosedPosition(position *interfaces.Position, exitPremium float64, exitDate string) *interfaces.ClosedPosition {
	closed := &interfaces.ClosedPosition{
		Position:    *position,
		ExitDate:    exitDate,
		ExitPremium: exitPremium,
		RealizedPnL: (exitPremium - position.PremiumPaid) * float64(position.Contracts) * interfaces.ContractMultiplier,
	}
	closed.Status = interfaces.StatusClosed
	return closed
}

// NewExpiredPosition builds the closed record for a position that expired
// worthless: exit premium zero, the full premium lost, exit date equal to
// the expiration date.
func NewExpiredPosition(position *interfaces.Position) *interfaces.ClosedPosition {
	closed := &interfaces.ClosedPosition{
		Position:    *position,
		ExitDate:    position.ExpirationDate,
		ExitPremium: 0,
		RealizedPnL: -position.PremiumPaid * float64(position.Contracts) * interfaces.ContractMultiplier,
	}
	closed.Status = interfaces.StatusExpired
	return closed
}

func generatePositionID() string {
	return fmt.Sprintf("pos_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// PortfolioTracker owns the open position set, the closed history and the
// goal list, persisting each collection after every mutation.
type PortfolioTracker struct {
	storage interfaces.StorageService
	journal *ActivityJournal

	positions map[string]*interfaces.Position
	closed    []*interfaces.ClosedPosition
	goals     []*interfaces.Goal
	mu        sync.RWMutex
	logger    *logrus.Logger
}

// NewPortfolioTracker creates a tracker and loads saved state. Load failures
// are logged and the tracker starts from the collection defaults; journal
// may be nil to disable the activity log.
func NewPortfolioTracker(storage interfaces.StorageService, journal *ActivityJournal) *PortfolioTracker {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	t := &PortfolioTracker{
		storage:   storage,
		journal:   journal,
		positions: make(map[string]*interfaces.Position),
		logger:    logger,
	}

	if positions, err := storage.LoadPositions(); err != nil {
		logger.WithError(err).Error("Failed to load positions")
	} else {
		for _, pos := range positions {
			t.positions[pos.ID] = pos
		}
	}

	if closed, err := storage.LoadClosedPositions(); err != nil {
		logger.WithError(err).Error("Failed to load closed positions")
	} else {
		t.closed = closed
	}

	if goals, err := storage.LoadGoals(); err != nil {
		logger.WithError(err).Error("Failed to load goals")
		t.goals = interfaces.DefaultGoals()
	} else {
		t.goals = goals
	}

	logger.WithFields(logrus.Fields{
		"open":   len(t.positions),
		"closed": len(t.closed),
		"goals":  len(t.goals),
	}).Info("Portfolio loaded")

	return t
}

// OpenPosition validates and records a new open position
func (t *PortfolioTracker) OpenPosition(req *OpenPositionRequest) (*interfaces.Position, error) {
	position, err := NewPosition(req)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.positions[position.ID] = position
	t.savePositions()
	t.mu.Unlock()

	if t.journal != nil {
		t.journal.RecordOpened(position)
	}

	t.logger.WithFields(logrus.Fields{
		"position_id": position.ID,
		"ticker":      position.Ticker,
		"strike":      position.StrikePrice,
		"contracts":   position.Contracts,
	}).Info("Position opened")

	return position, nil
}

// ClosePosition sells an open position at exitPremium per share. The open
// record is removed and an immutable closed record appended in the same
// transaction.
func (t *PortfolioTracker) ClosePosition(positionID string, exitPremium float64) (*interfaces.ClosedPosition, error) {
	if exitPremium < 0 {
		return nil, fmt.Errorf("exit premium must be zero or positive")
	}

	t.mu.Lock()
	position, exists := t.positions[positionID]
	if !exists {
		t.mu.Unlock()
		return nil, fmt.Errorf("position not found: %s", positionID)
	}

	closed := NewClosedPosition(position, exitPremium, time.Now().Format(interfaces.DateLayout))
	delete(t.positions, positionID)
	t.closed = append(t.closed, closed)
	t.savePositions()
	t.saveClosedPositions()
	t.mu.Unlock()

	if t.journal != nil {
		t.journal.RecordClosed(closed)
	}

	t.logger.WithFields(logrus.Fields{
		"position_id":  positionID,
		"ticker":       closed.Ticker,
		"exit_premium": exitPremium,
		"realized_pnl": closed.RealizedPnL,
	}).Info("Position closed")

	return closed, nil
}

// ExpirePosition marks an open position as having expired worthless
func (t *PortfolioTracker) ExpirePosition(positionID string) (*interfaces.ClosedPosition, error) {
	t.mu.Lock()
	position, exists := t.positions[positionID]
	if !exists {
		t.mu.Unlock()
		return nil, fmt.Errorf("position not found: %s", positionID)
	}

	expired := NewExpiredPosition(position)
	delete(t.positions, positionID)
	t.closed = append(t.closed, expired)
	t.savePositions()
	t.saveClosedPositions()
	t.mu.Unlock()

	if t.journal != nil {
		t.journal.RecordExpired(expired)
	}

	t.logger.WithFields(logrus.Fields{
		"position_id":  positionID,
		"ticker":       expired.Ticker,
		"realized_pnl": expired.RealizedPnL,
	}).Info("Position expired worthless")

	return expired, nil
}

// DeletePosition removes an open, undecided position entirely. Closed
// history is append-only and cannot be deleted.
func (t *PortfolioTracker) DeletePosition(positionID string) error {
	t.mu.Lock()
	position, exists := t.positions[positionID]
	if !exists {
		t.mu.Unlock()
		return fmt.Errorf("position not found: %s", positionID)
	}

	delete(t.positions, positionID)
	t.savePositions()
	t.mu.Unlock()

	if t.journal != nil {
		t.journal.RecordDeleted(position)
	}

	t.logger.WithFields(logrus.Fields{
		"position_id": positionID,
		"ticker":      position.Ticker,
	}).Info("Position deleted")

	return nil
}

// GetPosition returns an open position by ID
func (t *PortfolioTracker) GetPosition(positionID string) (*interfaces.Position, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	position, exists := t.positions[positionID]
	if !exists {
		return nil, fmt.Errorf("position not found: %s", positionID)
	}
	return position, nil
}

// ListPositions returns all open positions ordered by entry date, newest
// last
func (t *PortfolioTracker) ListPositions() []*interfaces.Position {
	t.mu.RLock()
	defer t.mu.RUnlock()

	positions := make([]*interfaces.Position, 0, len(t.positions))
	for _, pos := range t.positions {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].EntryDate != positions[j].EntryDate {
			return positions[i].EntryDate < positions[j].EntryDate
		}
		return positions[i].ID < positions[j].ID
	})
	return positions
}

// ListClosedPositions returns the closed history in close order
func (t *PortfolioTracker) ListClosedPositions() []*interfaces.ClosedPosition {
	t.mu.RLock()
	defer t.mu.RUnlock()

	closed := make([]*interfaces.ClosedPosition, len(t.closed))
	copy(closed, t.closed)
	return closed
}

// UniqueTickers returns the distinct tickers across open positions
func (t *PortfolioTracker) UniqueTickers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]bool)
	tickers := make([]string, 0, len(t.positions))
	for _, pos := range t.positions {
		if !seen[pos.Ticker] {
			seen[pos.Ticker] = true
			tickers = append(tickers, pos.Ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}

// Goals returns the tracked goals
func (t *PortfolioTracker) Goals() []*interfaces.Goal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	goals := make([]*interfaces.Goal, len(t.goals))
	copy(goals, t.goals)
	return goals
}

// AddGoal records a new P&L goal
func (t *PortfolioTracker) AddGoal(name string, targetAmount float64, targetDate string) (*interfaces.Goal, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if targetAmount <= 0 {
		return nil, fmt.Errorf("target_amount must be positive")
	}
	if _, err := time.Parse(interfaces.DateLayout, targetDate); err != nil {
		return nil, fmt.Errorf("target_date must be a valid %s date", interfaces.DateLayout)
	}

	goal := &interfaces.Goal{
		ID:           fmt.Sprintf("goal_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8]),
		Name:         strings.TrimSpace(name),
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
		CreatedDate:  time.Now().Format(interfaces.DateLayout),
	}

	t.mu.Lock()
	t.goals = append(t.goals, goal)
	if err := t.storage.SaveGoals(t.goals); err != nil {
		t.logger.WithError(err).Error("Failed to save goals")
	}
	t.mu.Unlock()

	t.logger.WithFields(logrus.Fields{
		"goal_id": goal.ID,
		"target":  goal.TargetAmount,
	}).Info("Goal added")

	return goal, nil
}

// Metrics computes portfolio totals against the given quote map
func (t *PortfolioTracker) Metrics(quotes map[string]*interfaces.Quote) *interfaces.PortfolioMetrics {
	return CalcPortfolioMetrics(t.ListPositions(), t.ListClosedPositions(), quotes)
}

// savePositions persists the open set; callers hold the write lock. Saves
// are best effort: a failed save is logged, never fatal.
func (t *PortfolioTracker) savePositions() {
	positions := make([]*interfaces.Position, 0, len(t.positions))
	for _, pos := range t.positions {
		positions = append(positions, pos)
	}
	if err := t.storage.SavePositions(positions); err != nil {
		t.logger.WithError(err).Error("Failed to save positions")
	}
}

func (t *PortfolioTracker) saveClosedPositions() {
	if err := t.storage.SaveClosedPositions(t.closed); err != nil {
		t.logger.WithError(err).Error("Failed to save closed positions")
	}
}
