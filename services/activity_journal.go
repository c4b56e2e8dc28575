package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"eclipse-tracker/interfaces"
)

// Position lifecycle event types recorded in the journal
const (
	EventPositionOpened  = "POSITION_OPENED"
	EventPositionClosed  = "POSITION_CLOSED"
	EventPositionExpired = "POSITION_EXPIRED"
	EventPositionDeleted = "POSITION_DELETED"
)

// PositionEvent is one journal entry for a position lifecycle transition
type PositionEvent struct {
	Timestamp   time.Time             `json:"timestamp"`
	Type        string                `json:"type"`
	PositionID  string                `json:"position_id"`
	Ticker      string                `json:"ticker"`
	OptionType  interfaces.OptionType `json:"option_type"`
	StrikePrice float64               `json:"strike_price"`
	Contracts   int                   `json:"contracts"`
	PremiumPaid float64               `json:"premium_paid"`
	ExitPremium *float64              `json:"exit_premium,omitempty"`
	RealizedPnL *float64              `json:"realized_pnl,omitempty"`
}

// DailyJournal is one day's worth of position events
type DailyJournal struct {
	Date   string          `json:"date"`
	Events []PositionEvent `json:"events"`
}

// ActivityJournal appends position lifecycle events to per-day JSON files
type ActivityJournal struct {
	logger *logrus.Logger
	dir    string
	mu     sync.Mutex
}

// NewActivityJournal creates a journal writing under dir
func NewActivityJournal(dir string) (*ActivityJournal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &ActivityJournal{
		logger: logger,
		dir:    dir,
	}, nil
}

// RecordOpened journals a newly opened position
func (j *ActivityJournal) RecordOpened(position *interfaces.Position) {
	j.append(positionEvent(EventPositionOpened, position))
}

// RecordClosed journals a close-by-sale
func (j *ActivityJournal) RecordClosed(closed *interfaces.ClosedPosition) {
	event := positionEvent(EventPositionClosed, &closed.Position)
	event.ExitPremium = &closed.ExitPremium
	event.RealizedPnL = &closed.RealizedPnL
	j.append(event)
}

// RecordExpired journals a worthless expiry
func (j *ActivityJournal) RecordExpired(expired *interfaces.ClosedPosition) {
	event := positionEvent(EventPositionExpired, &expired.Position)
	event.ExitPremium = &expired.ExitPremium
	event.RealizedPnL = &expired.RealizedPnL
	j.append(event)
}

// RecordDeleted journals the removal of an undecided open position
func (j *ActivityJournal) RecordDeleted(position *interfaces.Position) {
	j.append(positionEvent(EventPositionDeleted, position))
}

// GetJournalForDate reads the journal for a YYYY-MM-DD date; a day with no
// activity returns an empty journal.
func (j *ActivityJournal) GetJournalForDate(date string) (*DailyJournal, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.readDay(date)
}

// ListAvailableDates returns the dates with a journal file on disk
func (j *ActivityJournal) ListAvailableDates() ([]string, error) {
	files, err := os.ReadDir(j.dir)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0)
	for _, file := range files {
		name := file.Name()
		if !file.IsDir() && len(name) > 14 && name[:9] == "activity_" && filepath.Ext(name) == ".json" {
			dates = append(dates, name[9:len(name)-5])
		}
	}
	return dates, nil
}

func positionEvent(eventType string, position *interfaces.Position) PositionEvent {
	return PositionEvent{
		Timestamp:   time.Now(),
		Type:        eventType,
		PositionID:  position.ID,
		Ticker:      position.Ticker,
		OptionType:  position.OptionType,
		StrikePrice: position.StrikePrice,
		Contracts:   position.Contracts,
		PremiumPaid: position.PremiumPaid,
	}
}

// append adds an event to today's file. Journal writes are best effort and
// never surface to the caller.
func (j *ActivityJournal) append(event PositionEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()

	date := event.Timestamp.Format(interfaces.DateLayout)
	journal, err := j.readDay(date)
	if err != nil {
		j.logger.WithError(err).Warn("Failed to read journal, starting fresh")
		journal = &DailyJournal{Date: date}
	}

	journal.Events = append(journal.Events, event)

	data, err := json.MarshalIndent(journal, "", "  ")
	if err != nil {
		j.logger.WithError(err).Error("Failed to marshal journal")
		return
	}
	if err := os.WriteFile(j.filename(date), data, 0644); err != nil {
		j.logger.WithError(err).Error("Failed to write journal file")
	}
}

func (j *ActivityJournal) readDay(date string) (*DailyJournal, error) {
	data, err := os.ReadFile(j.filename(date))
	if os.IsNotExist(err) {
		return &DailyJournal{Date: date}, nil
	}
	if err != nil {
		return nil, err
	}

	var journal DailyJournal
	if err := json.Unmarshal(data, &journal); err != nil {
		return nil, fmt.Errorf("failed to parse journal: %w", err)
	}
	return &journal, nil
}

func (j *ActivityJournal) filename(date string) string {
	return filepath.Join(j.dir, fmt.Sprintf("activity_%s.json", date))
}
