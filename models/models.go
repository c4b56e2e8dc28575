package models

import (
	"gorm.io/gorm"
)

// DBPosition represents an open option position row
type DBPosition struct {
	gorm.Model
	PositionID     string `gorm:"uniqueIndex"`
	Ticker         string `gorm:"index"`
	OptionType     string
	StrikePrice    float64
	PremiumPaid    float64
	Contracts      int
	ExpirationDate string
	EntryDate      string
	TargetPrice    *float64
	Notes          string
	Status         string
}

// DBClosedPosition represents a closed or expired position row. Rows are
// append-only history.
type DBClosedPosition struct {
	gorm.Model
	PositionID     string `gorm:"uniqueIndex"`
	Ticker         string `gorm:"index"`
	OptionType     string
	StrikePrice    float64
	PremiumPaid    float64
	Contracts      int
	ExpirationDate string
	EntryDate      string
	TargetPrice    *float64
	Notes          string
	Status         string `gorm:"index"` // CLOSED or EXPIRED
	ExitDate       string
	ExitPremium    float64
	RealizedPnL    float64
}

// DBGoal represents a P&L goal row
type DBGoal struct {
	gorm.Model
	GoalID       string `gorm:"uniqueIndex"`
	Name         string
	TargetAmount float64
	TargetDate   string
	CreatedDate  string
}

// DBSetting is a key-value row for the schema version and the API
// credential
type DBSetting struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex"`
	Value string
}

// TableName overrides for cleaner table names
func (DBPosition) TableName() string {
	return "positions"
}

func (DBClosedPosition) TableName() string {
	return "closed_positions"
}

func (DBGoal) TableName() string {
	return "goals"
}

func (DBSetting) TableName() string {
	return "settings"
}
