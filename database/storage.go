package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eclipse-tracker/interfaces"
	"eclipse-tracker/models"
)

// SchemaVersion is stamped into the settings table the first time a database
// is opened
const SchemaVersion = "1"

const (
	settingSchemaVersion = "schema_version"
	settingAPIKey        = "api_key"
)

// LocalStorage implements the StorageService interface using SQLite. Each
// collection is saved wholesale: a save replaces the collection's previous
// contents, mirroring how the tracker owns full collections in memory.
type LocalStorage struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewLocalStorage opens (creating if needed) the database at dbPath,
// migrates the schema and stamps the schema version.
func NewLocalStorage(dbPath string) (*LocalStorage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.DBPosition{},
		&models.DBClosedPosition{},
		&models.DBGoal{},
		&models.DBSetting{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	s := &LocalStorage{
		db:     db,
		logger: log,
	}

	if err := s.stampSchemaVersion(); err != nil {
		return nil, err
	}

	return s, nil
}

// stampSchemaVersion writes the schema version setting if it is not present
func (s *LocalStorage) stampSchemaVersion() error {
	var setting models.DBSetting
	err := s.db.Where("key = ?", settingSchemaVersion).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.setSetting(settingSchemaVersion, SchemaVersion)
	}
	return err
}

// SavePositions replaces the stored open position collection
func (s *LocalStorage) SavePositions(positions []*interfaces.Position) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&models.DBPosition{}).Error; err != nil {
			return fmt.Errorf("failed to clear positions: %w", err)
		}

		if len(positions) == 0 {
			return nil
		}

		rows := make([]*models.DBPosition, len(positions))
		for i, pos := range positions {
			rows[i] = &models.DBPosition{
				PositionID:     pos.ID,
				Ticker:         pos.Ticker,
				OptionType:     string(pos.OptionType),
				StrikePrice:    pos.StrikePrice,
				PremiumPaid:    pos.PremiumPaid,
				Contracts:      pos.Contracts,
				ExpirationDate: pos.ExpirationDate,
				EntryDate:      pos.EntryDate,
				TargetPrice:    pos.TargetPrice,
				Notes:          pos.Notes,
				Status:         string(pos.Status),
			}
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save positions: %w", err)
		}
		return nil
	})
}

// LoadPositions returns the stored open positions, empty when nothing has
// been saved.
func (s *LocalStorage) LoadPositions() ([]*interfaces.Position, error) {
	var rows []*models.DBPosition
	if err := s.db.Order("entry_date ASC, position_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	positions := make([]*interfaces.Position, len(rows))
	for i, row := range rows {
		positions[i] = &interfaces.Position{
			ID:             row.PositionID,
			Ticker:         row.Ticker,
			OptionType:     interfaces.OptionType(row.OptionType),
			StrikePrice:    row.StrikePrice,
			PremiumPaid:    row.PremiumPaid,
			Contracts:      row.Contracts,
			ExpirationDate: row.ExpirationDate,
			EntryDate:      row.EntryDate,
			TargetPrice:    row.TargetPrice,
			Notes:          row.Notes,
			Status:         interfaces.PositionStatus(row.Status),
		}
	}
	return positions, nil
}

// SaveClosedPositions replaces the stored closed history
func (s *LocalStorage) SaveClosedPositions(positions []*interfaces.ClosedPosition) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&models.DBClosedPosition{}).Error; err != nil {
			return fmt.Errorf("failed to clear closed positions: %w", err)
		}

		if len(positions) == 0 {
			return nil
		}

		rows := make([]*models.DBClosedPosition, len(positions))
		for i, pos := range positions {
			rows[i] = &models.DBClosedPosition{
				PositionID:     pos.ID,
				Ticker:         pos.Ticker,
				OptionType:     string(pos.OptionType),
				StrikePrice:    pos.StrikePrice,
				PremiumPaid:    pos.PremiumPaid,
				Contracts:      pos.Contracts,
				ExpirationDate: pos.ExpirationDate,
				EntryDate:      pos.EntryDate,
				TargetPrice:    pos.TargetPrice,
				Notes:          pos.Notes,
				Status:         string(pos.Status),
				ExitDate:       pos.ExitDate,
				ExitPremium:    pos.ExitPremium,
				RealizedPnL:    pos.RealizedPnL,
			}
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save closed positions: %w", err)
		}
		return nil
	})
}

// LoadClosedPositions returns the stored closed history in close order
func (s *LocalStorage) LoadClosedPositions() ([]*interfaces.ClosedPosition, error) {
	var rows []*models.DBClosedPosition
	if err := s.db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load closed positions: %w", err)
	}

	positions := make([]*interfaces.ClosedPosition, len(rows))
	for i, row := range rows {
		positions[i] = &interfaces.ClosedPosition{
			Position: interfaces.Position{
				ID:             row.PositionID,
				Ticker:         row.Ticker,
				OptionType:     interfaces.OptionType(row.OptionType),
				StrikePrice:    row.StrikePrice,
				PremiumPaid:    row.PremiumPaid,
				Contracts:      row.Contracts,
				ExpirationDate: row.ExpirationDate,
				EntryDate:      row.EntryDate,
				TargetPrice:    row.TargetPrice,
				Notes:          row.Notes,
				Status:         interfaces.PositionStatus(row.Status),
			},
			ExitDate:    row.ExitDate,
			ExitPremium: row.ExitPremium,
			RealizedPnL: row.RealizedPnL,
		}
	}
	return positions, nil
}

// SaveGoals replaces the stored goal collection
func (s *LocalStorage) SaveGoals(goals []*interfaces.Goal) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&models.DBGoal{}).Error; err != nil {
			return fmt.Errorf("failed to clear goals: %w", err)
		}

		if len(goals) == 0 {
			return nil
		}

		rows := make([]*models.DBGoal, len(goals))
		for i, goal := range goals {
			rows[i] = &models.DBGoal{
				GoalID:       goal.ID,
				Name:         goal.Name,
				TargetAmount: goal.TargetAmount,
				TargetDate:   goal.TargetDate,
				CreatedDate:  goal.CreatedDate,
			}
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save goals: %w", err)
		}
		return nil
	})
}

// LoadGoals returns the stored goals, or the built-in default goal set when
// none have been saved yet.
func (s *LocalStorage) LoadGoals() ([]*interfaces.Goal, error) {
	var rows []*models.DBGoal
	if err := s.db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	if len(rows) == 0 {
		return interfaces.DefaultGoals(), nil
	}

	goals := make([]*interfaces.Goal, len(rows))
	for i, row := range rows {
		goals[i] = &interfaces.Goal{
			ID:           row.GoalID,
			Name:         row.Name,
			TargetAmount: row.TargetAmount,
			TargetDate:   row.TargetDate,
			CreatedDate:  row.CreatedDate,
		}
	}
	return goals, nil
}

// SaveAPIKey stores the quote provider credential
func (s *LocalStorage) SaveAPIKey(key string) error {
	return s.setSetting(settingAPIKey, key)
}

// LoadAPIKey returns the stored quote provider credential, empty when none
// has been saved.
func (s *LocalStorage) LoadAPIKey() (string, error) {
	var setting models.DBSetting
	err := s.db.Where("key = ?", settingAPIKey).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load api key: %w", err)
	}
	return setting.Value, nil
}

func (s *LocalStorage) setSetting(key, value string) error {
	var setting models.DBSetting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(&models.DBSetting{Key: key, Value: value}).Error; err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	setting.Value = value
	if err := s.db.Save(&setting).Error; err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// ClearAll wipes every tracker collection. There is no undo.
func (s *LocalStorage) ClearAll() error {
	for _, model := range []interface{}{
		&models.DBPosition{},
		&models.DBClosedPosition{},
		&models.DBGoal{},
		&models.DBSetting{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}
	return s.stampSchemaVersion()
}

// Close closes the database connection
func (s *LocalStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
