package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"contractsim/model"
)

type SQL struct {
	db *gorm.DB
}

// FromSQL creates SQL-backed storage. Example of usage:
//
//	import "github.com/glebarez/sqlite"
//	storage, err := storage.FromSQL(sqlite.Open("sqlite.db"), &gorm.Config{})
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (Storage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(&model.Position{})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(&model.Account{})
	if err != nil {
		return nil, err
	}

	return &SQL{db: db}, nil
}

func (s *SQL) ResetTables() error {
	tables := []interface{}{
		&model.Position{},
		&model.Account{},
	}
	for _, table := range tables {
		if err := s.db.Migrator().DropTable(table); err != nil {
			return err
		}
	}
	for _, table := range tables {
		if err := s.db.AutoMigrate(table); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQL) CreatePosition(position *model.Position) error {
	result := s.db.Create(position)
	return result.Error
}

func (s *SQL) UpdatePosition(position *model.Position) error {
	result := s.db.Save(position)
	return result.Error
}

func (s *SQL) DeletePosition(position *model.Position) error {
	result := s.db.Where("position_code = ?", position.PositionCode).Delete(&model.Position{})
	return result.Error
}

func (s *SQL) Positions(filters ...PositionFilter) ([]*model.Position, error) {
	positions := make([]*model.Position, 0)
	result := s.db.Order("created_at asc").Find(&positions)
	if result.Error != nil {
		return nil, result.Error
	}

	filtered := make([]*model.Position, 0, len(positions))
	for _, position := range positions {
		keep := true
		for _, filter := range filters {
			if !filter(*position) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, position)
		}
	}
	return filtered, nil
}

func (s *SQL) SaveAccount(account *model.Account) error {
	var existing model.Account
	s.db.First(&existing)
	if existing.ID > 0 {
		account.ID = existing.ID
		return s.db.Save(account).Error
	}
	return s.db.Create(account).Error
}

// Account returns the persisted snapshot, or nil when none was saved yet.
func (s *SQL) Account() (*model.Account, error) {
	var account model.Account
	result := s.db.First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &account, nil
}
