package history

import (
	"context"
	"fmt"

	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/Conceptual-Machines/review-generator/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormStore keeps history in a SQL table; insertion order is the primary key order.
// Each append is a single INSERT, so concurrent writers never lose records.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore connects to Postgres and migrates the history table
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect history database: %w", err)
	}
	return NewGormStoreFromDB(db)
}

// NewGormStoreFromDB wraps an existing connection
func NewGormStoreFromDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.HistoryRecord{}); err != nil {
		return nil, fmt.Errorf("migrate history table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Load implements Reader
func (s *GormStore) Load(ctx context.Context) []models.HistoryRecord {
	var records []models.HistoryRecord
	if err := s.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		logger.Error("Failed to load review history", err, logger.Fields{"backend": "postgres"})
		return []models.HistoryRecord{}
	}
	return records
}

// Append implements Store
func (s *GormStore) Append(ctx context.Context, record models.HistoryRecord) error {
	record.ID = 0
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

// Close implements Store
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
