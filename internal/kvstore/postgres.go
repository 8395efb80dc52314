package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladimiradmaev/diabetes-diary/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore keeps values as rows of the kv_records table
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore uses a migrated database connection
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the value stored under key
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var record database.KVRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return record.Value, true, nil
}

// Set upserts the value stored under key
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	record := database.KVRecord{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection pool
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
