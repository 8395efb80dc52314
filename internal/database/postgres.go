package database

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/diabetes-diary/internal/config"
	"github.com/vladimiradmaev/diabetes-diary/internal/database/migrations"
	"github.com/vladimiradmaev/diabetes-diary/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// KVRecord is one stored key of the diary
type KVRecord struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName matches the table created by the SQL migrations
func (KVRecord) TableName() string {
	return "kv_records"
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed",
		"host", cfg.Host, "database", cfg.Name)
	return db, nil
}

// Migrate applies the embedded SQL migrations
func Migrate(db *gorm.DB) error {
	if err := migrations.LoadSQLMigrations(migrations.SQLFiles, "sql"); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
