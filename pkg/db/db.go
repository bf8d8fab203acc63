package db

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB provides database operations using a local SQLite file through gorm
type DB struct {
	gorm *gorm.DB
}

// NewSQLiteDB opens (creating if needed) the SQLite database at path
func NewSQLiteDB(path string) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite connection: %w", err)
	}
	// SQLite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	return &DB{gorm: gdb}, nil
}

// Close closes the underlying connection
func (db *DB) Close() error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return fmt.Errorf("failed to get sqlite connection: %w", err)
	}
	return sqlDB.Close()
}

// RunMigrations creates or updates the employee, shift and performance_log tables
func (db *DB) RunMigrations(ctx context.Context) error {
	if err := db.gorm.WithContext(ctx).AutoMigrate(&EmployeeRecord{}, &ShiftRecord{}, &PerformanceLogRecord{}); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}
