package db

import (
	"fmt"

	"github.com/ikkim/survei-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with every survey
// table migrated. Default categories are not seeded.
func SetupTestDB() (*gorm.DB, error) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	// :memory: is per connection; survey fan-out must share one
	sqlDB, err := testDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}
	return testDB, nil
}

func CleanupTestDB(testDB *gorm.DB) {
	sqlDB, err := testDB.DB()
	if err != nil {
		logger.Warn("Test database handle unavailable", logger.Fields{"error": err.Error()})
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close test database", logger.Fields{"error": err.Error()})
	}
}
