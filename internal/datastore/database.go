// Package datastore opens the relational store and migrates the alerting
// schema. SQLite serves development and tests; MySQL serves production.
package datastore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/slametrics/sentinel/internal/conf"
	"github.com/slametrics/sentinel/internal/datastore/entities"
)

// Open connects to the configured database and runs migrations.
func Open(cfg conf.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the alerting tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.Alert{},
		&entities.MonitoringSettings{},
		&entities.ItemThreshold{},
		&entities.Reading{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate alerting schema: %w", err)
	}
	return nil
}
