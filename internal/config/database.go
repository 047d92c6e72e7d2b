package config

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/placement-copilot/internal/models"
)

// Accounts and role preferences are small, short queries.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// InitDatabase opens the postgres pool that backs user accounts and
// per-client preferences, and migrates both tables.
func InitDatabase(cfg *Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s@%s: %w", cfg.Database.DBName, cfg.Database.Host, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database %s is not reachable: %w", cfg.Database.DBName, err)
	}
	log.Printf("✅ Connected to database %s on %s:%s\n", cfg.Database.DBName, cfg.Database.Host, cfg.Database.Port)

	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Auto migrate
func migrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.ClientPreference{},
	}
	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("failed to migrate users and client preferences: %w", err)
	}

	log.Printf("✅ Migrated %d tables\n", len(tables))
	return nil
}
