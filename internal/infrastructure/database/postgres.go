package database

import (
	"fmt"
	"strings"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/you/neuraread/internal/infrastructure/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLitePrefix selects the embedded store, e.g. sqlite://neuraread.db or sqlite://:memory:
const SQLitePrefix = "sqlite://"

// Open creates a new postgres connection with production-ready settings.
// A DSN starting with SQLitePrefix opens a local sqlite file instead.
func Open(dsn, logLevel string) (*gorm.DB, error) {
	if path, ok := strings.CutPrefix(dsn, SQLitePrefix); ok {
		return OpenSQLite(path, logLevel)
	}
	return gorm.Open(postgres.Open(dsn), Config(logLevel))
}

// OpenSQLite opens a sqlite database. An in-memory database is pinned to a
// single connection, otherwise each pooled connection sees its own empty db.
func OpenSQLite(path, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), Config(logLevel))
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Config is shared by every dialector the service opens. TranslateError
// turns unique index violations into gorm.ErrDuplicatedKey.
func Config(logLevel string) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(ParseLogLevel(logLevel)),
		TranslateError: true,
	}
}

// ParseLogLevel maps a config string onto the gorm logger levels
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// AutoMigrate performs database migration for all required tables
// This includes catalog tables and Casbin policy tables for RBAC
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(repositories.Models()...); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// The adapter creates casbin_rule on construction
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}
	return nil
}
