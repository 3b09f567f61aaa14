// Package repo implements the data persistence layer for rides, backed by
// GORM over an embedded SQLite database. This file contains database
// bootstrapping helpers and schema creation.
package repo

import (
	"os"
	"path/filepath"
	"strings"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-rides-backend/internal/domain"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// OpenOption customizes OpenSQLite.
type OpenOption func(*openOptions)

type openOptions struct {
	tracing bool
}

// WithTracing installs the GORM OpenTelemetry plugin so every statement is
// recorded as a span under the active request trace.
func WithTracing() OpenOption {
	return func(o *openOptions) { o.tracing = true }
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
//
// The pool is pinned to a single connection: the service shares one logical
// store connection and SQLite serializes statements on it. This also keeps
// in-memory databases alive for the lifetime of the handle.
func OpenSQLite(path string, opts ...OpenOption) (*gorm.DB, error) {
	var o openOptions
	for _, fn := range opts {
		fn(&o)
	}

	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if !isMemory(path) {
		if dir := filepath.Dir(path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxIdleTime(0)
	sqlDB.SetConnMaxLifetime(0)

	if o.tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	return db, nil
}

// AutoMigrate creates the Rides and idempotency tables when missing.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Ride{},
		&domain.Idempotency{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isMemory(path string) bool {
	return path == MemoryPath || strings.Contains(path, "mode=memory")
}
