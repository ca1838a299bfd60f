// Package repo implements the data persistence layer for domain entities.
// This file contains the SQLite (pure Go driver) backend: bootstrapping,
// PRAGMAs, tracing, and first-run provisioning.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Spans for every query; metrics are exported through prometheus instead.
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// SQLStore is the embedded SQLite backend. It mirrors MongoStore, including
// the collection schemas, which are checked before each insert.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an open gorm handle.
func NewSQLStore(db *gorm.DB) *SQLStore { return &SQLStore{db: db} }

// DB exposes the underlying handle.
func (s *SQLStore) DB() *gorm.DB { return s.db }

// Provision creates the tables and seeds the counters when the database has
// no tables at all. Existing tables are left untouched.
func (s *SQLStore) Provision(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return err
	}
	if len(tables) > 0 {
		return nil
	}

	if err := db.AutoMigrate(
		&domain.Profile{},
		&domain.Comment{},
		&domain.Like{},
		&domain.Counter{},
		&domain.Idempotency{},
	); err != nil {
		return err
	}

	seeds := make([]domain.Counter, 0, len(domain.Sequences))
	for _, name := range domain.Sequences {
		seeds = append(seeds, domain.Counter{Name: name})
	}
	return db.Create(&seeds).Error
}

// Ping checks the database answers.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *SQLStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// checkSchema validates doc against the schema registered for collection.
func checkSchema(collection string, doc any) error {
	sc, ok := schemaFor(collection)
	if !ok {
		return nil
	}
	return sc.validate(doc)
}
