package database

import (
	"database/sql"
	"fmt"

	"github.com/thependalorian/buffrhost-sub014/common/config"

	_ "github.com/lib/pq"
)

// NewPostgresDB opens a pooled lib/pq connection from cfg and pings it.
func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	return Open(cfg.GetDSN(), cfg.MaxConns, cfg.MaxIdle)
}

// Open opens a pooled lib/pq connection from a raw DSN (URL or keyword form).
func Open(dsn string, maxConns, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes db if it is non-nil.
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
