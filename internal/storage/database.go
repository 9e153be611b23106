// Package storage handles persistence: the SQLite database for sessions,
// quotes and advice calls, and the filesystem for uploaded artwork.
package storage

import (
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" database/sql driver
	"github.com/pressly/goose/v3"
)

// Migrations are compiled into the binary, so a fresh deployment only needs
// a writable database path.
//
//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// NewDatabase opens the SQLite database at dbPath and applies pending migrations.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// WAL lets readers proceed while a session save is writing; busy_timeout
	// waits on lock contention instead of failing immediately.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	return db, nil
}

func migrate(db *sqlx.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, migrationsDir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
