package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/print-quote-service/internal/model"
)

// ErrNotFound is returned when a record doesn't exist.
// Callers check with errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("record not found")

// SessionRepository persists the live configuration of each configurator session.
// The configuration is stored as its JSON form, which round-trips every field
// including nulls.
type SessionRepository interface {
	Get(ctx context.Context, id string) (model.Configuration, error)
	Save(ctx context.Context, id string, cfg model.Configuration) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type sqliteSessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a SQLite-backed SessionRepository.
func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sqliteSessionRepository{db: db}
}

func (r *sqliteSessionRepository) Get(ctx context.Context, id string) (model.Configuration, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, "SELECT configuration FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Configuration{}, ErrNotFound
	}
	if err != nil {
		return model.Configuration{}, fmt.Errorf("getting session %s: %w", id, err)
	}

	var cfg model.Configuration
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		return model.Configuration{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return cfg, nil
}

// Save inserts the session or replaces its configuration.
func (r *sqliteSessionRepository) Save(ctx context.Context, id string, cfg model.Configuration) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", id, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, configuration) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			configuration = excluded.configuration,
			updated_at = CURRENT_TIMESTAMP
	`, id, string(payload))
	if err != nil {
		return fmt.Errorf("saving session %s: %w", id, err)
	}
	return nil
}

func (r *sqliteSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

func (r *sqliteSessionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sessions")
	return count, err
}
