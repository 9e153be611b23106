package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/print-quote-service/internal/model"
)

// AdviceCallRepository tracks LLM advisor calls for cost monitoring.
type AdviceCallRepository interface {
	Create(ctx context.Context, call *model.AdviceCall) error
	Count(ctx context.Context) (int64, error)
	CountByProvider(ctx context.Context, provider string) (int64, error)
}

type sqliteAdviceCallRepository struct {
	db *sqlx.DB
}

// NewAdviceCallRepository creates a SQLite-backed AdviceCallRepository.
func NewAdviceCallRepository(db *sqlx.DB) AdviceCallRepository {
	return &sqliteAdviceCallRepository{db: db}
}

func (r *sqliteAdviceCallRepository) Create(ctx context.Context, call *model.AdviceCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO advice_calls (quote_ref, provider, model, success, duration_ms)
		VALUES (:quote_ref, :provider, :model, :success, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating advice call: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteAdviceCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM advice_calls")
	return count, err
}

func (r *sqliteAdviceCallRepository) CountByProvider(ctx context.Context, provider string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM advice_calls WHERE provider = ?", provider)
	return count, err
}
