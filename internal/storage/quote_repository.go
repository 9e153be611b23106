package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/print-quote-service/internal/model"
)

// QuoteRepository stores issued quotes. The full quote is kept as JSON; a few
// columns are broken out for counting and reporting.
type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	Get(ctx context.Context, id string) (*model.Quote, error)
	Count(ctx context.Context) (int64, error)
	CountByValidity(ctx context.Context, valid bool) (int64, error)
}

// quoteRow is the table shape; sqlx maps columns through the db tags.
type quoteRow struct {
	ID          string    `db:"id"`
	ProductType string    `db:"product_type"`
	PaperType   string    `db:"paper_type"`
	Quantity    int       `db:"quantity"`
	Total       float64   `db:"total"`
	IsValid     bool      `db:"is_valid"`
	Payload     string    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}

type sqliteQuoteRepository struct {
	db *sqlx.DB
}

// NewQuoteRepository creates a SQLite-backed QuoteRepository.
func NewQuoteRepository(db *sqlx.DB) QuoteRepository {
	return &sqliteQuoteRepository{db: db}
}

func (r *sqliteQuoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	if quote.ID == "" {
		return errors.New("creating quote: missing id")
	}
	payload, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("encoding quote %s: %w", quote.ID, err)
	}

	row := quoteRow{
		ID:          quote.ID,
		ProductType: string(quote.Configuration.ProductType),
		PaperType:   string(quote.Configuration.PaperType),
		Quantity:    quote.Configuration.Quantity,
		Total:       quote.Pricing.Total,
		IsValid:     quote.Validation.IsValid,
		Payload:     string(payload),
		CreatedAt:   quote.CreatedAt.UTC(),
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO quotes (id, product_type, paper_type, quantity, total, is_valid, payload, created_at)
		VALUES (:id, :product_type, :paper_type, :quantity, :total, :is_valid, :payload, :created_at)
	`, row)
	if err != nil {
		return fmt.Errorf("creating quote: %w", err)
	}
	return nil
}

func (r *sqliteQuoteRepository) Get(ctx context.Context, id string) (*model.Quote, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, "SELECT payload FROM quotes WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting quote %s: %w", id, err)
	}

	var quote model.Quote
	if err := json.Unmarshal([]byte(payload), &quote); err != nil {
		return nil, fmt.Errorf("decoding quote %s: %w", id, err)
	}
	return &quote, nil
}

func (r *sqliteQuoteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM quotes")
	return count, err
}

func (r *sqliteQuoteRepository) CountByValidity(ctx context.Context, valid bool) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM quotes WHERE is_valid = ?", valid)
	return count, err
}
