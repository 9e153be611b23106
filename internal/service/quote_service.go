// Package service contains the business logic that sits between the HTTP/CLI
// boundaries and the pure pricing core: quoting, live configurator sessions
// and artwork inspection.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/catalog"
	"github.com/fleveque/print-quote-service/internal/configurator"
	"github.com/fleveque/print-quote-service/internal/delivery"
	"github.com/fleveque/print-quote-service/internal/dimension"
	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/pricing"
	"github.com/fleveque/print-quote-service/internal/storage"
	"github.com/fleveque/print-quote-service/internal/validation"
)

// ErrMalformed wraps input the pricing core cannot accept at all (unknown
// enum members, sizes out of range, options the product cannot carry).
// Handlers map it to 400.
var ErrMalformed = errors.New("malformed configuration")

// ErrInvalidConfiguration is returned by Create when the configuration fails
// validation and the caller did not ask to store it anyway.
var ErrInvalidConfiguration = errors.New("configuration is not valid for ordering")

// QuoteService derives quotes from configurations and stores issued ones.
type QuoteService struct {
	quotes  storage.QuoteRepository // nil for stateless use (CLI)
	prices  catalog.PriceTable
	catalog catalog.Catalog
	now     func() time.Time
	logger  *zap.Logger
}

// NewQuoteService creates a QuoteService pricing with the given table.
// quotes may be nil when nothing is persisted.
func NewQuoteService(quotes storage.QuoteRepository, prices catalog.PriceTable, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		quotes:  quotes,
		prices:  prices,
		catalog: catalog.New(prices, pricing.BorderCost, pricing.PassepartoutCost),
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock replaces the time source used for delivery dates and timestamps.
func (s *QuoteService) SetClock(now func() time.Time) {
	s.now = now
}

// Catalog returns the selectable options priced with this service's table.
func (s *QuoteService) Catalog() catalog.Catalog {
	return s.catalog
}

// Evaluate computes every derived value of cfg from that single snapshot.
// Nothing is stored.
func (s *QuoteService) Evaluate(cfg model.Configuration) (*model.Quote, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := configurator.CheckOptions(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	now := s.now()
	pr := pricing.Calculate(cfg, s.prices)
	eta := delivery.Estimate(cfg.RushOrder, now)

	return &model.Quote{
		ID:                uuid.NewString(),
		Configuration:     cfg,
		ImageDimensions:   dimension.Resolve(cfg),
		Pricing:           pr,
		Validation:        validation.Validate(cfg).ValidationResult,
		EstimatedDelivery: eta,
		FormattedDelivery: delivery.FormatDate(eta),
		CreatedAt:         now.UTC(),
	}, nil
}

// Create evaluates cfg and stores the quote. An invalid configuration is
// rejected with ErrInvalidConfiguration (the evaluated quote is still
// returned so callers can show why) unless allowInvalid is set.
func (s *QuoteService) Create(ctx context.Context, cfg model.Configuration, allowInvalid bool) (*model.Quote, error) {
	if s.quotes == nil {
		return nil, errors.New("quote storage not configured")
	}

	quote, err := s.Evaluate(cfg)
	if err != nil {
		return nil, err
	}
	if !quote.Validation.IsValid && !allowInvalid {
		return quote, ErrInvalidConfiguration
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("storing quote: %w", err)
	}

	s.logger.Info("quote issued",
		zap.String("quote_id", quote.ID),
		zap.String("product", string(cfg.ProductType)),
		zap.String("paper", string(cfg.PaperType)),
		zap.Int("quantity", cfg.Quantity),
		zap.Float64("total", quote.Pricing.Total),
		zap.Bool("valid", quote.Validation.IsValid),
	)
	return quote, nil
}

// Get returns a stored quote. storage.ErrNotFound passes through.
func (s *QuoteService) Get(ctx context.Context, id string) (*model.Quote, error) {
	if s.quotes == nil {
		return nil, storage.ErrNotFound
	}
	return s.quotes.Get(ctx, id)
}
