// Package advisor asks an LLM to review a quote before the customer orders.
// Providers are tried in the configured order (first success wins), calls are
// rate limited to keep API costs bounded, and every call is recorded.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/print-quote-service/internal/catalog"
	"github.com/fleveque/print-quote-service/internal/llm"
	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/storage"
)

// ErrUnavailable is returned when no LLM provider is configured.
var ErrUnavailable = errors.New("no LLM providers configured")

// Result is the advice plus which provider produced it.
type Result struct {
	Provider        string   `json:"provider"`
	Model           string   `json:"model"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// Advisor wraps an ordered list of LLM clients.
type Advisor struct {
	clients []llm.Client // first is primary, the rest are fallbacks
	limiter *rate.Limiter
	calls   storage.AdviceCallRepository
	catalog catalog.Catalog
	logger  *zap.Logger
}

// New creates an Advisor. ratePerMinute <= 0 disables rate limiting.
// calls may be nil when call tracking is not wanted.
func New(
	clients []llm.Client,
	ratePerMinute int,
	calls storage.AdviceCallRepository,
	cat catalog.Catalog,
	logger *zap.Logger,
) *Advisor {
	limit := rate.Inf
	if ratePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(ratePerMinute))
	}

	return &Advisor{
		clients: clients,
		limiter: rate.NewLimiter(limit, 1),
		calls:   calls,
		catalog: cat,
		logger:  logger,
	}
}

// Available reports whether at least one provider is configured.
func (a *Advisor) Available() bool {
	return a != nil && len(a.clients) > 0
}

// Advise reviews quote with each provider in order until one succeeds.
func (a *Advisor) Advise(ctx context.Context, quote *model.Quote) (*Result, error) {
	if !a.Available() {
		return nil, ErrUnavailable
	}

	brief := a.brief(quote)
	var lastErr error

	for i, client := range a.clients {
		// Blocks until a token is available or ctx is cancelled.
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		advice, err := a.try(ctx, client, quote.ID, brief)
		if err == nil {
			return &Result{
				Provider:        client.ProviderName(),
				Model:           client.ModelName(),
				Summary:         advice.Summary,
				Recommendations: advice.Recommendations,
			}, nil
		}
		lastErr = err

		if i < len(a.clients)-1 {
			a.logger.Warn("LLM provider failed, trying next",
				zap.String("quote_id", quote.ID),
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return nil, fmt.Errorf("all LLM providers failed: %w", lastErr)
}

func (a *Advisor) try(ctx context.Context, client llm.Client, quoteRef string, brief llm.Brief) (*llm.Advice, error) {
	start := time.Now()
	advice, err := client.Advise(ctx, brief)
	a.record(ctx, client, quoteRef, err == nil, time.Since(start).Milliseconds())
	return advice, err
}

func (a *Advisor) record(ctx context.Context, client llm.Client, quoteRef string, success bool, durationMs int64) {
	if a.calls == nil {
		return
	}
	call := &model.AdviceCall{
		QuoteRef:   quoteRef,
		Provider:   client.ProviderName(),
		Model:      client.ModelName(),
		Success:    success,
		DurationMs: &durationMs,
	}
	if err := a.calls.Create(ctx, call); err != nil {
		a.logger.Error("recording advice call", zap.Error(err))
	}
}

// brief describes quote in catalog terms for the model.
func (a *Advisor) brief(q *model.Quote) llm.Brief {
	cfg := q.Configuration
	b := llm.Brief{
		Product:     a.catalog.ProductName(cfg.ProductType),
		Paper:       a.catalog.PaperName(cfg.PaperType),
		WidthCM:     cfg.Dimensions.Width,
		HeightCM:    cfg.Dimensions.Height,
		ImageWidth:  q.ImageDimensions.ImageWidth,
		ImageHeight: q.ImageDimensions.ImageHeight,
		Border:      int(cfg.BorderSize),
		Mat:         int(cfg.PassepartoutSize),
		Quantity:    cfg.Quantity,
		Rush:        string(cfg.RushOrder),
		Total:       q.Pricing.Formatted.Total,
	}
	for _, e := range q.Validation.Errors {
		b.Errors = append(b.Errors, e.Message)
	}
	for _, w := range q.Validation.Warnings {
		b.Warnings = append(b.Warnings, w.Message)
	}
	if f := cfg.UploadedFile; f != nil && f.DPI != nil {
		b.DPI = *f.DPI
	}
	return b
}
