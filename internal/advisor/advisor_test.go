package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/catalog"
	"github.com/fleveque/print-quote-service/internal/llm"
	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/pricing"
)

type fakeClient struct {
	name   string
	advice *llm.Advice
	err    error
	briefs []llm.Brief
}

func (f *fakeClient) Advise(_ context.Context, b llm.Brief) (*llm.Advice, error) {
	f.briefs = append(f.briefs, b)
	return f.advice, f.err
}
func (f *fakeClient) ProviderName() string { return f.name }
func (f *fakeClient) ModelName() string    { return f.name + "-model" }

type recordedCalls struct {
	mu    sync.Mutex
	calls []model.AdviceCall
}

func (r *recordedCalls) Create(_ context.Context, call *model.AdviceCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	call.ID = int64(len(r.calls) + 1)
	r.calls = append(r.calls, *call)
	return nil
}

func (r *recordedCalls) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.calls)), nil
}

func (r *recordedCalls) CountByProvider(_ context.Context, provider string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.calls {
		if c.Provider == provider {
			n++
		}
	}
	return n, nil
}

func testCatalog() catalog.Catalog {
	return catalog.New(catalog.DefaultPrices, pricing.BorderCost, pricing.PassepartoutCost)
}

func testQuote() *model.Quote {
	cfg := model.DefaultConfiguration()
	cfg.ProductType = model.ProductPrintFrame
	cfg.PassepartoutSize = model.PassepartoutSmall
	dpi := 180.0
	cfg.UploadedFile = &model.UploadedFile{ID: "art", FileName: "a.jpg", DPI: &dpi}
	return &model.Quote{
		ID:              "q-1",
		Configuration:   cfg,
		ImageDimensions: model.ImageDimensions{ImageWidth: 46, ImageHeight: 26},
		Pricing:         model.PricingResult{Formatted: model.FormattedPrices{Total: "R$ 438,00"}},
		Validation: model.ValidationResult{
			Errors:   []model.Issue{{Field: "file", Code: "LOW_DPI", Message: "Resolução mínima de 300 DPI necessária"}},
			Warnings: []model.Issue{},
		},
	}
}

func TestAdvise_FirstProviderWins(t *testing.T) {
	primary := &fakeClient{name: "anthropic", advice: &llm.Advice{Summary: "Bom", Recommendations: []string{"Use RAG"}}}
	fallback := &fakeClient{name: "openai"}
	calls := &recordedCalls{}

	a := New([]llm.Client{primary, fallback}, 0, calls, testCatalog(), zap.NewNop())
	res, err := a.Advise(context.Background(), testQuote())
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}

	if res.Provider != "anthropic" || res.Model != "anthropic-model" || res.Summary != "Bom" {
		t.Errorf("result = %+v", res)
	}
	if len(fallback.briefs) != 0 {
		t.Error("fallback should not be called when the primary succeeds")
	}

	b := primary.briefs[0]
	if b.Product != "Moldura + Impressão" || b.Paper != "Canson Fotográfico" {
		t.Errorf("brief names = %q / %q", b.Product, b.Paper)
	}
	if b.Mat != 5 || b.DPI != 180 || b.Total != "R$ 438,00" || len(b.Errors) != 1 {
		t.Errorf("brief = %+v", b)
	}

	if len(calls.calls) != 1 || !calls.calls[0].Success || calls.calls[0].QuoteRef != "q-1" {
		t.Errorf("recorded calls = %+v", calls.calls)
	}
}

func TestAdvise_FallsBack(t *testing.T) {
	primary := &fakeClient{name: "anthropic", err: errors.New("overloaded")}
	fallback := &fakeClient{name: "openai", advice: &llm.Advice{Summary: "Ok", Recommendations: []string{}}}
	calls := &recordedCalls{}

	a := New([]llm.Client{primary, fallback}, 0, calls, testCatalog(), zap.NewNop())
	res, err := a.Advise(context.Background(), testQuote())
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if res.Provider != "openai" {
		t.Errorf("provider = %q, want openai", res.Provider)
	}

	if len(calls.calls) != 2 {
		t.Fatalf("recorded %d calls, want 2", len(calls.calls))
	}
	if calls.calls[0].Success || !calls.calls[1].Success {
		t.Errorf("success flags = %v, %v; want false, true", calls.calls[0].Success, calls.calls[1].Success)
	}
	if calls.calls[0].DurationMs == nil {
		t.Error("expected duration to be recorded")
	}
}

func TestAdvise_AllFail(t *testing.T) {
	boom := errors.New("boom")
	a := New([]llm.Client{&fakeClient{name: "openai", err: boom}}, 0, nil, testCatalog(), zap.NewNop())

	_, err := a.Advise(context.Background(), testQuote())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestAdvise_Unavailable(t *testing.T) {
	a := New(nil, 10, nil, testCatalog(), zap.NewNop())
	if a.Available() {
		t.Error("advisor without clients should be unavailable")
	}
	if _, err := a.Advise(context.Background(), testQuote()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}

	var nilAdvisor *Advisor
	if nilAdvisor.Available() {
		t.Error("nil advisor should be unavailable")
	}
}

func TestAdvise_CancelledContextStopsRateLimitWait(t *testing.T) {
	client := &fakeClient{name: "anthropic", advice: &llm.Advice{Summary: "Ok"}}
	// One call per minute: the second call must wait for a token.
	a := New([]llm.Client{client}, 1, nil, testCatalog(), zap.NewNop())

	if _, err := a.Advise(context.Background(), testQuote()); err != nil {
		t.Fatalf("first Advise() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Advise(ctx, testQuote()); err == nil {
		t.Error("expected rate limit wait to fail on cancelled context")
	}
}
