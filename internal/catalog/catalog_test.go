package catalog

import (
	"testing"

	"github.com/fleveque/print-quote-service/internal/model"
)

func flatBorder(b model.BorderSize) float64    { return float64(b) * 10 }
func flatMat(s model.PassepartoutSize) float64 { return float64(s) * 20 }

func TestNew(t *testing.T) {
	c := New(DefaultPrices, flatBorder, flatMat)

	if len(c.Papers) != len(model.AllPaperTypes) {
		t.Fatalf("papers = %d, want %d", len(c.Papers), len(model.AllPaperTypes))
	}
	for _, p := range c.Papers {
		if p.PricePerM2 != DefaultPrices[p.ID] {
			t.Errorf("%s price = %v, want %v", p.ID, p.PricePerM2, DefaultPrices[p.ID])
		}
	}

	if len(c.Products) != len(model.AllProductTypes) {
		t.Fatalf("products = %d, want %d", len(c.Products), len(model.AllProductTypes))
	}
	glass := c.Products[2]
	if glass.ID != model.ProductPrintFrameGlass || glass.Restrictions == nil {
		t.Fatalf("glass product missing restrictions: %+v", glass)
	}
	if got := glass.Restrictions.IncompatiblePapers; len(got) != 1 || got[0] != model.PaperCanvas {
		t.Errorf("glass incompatible papers = %v, want [canvas]", got)
	}

	if len(c.BorderOptions) != 4 || c.BorderOptions[0].Name != "Sem borda" {
		t.Errorf("border options = %+v", c.BorderOptions)
	}
	if got := c.BorderOptions[3]; got.Value != 5 || got.Cost != 50 {
		t.Errorf("largest border = %+v, want value 5 cost 50", got)
	}
	if got := c.PassepartoutOptions[2]; got.Value != 7 || got.Cost != 140 || got.Name != "7 cm" {
		t.Errorf("medium mat = %+v", got)
	}
}

func TestPriceTable_WithOverrides(t *testing.T) {
	got, err := DefaultPrices.WithOverrides(map[string]float64{"canvas": 1100})
	if err != nil {
		t.Fatalf("WithOverrides() error = %v", err)
	}
	if got[model.PaperCanvas] != 1100 {
		t.Errorf("canvas = %v, want 1100", got[model.PaperCanvas])
	}
	if got[model.PaperRag] != 1200 {
		t.Errorf("rag = %v, want untouched 1200", got[model.PaperRag])
	}
	if DefaultPrices[model.PaperCanvas] != 1000 {
		t.Error("WithOverrides mutated the receiver")
	}

	if _, err := DefaultPrices.WithOverrides(map[string]float64{"vinyl": 500}); err == nil {
		t.Error("expected error for unknown paper")
	}
	if _, err := DefaultPrices.WithOverrides(map[string]float64{"canson_rag": 0}); err == nil {
		t.Error("expected error for non-positive price")
	}
}

func TestPriceTable_PanicsOnMissingPaper(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing paper")
		}
	}()
	PriceTable{model.PaperPhoto: 800}.PricePerSquareMeter(model.PaperRag)
}

func TestCatalog_Names(t *testing.T) {
	c := New(DefaultPrices, flatBorder, flatMat)

	if got := c.PaperName(model.PaperCanvas); got != "Canson Canvas Museum Pro" {
		t.Errorf("PaperName(canvas) = %q", got)
	}
	if got := c.ProductName(model.ProductPrintFrame); got != "Moldura + Impressão" {
		t.Errorf("ProductName(print_frame) = %q", got)
	}
	if got := c.PaperName("vinyl"); got != "vinyl" {
		t.Errorf("PaperName(vinyl) = %q, want identifier fallback", got)
	}
}
