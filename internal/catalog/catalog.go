// Package catalog describes what can be ordered: papers, products and the
// border and passe-partout tiers. The pricing engine only needs the numeric
// fields; names, weights, finishes and colours are for display.
package catalog

import (
	"fmt"

	"github.com/fleveque/print-quote-service/internal/model"
)

// Paper is a printable substrate with its display metadata.
type Paper struct {
	ID         model.PaperType `json:"id"`
	Name       string          `json:"name"`
	Weight     string          `json:"weight"`
	Finish     string          `json:"finish"`
	Color      string          `json:"color"`
	PricePerM2 float64         `json:"price_per_m2"`
}

// Restrictions lists constraints a product imposes on the rest of the configuration.
type Restrictions struct {
	IncompatiblePapers []model.PaperType `json:"incompatible_papers,omitempty"`
	MaxDimensions      *model.Dimensions `json:"max_dimensions,omitempty"`
}

// Product is an orderable finish (print only, framed, framed with glass).
type Product struct {
	ID           model.ProductType `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Available    bool              `json:"available"`
	Restrictions *Restrictions     `json:"restrictions,omitempty"`
}

// Option is a selectable size tier (border or passe-partout).
type Option struct {
	Name  string  `json:"name"`
	Value int     `json:"value"`
	Cost  float64 `json:"cost"`
}

// Catalog is the full set of selectable options.
type Catalog struct {
	Papers              []Paper   `json:"papers"`
	Products            []Product `json:"products"`
	BorderOptions       []Option  `json:"border_options"`
	PassepartoutOptions []Option  `json:"passepartout_options"`
}

// PriceTable maps each paper to its price per square meter.
type PriceTable map[model.PaperType]float64

// DefaultPrices is the standard price list in BRL per m².
var DefaultPrices = PriceTable{
	model.PaperPhoto:  800,
	model.PaperRag:    1200,
	model.PaperCanvas: 1000,
}

// PricePerSquareMeter returns the price for a paper.
// A missing entry is a programming error: the table must cover every paper.
func (t PriceTable) PricePerSquareMeter(p model.PaperType) float64 {
	price, ok := t[p]
	if !ok {
		panic(fmt.Sprintf("catalog: no price for paper type %q", p))
	}
	return price
}

// WithOverrides returns a copy of t with the given per-paper prices replaced.
// Keys are paper type identifiers as they appear in configuration files.
func (t PriceTable) WithOverrides(overrides map[string]float64) (PriceTable, error) {
	out := make(PriceTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	for key, price := range overrides {
		paper, err := model.ParsePaperType(key)
		if err != nil {
			return nil, fmt.Errorf("price override: %w", err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("price override for %s must be positive, got %v", paper, price)
		}
		out[paper] = price
	}
	return out, nil
}

// New builds the catalog using the given price table for paper prices.
// borderCost and matCost supply the fee of each tier so display and pricing
// never disagree.
func New(prices PriceTable, borderCost func(model.BorderSize) float64, matCost func(model.PassepartoutSize) float64) Catalog {
	return Catalog{
		Papers: []Paper{
			{
				ID:         model.PaperPhoto,
				Name:       "Canson Fotográfico",
				Weight:     "200gr/m²",
				Finish:     "Matte",
				Color:      "#f5f5f0",
				PricePerM2: prices.PricePerSquareMeter(model.PaperPhoto),
			},
			{
				ID:         model.PaperRag,
				Name:       "Canson RAG 100% Algodão",
				Weight:     "310gr/m²",
				Finish:     "Museum",
				Color:      "#fafaf5",
				PricePerM2: prices.PricePerSquareMeter(model.PaperRag),
			},
			{
				ID:         model.PaperCanvas,
				Name:       "Canson Canvas Museum Pro",
				Weight:     "385gr/m²",
				Finish:     "Textured",
				Color:      "#fffef8",
				PricePerM2: prices.PricePerSquareMeter(model.PaperCanvas),
			},
		},
		Products: []Product{
			{
				ID:          model.ProductPrintOnly,
				Name:        "Somente Impressão",
				Description: "Impressão fine art sem moldura",
				Available:   true,
			},
			{
				ID:          model.ProductPrintFrame,
				Name:        "Moldura + Impressão",
				Description: "Impressão com moldura profissional",
				Available:   true,
			},
			{
				ID:          model.ProductPrintFrameGlass,
				Name:        "Moldura + Vidro + Impressão",
				Description: "Impressão com moldura e vidro museológico",
				Available:   true,
				Restrictions: &Restrictions{
					IncompatiblePapers: []model.PaperType{model.PaperCanvas},
					MaxDimensions:      &model.Dimensions{Width: 180, Height: 110},
				},
			},
		},
		BorderOptions:       borderOptions(borderCost),
		PassepartoutOptions: passepartoutOptions(matCost),
	}
}

func borderOptions(cost func(model.BorderSize) float64) []Option {
	opts := make([]Option, 0, len(model.AllBorderSizes))
	for _, b := range model.AllBorderSizes {
		name := fmt.Sprintf("%d cm", b)
		if b == model.BorderNone {
			name = "Sem borda"
		}
		opts = append(opts, Option{Name: name, Value: int(b), Cost: cost(b)})
	}
	return opts
}

func passepartoutOptions(cost func(model.PassepartoutSize) float64) []Option {
	opts := make([]Option, 0, len(model.AllPassepartoutSizes))
	for _, s := range model.AllPassepartoutSizes {
		name := fmt.Sprintf("%d cm", s)
		if s == model.PassepartoutNone {
			name = "Sem Passe-Partout"
		}
		opts = append(opts, Option{Name: name, Value: int(s), Cost: cost(s)})
	}
	return opts
}

// ProductName returns the display name of a product, or its identifier when
// the catalog does not list it.
func (c Catalog) ProductName(id model.ProductType) string {
	for _, p := range c.Products {
		if p.ID == id {
			return p.Name
		}
	}
	return string(id)
}

// PaperName returns the display name of a paper, or its identifier when the
// catalog does not list it.
func (c Catalog) PaperName(id model.PaperType) string {
	for _, p := range c.Papers {
		if p.ID == id {
			return p.Name
		}
	}
	return string(id)
}
