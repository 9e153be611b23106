// Package pricing computes the itemized price of a print configuration.
package pricing

import (
	"fmt"
	"math"

	"github.com/fleveque/print-quote-service/internal/catalog"
	"github.com/fleveque/print-quote-service/internal/model"
)

// MinimumOrderValue is the floor applied to the unit price, in BRL.
const MinimumOrderValue = 150.0

// VolumeTier is an inclusive quantity range and its discount rate.
type VolumeTier struct {
	Min  int
	Max  int
	Rate float64
}

// VolumeTiers are checked in order; the last tier is open-ended.
var VolumeTiers = []VolumeTier{
	{Min: 1, Max: 4, Rate: 0},
	{Min: 5, Max: 9, Rate: 0.10},
	{Min: 10, Max: 19, Rate: 0.15},
	{Min: 20, Max: 49, Rate: 0.20},
	{Min: 50, Max: math.MaxInt, Rate: 0.25},
}

// Price computes pricing with the default catalog price table.
func Price(cfg model.Configuration) model.PricingResult {
	return Calculate(cfg, catalog.DefaultPrices)
}

// Calculate computes pricing for cfg. Each step feeds the next:
// area → base → multiplier → fees → minimum floor → quantity → volume
// discount → rush surcharge on the discounted subtotal → total.
//
// An unknown enum member panics; callers validate input at the boundary.
func Calculate(cfg model.Configuration, prices catalog.PriceTable) model.PricingResult {
	areaM2 := (cfg.Dimensions.Width / 100.0) * (cfg.Dimensions.Height / 100.0)
	basePrice := areaM2 * prices.PricePerSquareMeter(cfg.PaperType)

	multiplier := ProductMultiplier(cfg.ProductType)
	borderCost := BorderCost(cfg.BorderSize)
	matCost := PassepartoutCost(cfg.PassepartoutSize)

	unitPrice := math.Max(basePrice*multiplier+borderCost+matCost, MinimumOrderValue)
	subtotal := unitPrice * float64(cfg.Quantity)

	volumeDiscount := subtotal * VolumeDiscountRate(cfg.Quantity)
	rushCharge := (subtotal - volumeDiscount) * RushMultiplier(cfg.RushOrder)
	total := subtotal - volumeDiscount + rushCharge

	return model.PricingResult{
		BasePrice:         basePrice,
		ProductMultiplier: multiplier,
		BorderCost:        borderCost,
		PassepartoutCost:  matCost,
		UnitPrice:         unitPrice,
		Subtotal:          subtotal,
		VolumeDiscount:    volumeDiscount,
		RushCharge:        rushCharge,
		Total:             total,
		Savings:           volumeDiscount,
		Formatted: model.FormattedPrices{
			UnitPrice:      FormatCurrency(unitPrice),
			Subtotal:       FormatCurrency(subtotal),
			VolumeDiscount: signed("-", volumeDiscount),
			RushCharge:     signed("+", rushCharge),
			Total:          FormatCurrency(total),
			Savings:        FormatCurrency(volumeDiscount),
		},
	}
}

// ProductMultiplier scales the base price by finish.
func ProductMultiplier(p model.ProductType) float64 {
	switch p {
	case model.ProductPrintOnly:
		return 1.0
	case model.ProductPrintFrame:
		return 1.5
	case model.ProductPrintFrameGlass:
		return 1.8
	default:
		panic(fmt.Sprintf("pricing: unknown product type %q", p))
	}
}

// BorderCost is the flat fee for a border tier, independent of area.
func BorderCost(b model.BorderSize) float64 {
	switch b {
	case model.BorderNone:
		return 0
	case model.BorderSmall:
		return 50
	case model.BorderMedium:
		return 75
	case model.BorderLarge:
		return 125
	default:
		panic(fmt.Sprintf("pricing: unknown border size %d", b))
	}
}

// PassepartoutCost is the flat fee for a mat tier, independent of area.
func PassepartoutCost(s model.PassepartoutSize) float64 {
	switch s {
	case model.PassepartoutNone:
		return 0
	case model.PassepartoutSmall:
		return 150
	case model.PassepartoutMedium:
		return 200
	case model.PassepartoutLarge:
		return 250
	default:
		panic(fmt.Sprintf("pricing: unknown passe-partout size %d", s))
	}
}

// RushMultiplier is the surcharge rate applied after the volume discount.
func RushMultiplier(r model.RushOrder) float64 {
	switch r {
	case model.RushStandard:
		return 0
	case model.Rush72h:
		return 0.15
	case model.Rush48h:
		return 0.30
	case model.Rush24h:
		return 0.50
	default:
		panic(fmt.Sprintf("pricing: unknown rush order %q", r))
	}
}

// VolumeDiscountRate returns the discount rate for a quantity, or 0 when no
// tier matches.
func VolumeDiscountRate(quantity int) float64 {
	for _, tier := range VolumeTiers {
		if quantity >= tier.Min && quantity <= tier.Max {
			return tier.Rate
		}
	}
	return 0
}

func signed(sign string, amount float64) string {
	if amount > 0 {
		return sign + FormatCurrency(amount)
	}
	return FormatCurrency(0)
}
