package model

import "time"

// ImageDimensions is the printable rectangle left after frame, mat or border
// layers are taken out of the total outer size. Always derived, never stored.
type ImageDimensions struct {
	TotalWidth        float64 `json:"total_width"`
	TotalHeight       float64 `json:"total_height"`
	ImageWidth        float64 `json:"image_width"`
	ImageHeight       float64 `json:"image_height"`
	FrameWidth        float64 `json:"frame_width"`
	PassepartoutWidth float64 `json:"passepartout_width"`
	BorderWidth       float64 `json:"border_width"`
	// MinTotalSide is the smallest outer side that leaves a printable image
	// with the same layers.
	MinTotalSide float64 `json:"min_total_side"`
}

// FormattedPrices holds the display renderings of a PricingResult.
type FormattedPrices struct {
	UnitPrice      string `json:"unit_price"`
	Subtotal       string `json:"subtotal"`
	VolumeDiscount string `json:"volume_discount"`
	RushCharge     string `json:"rush_charge"`
	Total          string `json:"total"`
	Savings        string `json:"savings"`
}

// PricingResult is the itemized price of a configuration.
type PricingResult struct {
	BasePrice         float64         `json:"base_price"`
	ProductMultiplier float64         `json:"product_multiplier"`
	BorderCost        float64         `json:"border_cost"`
	PassepartoutCost  float64         `json:"passepartout_cost"`
	UnitPrice         float64         `json:"unit_price"`
	Subtotal          float64         `json:"subtotal"`
	VolumeDiscount    float64         `json:"volume_discount"`
	RushCharge        float64         `json:"rush_charge"`
	Total             float64         `json:"total"`
	Savings           float64         `json:"savings"`
	Formatted         FormattedPrices `json:"formatted"`
}

// Issue is a single validation finding. Code is stable and machine-readable;
// Message is for display.
type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult collects blocking errors and non-blocking warnings.
type ValidationResult struct {
	IsValid  bool    `json:"is_valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Quote bundles a configuration with everything derived from it.
// All derived members come from the same Configuration snapshot.
type Quote struct {
	ID                string           `json:"id"`
	Configuration     Configuration    `json:"configuration"`
	ImageDimensions   ImageDimensions  `json:"image_dimensions"`
	Pricing           PricingResult    `json:"pricing"`
	Validation        ValidationResult `json:"validation"`
	EstimatedDelivery time.Time        `json:"estimated_delivery"`
	FormattedDelivery string           `json:"formatted_delivery"`
	CreatedAt         time.Time        `json:"created_at"`
}

// AdviceCall tracks each call to an LLM provider for cost monitoring.
type AdviceCall struct {
	ID         int64     `db:"id" json:"id"`
	QuoteRef   string    `db:"quote_ref" json:"quote_ref"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Success    bool      `db:"success" json:"success"`
	DurationMs *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
