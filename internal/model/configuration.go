package model

import (
	"errors"
	"fmt"
	"time"
)

// DefaultExpandedSection is the UI section open on a fresh configuration.
const DefaultExpandedSection = "product"

// Dimensions is a width × height pair in centimeters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UploadedFile describes an artwork file attached to a configuration.
// Optional measurements are pointers so an unknown value serializes as null
// instead of a misleading zero.
type UploadedFile struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	DPI         *float64  `json:"dpi"`
	ColorSpace  *string   `json:"color_space"`
	PixelWidth  *int      `json:"pixel_width"`
	PixelHeight *int      `json:"pixel_height"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Configuration is a complete print order selection. It is treated as an
// immutable snapshot: every computation takes a Configuration by value and
// returns fresh derived values.
//
// The JSON form is also the persistence schema, so no field uses omitempty:
// unset optionals round-trip as null.
type Configuration struct {
	ProductType      ProductType      `json:"product_type"`
	PaperType        PaperType        `json:"paper_type"`
	Dimensions       Dimensions       `json:"dimensions"`
	BorderSize       BorderSize       `json:"border_size"`
	PassepartoutSize PassepartoutSize `json:"passepartout_size"`
	Quantity         int              `json:"quantity"`
	RushOrder        RushOrder        `json:"rush_order"`
	ExpandedSection  *string          `json:"expanded_section"`
	UploadedFile     *UploadedFile    `json:"uploaded_file"`
}

// DefaultConfiguration returns the configuration a new session starts with.
func DefaultConfiguration() Configuration {
	section := DefaultExpandedSection
	return Configuration{
		ProductType:      ProductPrintOnly,
		PaperType:        PaperPhoto,
		Dimensions:       Dimensions{Width: 60, Height: 40},
		BorderSize:       BorderNone,
		PassepartoutSize: PassepartoutNone,
		Quantity:         1,
		RushOrder:        RushStandard,
		ExpandedSection:  &section,
	}
}

// HasFrame reports whether the configuration includes a frame.
func (c Configuration) HasFrame() bool {
	return c.ProductType.Framed()
}

// CanHaveBorder reports whether a white border is applicable.
func (c Configuration) CanHaveBorder() bool {
	return c.ProductType == ProductPrintOnly
}

// CanHavePassepartout reports whether a mat is applicable: framed, non-canvas.
func (c Configuration) CanHavePassepartout() bool {
	return c.HasFrame() && c.PaperType != PaperCanvas
}

// CheckEnums verifies every enumerated field holds a known member.
// Boundaries (HTTP handlers, CLI, storage) call this before handing a
// configuration to the engine, which treats unknown members as programmer errors.
func (c Configuration) CheckEnums() error {
	var errs []error
	if !c.ProductType.Valid() {
		errs = append(errs, fmt.Errorf("invalid product type %q", c.ProductType))
	}
	if !c.PaperType.Valid() {
		errs = append(errs, fmt.Errorf("invalid paper type %q", c.PaperType))
	}
	if !c.BorderSize.Valid() {
		errs = append(errs, fmt.Errorf("invalid border size %d", c.BorderSize))
	}
	if !c.PassepartoutSize.Valid() {
		errs = append(errs, fmt.Errorf("invalid passe-partout size %d", c.PassepartoutSize))
	}
	if !c.RushOrder.Valid() {
		errs = append(errs, fmt.Errorf("invalid rush order %q", c.RushOrder))
	}
	return errors.Join(errs...)
}

// MaxDimension is the largest side, in cm, the engine accepts. It sits far
// above every product limit, so oversized pieces still reach validation, and
// keeps area and price arithmetic finite.
const MaxDimension = 10000.0

// Check is CheckEnums plus the numeric contract of the engine: dimensions in
// (0, MaxDimension] and a quantity of at least one.
func (c Configuration) Check() error {
	var errs []error
	if err := c.CheckEnums(); err != nil {
		errs = append(errs, err)
	}
	if !c.Dimensions.InRange() {
		errs = append(errs, fmt.Errorf("dimensions must be between 0 and %gcm, got %gx%g",
			MaxDimension, c.Dimensions.Width, c.Dimensions.Height))
	}
	if c.Quantity < 1 {
		errs = append(errs, fmt.Errorf("quantity must be at least 1, got %d", c.Quantity))
	}
	return errors.Join(errs...)
}

// InRange reports whether both sides are in (0, MaxDimension]. NaN fails.
func (d Dimensions) InRange() bool {
	return d.Width > 0 && d.Width <= MaxDimension && d.Height > 0 && d.Height <= MaxDimension
}
