// Package model defines the core data types for the print quote service.
// Struct tags tell serialization libraries how to map fields: `json:"..."` for
// API payloads and persisted snapshots.
package model

import (
	"fmt"
	"strings"
)

// ProductType is the kind of finished piece being ordered.
// Values are explicit strings so the persisted form stays stable if the
// declaration order changes.
type ProductType string

const (
	ProductPrintOnly       ProductType = "print_only"
	ProductPrintFrame      ProductType = "print_frame"
	ProductPrintFrameGlass ProductType = "print_frame_glass"
)

// AllProductTypes is the ordered list of product types for iteration.
var AllProductTypes = []ProductType{ProductPrintOnly, ProductPrintFrame, ProductPrintFrameGlass}

// Framed reports whether the product includes a frame.
func (p ProductType) Framed() bool {
	return p != ProductPrintOnly
}

// Valid reports whether p is a known product type.
func (p ProductType) Valid() bool {
	switch p {
	case ProductPrintOnly, ProductPrintFrame, ProductPrintFrameGlass:
		return true
	default:
		return false
	}
}

// PaperType is the printing substrate.
type PaperType string

const (
	PaperPhoto  PaperType = "canson_photo"
	PaperRag    PaperType = "canson_rag"
	PaperCanvas PaperType = "canvas"
)

// AllPaperTypes is the ordered list of paper types for iteration.
var AllPaperTypes = []PaperType{PaperPhoto, PaperRag, PaperCanvas}

// Valid reports whether p is a known paper type.
func (p PaperType) Valid() bool {
	switch p {
	case PaperPhoto, PaperRag, PaperCanvas:
		return true
	default:
		return false
	}
}

// BorderSize is the white border width in centimeters for unframed prints.
type BorderSize int

const (
	BorderNone   BorderSize = 0
	BorderSmall  BorderSize = 2
	BorderMedium BorderSize = 3
	BorderLarge  BorderSize = 5
)

// AllBorderSizes is the ordered list of border tiers.
var AllBorderSizes = []BorderSize{BorderNone, BorderSmall, BorderMedium, BorderLarge}

// Valid reports whether b is one of the offered border tiers.
func (b BorderSize) Valid() bool {
	switch b {
	case BorderNone, BorderSmall, BorderMedium, BorderLarge:
		return true
	default:
		return false
	}
}

// PassepartoutSize is the mat width in centimeters for framed prints.
type PassepartoutSize int

const (
	PassepartoutNone   PassepartoutSize = 0
	PassepartoutSmall  PassepartoutSize = 5
	PassepartoutMedium PassepartoutSize = 7
	PassepartoutLarge  PassepartoutSize = 10
)

// AllPassepartoutSizes is the ordered list of mat tiers.
var AllPassepartoutSizes = []PassepartoutSize{PassepartoutNone, PassepartoutSmall, PassepartoutMedium, PassepartoutLarge}

// Valid reports whether s is one of the offered mat tiers.
func (s PassepartoutSize) Valid() bool {
	switch s {
	case PassepartoutNone, PassepartoutSmall, PassepartoutMedium, PassepartoutLarge:
		return true
	default:
		return false
	}
}

// RushOrder is the delivery urgency tier.
type RushOrder string

const (
	RushStandard RushOrder = "standard"
	Rush72h      RushOrder = "72h"
	Rush48h      RushOrder = "48h"
	Rush24h      RushOrder = "24h"
)

// AllRushOrders is the ordered list of rush tiers.
var AllRushOrders = []RushOrder{RushStandard, Rush72h, Rush48h, Rush24h}

// Valid reports whether r is a known rush tier.
func (r RushOrder) Valid() bool {
	switch r {
	case RushStandard, Rush72h, Rush48h, Rush24h:
		return true
	default:
		return false
	}
}

// ParseProductType converts user input into a ProductType.
// Parsing happens at the edges (HTTP, CLI) so the engine never sees unknown values.
func ParseProductType(s string) (ProductType, error) {
	p := ProductType(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid product type %q", s)
	}
	return p, nil
}

// ParsePaperType converts user input into a PaperType.
func ParsePaperType(s string) (PaperType, error) {
	p := PaperType(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid paper type %q", s)
	}
	return p, nil
}

// ParseRushOrder converts user input into a RushOrder.
func ParseRushOrder(s string) (RushOrder, error) {
	r := RushOrder(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid rush order %q", s)
	}
	return r, nil
}

// ParseBorderSize validates a border width in centimeters.
func ParseBorderSize(cm int) (BorderSize, error) {
	b := BorderSize(cm)
	if !b.Valid() {
		return 0, fmt.Errorf("invalid border size %dcm: must be 0, 2, 3 or 5", cm)
	}
	return b, nil
}

// ParsePassepartoutSize validates a mat width in centimeters.
func ParsePassepartoutSize(cm int) (PassepartoutSize, error) {
	s := PassepartoutSize(cm)
	if !s.Valid() {
		return 0, fmt.Errorf("invalid passe-partout size %dcm: must be 0, 5, 7 or 10", cm)
	}
	return s, nil
}
