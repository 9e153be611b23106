// Package dimension derives the printable image rectangle from the total
// outer size of a configuration by peeling off nested layers:
// frame → passe-partout → image, or border → image.
package dimension

import (
	"math"

	"github.com/fleveque/print-quote-service/internal/model"
)

const (
	// FrameThickness is the frame profile width on each side, in cm.
	FrameThickness = 2.0
	// MinImageSize is the smallest printable side, in cm.
	MinImageSize = 20.0
)

// Resolve returns the image dimensions for cfg. It never fails: out-of-range
// results are clamped to zero and reported by validation, not here.
func Resolve(cfg model.Configuration) model.ImageDimensions {
	frame, mat, border := layers(cfg)

	inset := 2 * (frame + mat + border)
	return model.ImageDimensions{
		TotalWidth:        cfg.Dimensions.Width,
		TotalHeight:       cfg.Dimensions.Height,
		ImageWidth:        math.Max(0, cfg.Dimensions.Width-inset),
		ImageHeight:       math.Max(0, cfg.Dimensions.Height-inset),
		FrameWidth:        frame,
		PassepartoutWidth: mat,
		BorderWidth:       border,
		MinTotalSide:      MinTotalSize(cfg),
	}
}

// MinTotalSize is the smallest outer side that still leaves a MinImageSize
// image once the configured layers are subtracted.
func MinTotalSize(cfg model.Configuration) float64 {
	frame, mat, border := layers(cfg)
	return MinImageSize + 2*(frame+mat+border)
}

// layers returns the per-side thickness of each layer that applies to cfg.
// A framed piece never carries a border; a mat only sits inside a frame and
// never on canvas.
func layers(cfg model.Configuration) (frame, mat, border float64) {
	if cfg.HasFrame() {
		frame = FrameThickness
		if cfg.CanHavePassepartout() && cfg.PassepartoutSize > model.PassepartoutNone {
			mat = float64(cfg.PassepartoutSize)
		}
		return frame, mat, 0
	}
	if cfg.BorderSize > model.BorderNone {
		border = float64(cfg.BorderSize)
	}
	return 0, 0, border
}
