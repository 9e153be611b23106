package service

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/bimg"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/storage"
)

// PreviewMaxSide is the longest side of the JPEG preview, in pixels.
const PreviewMaxSide = 500

// DefaultPreviewBackground is used when the upload names no paper colour.
const DefaultPreviewBackground = "#ffffff"

// DefaultInspectMaxBytes is the largest upload decoded for measurements and
// a preview. Larger files are stored as received.
const DefaultInspectMaxBytes int64 = 256 << 20

const cmPerInch = 2.54

// Upload is an artwork file as received from a client.
type Upload struct {
	FileName    string
	ContentType string
	// Content is streamed to disk; it is read once.
	Content io.Reader
	// PrintWidthCM and PrintHeightCM are the image size the artwork will be
	// printed at. When both are positive the effective DPI is computed.
	PrintWidthCM  float64
	PrintHeightCM float64
	// Background is the hex paper colour transparent areas are flattened onto
	// in the preview.
	Background string
}

// ArtworkInspector reads uploaded artwork with bimg (libvips bindings),
// stores the original, and renders a small JPEG preview.
//
// Formats libvips cannot decode in this build (PDF, PSD without the optional
// loaders) are still stored; their measurements stay unknown (nil). So are
// files above the inspect limit, which are never loaded into memory.
type ArtworkInspector struct {
	fs           *storage.FileSystem
	inspectLimit int64
	now          func() time.Time
	logger       *zap.Logger
}

// NewArtworkInspector creates an inspector writing to fs.
func NewArtworkInspector(fs *storage.FileSystem, logger *zap.Logger) *ArtworkInspector {
	return &ArtworkInspector{
		fs:           fs,
		inspectLimit: DefaultInspectMaxBytes,
		now:          time.Now,
		logger:       logger,
	}
}

// SetInspectLimit changes the largest file decoded for measurements.
func (a *ArtworkInspector) SetInspectLimit(n int64) {
	a.inspectLimit = n
}

// Inspect stores up and describes it. Only storage failures are errors;
// anything wrong with the artwork itself is left to validation.ValidateFile.
func (a *ArtworkInspector) Inspect(up Upload) (*model.UploadedFile, error) {
	file := &model.UploadedFile{
		ID:          uuid.NewString(),
		FileName:    filepath.Base(up.FileName),
		ContentType: up.ContentType,
		UploadedAt:  a.now().UTC(),
	}

	ext := filepath.Ext(file.FileName)
	n, err := a.fs.WriteOriginal(file.ID, ext, up.Content)
	if err != nil {
		a.discard(file.ID)
		return nil, fmt.Errorf("storing artwork %s: %w", file.ID, err)
	}
	file.SizeBytes = n

	if n > a.inspectLimit {
		a.logger.Info("artwork above inspect limit, measurements unknown",
			zap.String("artwork_id", file.ID),
			zap.Int64("size_bytes", n),
			zap.Int64("inspect_limit", a.inspectLimit),
		)
		return file, nil
	}

	data, err := bimg.Read(a.fs.OriginalPath(file.ID, ext))
	if err != nil {
		a.discard(file.ID)
		return nil, fmt.Errorf("reading stored artwork %s: %w", file.ID, err)
	}

	meta, err := bimg.NewImage(data).Metadata()
	if err != nil {
		a.logger.Info("artwork not decodable, measurements unknown",
			zap.String("artwork_id", file.ID),
			zap.String("file_name", file.FileName),
			zap.Error(err),
		)
		return file, nil
	}

	w, h := meta.Size.Width, meta.Size.Height
	file.PixelWidth = &w
	file.PixelHeight = &h
	if space := colorSpaceName(meta.Space); space != "" {
		file.ColorSpace = &space
	}
	if dpi, ok := EffectiveDPI(w, h, up.PrintWidthCM, up.PrintHeightCM); ok {
		file.DPI = &dpi
	}

	background := up.Background
	if background == "" {
		background = DefaultPreviewBackground
	}
	preview, err := renderPreview(data, w, h, background)
	if err != nil {
		// The descriptor is still useful without a preview.
		a.logger.Warn("rendering artwork preview failed",
			zap.String("artwork_id", file.ID),
			zap.Error(err),
		)
		return file, nil
	}
	if err := a.fs.WritePreview(file.ID, preview); err != nil {
		a.discard(file.ID)
		return nil, fmt.Errorf("storing preview %s: %w", file.ID, err)
	}

	a.logger.Info("artwork inspected",
		zap.String("artwork_id", file.ID),
		zap.Int("pixel_width", w),
		zap.Int("pixel_height", h),
		zap.Int64("size_bytes", file.SizeBytes),
	)
	return file, nil
}

// discard removes whatever part of a failed upload reached the disk.
func (a *ArtworkInspector) discard(id string) {
	if err := a.fs.Delete(id); err != nil {
		a.logger.Warn("removing partial artwork",
			zap.String("artwork_id", id),
			zap.Error(err),
		)
	}
}

// Preview returns the stored JPEG preview of an artwork.
func (a *ArtworkInspector) Preview(id string) ([]byte, error) {
	return a.fs.ReadPreview(id)
}

// EffectiveDPI is the resolution the artwork reaches when printed at the
// given size. The weaker axis decides, since it limits print sharpness.
func EffectiveDPI(pixelWidth, pixelHeight int, printWidthCM, printHeightCM float64) (float64, bool) {
	if pixelWidth <= 0 || pixelHeight <= 0 || !(printWidthCM > 0) || !(printHeightCM > 0) {
		return 0, false
	}
	dpiW := float64(pixelWidth) / (printWidthCM / cmPerInch)
	dpiH := float64(pixelHeight) / (printHeightCM / cmPerInch)
	return math.Round(math.Min(dpiW, dpiH)*10) / 10, true
}

// colorSpaceName maps libvips interpretation names to the names shown to customers.
func colorSpaceName(space string) string {
	switch strings.ToLower(space) {
	case "":
		return ""
	case "srgb", "rgb":
		return "sRGB"
	case "rgb16":
		return "RGB 16-bit"
	case "cmyk":
		return "CMYK"
	case "b-w", "grey16":
		return "Grayscale"
	case "lab", "labs":
		return "Lab"
	default:
		return space
	}
}

// renderPreview scales the artwork so its longest side is at most
// PreviewMaxSide and flattens it onto the background colour as JPEG.
func renderPreview(data []byte, width, height int, background string) ([]byte, error) {
	r, g, b, err := parseHexColor(background)
	if err != nil {
		return nil, err
	}

	opts := bimg.Options{
		Type:           bimg.JPEG,
		Quality:        80,
		Background:     bimg.Color{R: r, G: g, B: b},
		Interpretation: bimg.InterpretationSRGB,
	}
	// Only one side is set so libvips keeps the aspect ratio.
	if width >= height {
		opts.Width = min(width, PreviewMaxSide)
	} else {
		opts.Height = min(height, PreviewMaxSide)
	}

	out, err := bimg.NewImage(data).Process(opts)
	if err != nil {
		return nil, fmt.Errorf("rendering preview: %w", err)
	}
	return out, nil
}

// parseHexColor converts a hex color string (with or without #) to RGB values.
func parseHexColor(hex string) (uint8, uint8, uint8, error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %q (expected 6 characters)", hex)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("parsing hex color %q: %w", hex, err)
	}
	return r, g, b, nil
}
