// Package validation checks a configuration against physical limits and
// business compatibility rules. Findings are returned as data, never as Go
// errors: errors block an order, warnings are informational.
package validation

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/fleveque/print-quote-service/internal/dimension"
	"github.com/fleveque/print-quote-service/internal/model"
)

// Physical and file limits.
const (
	MinTotalSize     = 1.0
	MinImageSize     = dimension.MinImageSize
	MaxCanvasSize    = 100.0 // smaller image side on canvas
	MaxRegularSize   = 110.0 // smaller image side on paper
	MaxGlassLength   = 180.0 // larger image side behind glass
	MaxGlassWidth    = 110.0 // smaller image side behind glass
	LargePrintSize   = 150.0
	MaxAspectRatio   = 3.0
	MinAspectRatio   = 0.33
	MaxFileSize      = int64(2 << 30)
	MinDPI           = 300.0
	RecommendedSpace = "Adobe RGB"
)

// Fields an issue can be attached to.
const (
	FieldDimensions    = "dimensions"
	FieldProduct       = "product"
	FieldConfiguration = "configuration"
	FieldFile          = "file"
)

// Stable issue codes.
const (
	CodeMinTotalSize            = "MIN_TOTAL_SIZE"
	CodeMinImageSize            = "MIN_IMAGE_SIZE"
	CodeMaxCanvasSize           = "MAX_CANVAS_SIZE"
	CodeCanvasNoGlass           = "CANVAS_NO_GLASS"
	CodeMaxRegularSize          = "MAX_REGULAR_SIZE"
	CodeMaxGlassLength          = "MAX_GLASS_LENGTH"
	CodeMaxGlassWidth           = "MAX_GLASS_WIDTH"
	CodeLargePrint              = "LARGE_PRINT"
	CodeUnusualAspectRatio      = "UNUSUAL_ASPECT_RATIO"
	CodeIncompatibleCombination = "INCOMPATIBLE_COMBINATION"
	CodeProtectionRecommended   = "PROTECTION_RECOMMENDED"
	CodeFileTooLarge            = "FILE_TOO_LARGE"
	CodeLowDPI                  = "LOW_DPI"
	CodeUnsupportedFormat       = "UNSUPPORTED_FORMAT"
	CodeColorSpace              = "COLOR_SPACE"
)

// SupportedFormats are the accepted artwork file extensions, lower case.
var SupportedFormats = []string{"jpg", "jpeg", "tiff", "tif", "pdf", "psd"}

// Result wraps model.ValidationResult with field lookup helpers.
type Result struct {
	model.ValidationResult
}

// findings accumulates issues from one rule family.
type findings struct {
	errors   []model.Issue
	warnings []model.Issue
}

func (f *findings) fail(field, code, message string) {
	f.errors = append(f.errors, model.Issue{Field: field, Code: code, Message: message})
}

func (f *findings) warn(field, code, message string) {
	f.warnings = append(f.warnings, model.Issue{Field: field, Code: code, Message: message})
}

func (f *findings) merge(other findings) {
	f.errors = append(f.errors, other.errors...)
	f.warnings = append(f.warnings, other.warnings...)
}

func (f findings) result() Result {
	errs := f.errors
	if errs == nil {
		errs = []model.Issue{}
	}
	warns := f.warnings
	if warns == nil {
		warns = []model.Issue{}
	}
	return Result{model.ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}}
}

// Validate runs every rule family against cfg: dimensions, product
// compatibility and, when present, the uploaded file.
func Validate(cfg model.Configuration) Result {
	var all findings
	all.merge(dimensionFindings(cfg))
	all.merge(compatibilityFindings(cfg))
	if cfg.UploadedFile != nil {
		all.merge(fileFindings(*cfg.UploadedFile))
	}
	return all.result()
}

// ValidateDimensions checks total and resolved image size limits.
func ValidateDimensions(cfg model.Configuration) Result {
	return dimensionFindings(cfg).result()
}

// ValidateCompatibility checks product and paper combinations.
func ValidateCompatibility(cfg model.Configuration) Result {
	return compatibilityFindings(cfg).result()
}

// ValidateFile checks an uploaded artwork descriptor.
func ValidateFile(file model.UploadedFile) Result {
	return fileFindings(file).result()
}

func dimensionFindings(cfg model.Configuration) findings {
	var f findings

	img := dimension.Resolve(cfg)
	minSide := math.Min(img.ImageWidth, img.ImageHeight)
	maxSide := math.Max(img.ImageWidth, img.ImageHeight)

	if img.TotalWidth < MinTotalSize || img.TotalHeight < MinTotalSize {
		f.fail(FieldDimensions, CodeMinTotalSize,
			fmt.Sprintf("As dimensões totais devem ser pelo menos %gcm", MinTotalSize))
	}

	if img.ImageWidth < MinImageSize || img.ImageHeight < MinImageSize {
		f.fail(FieldDimensions, CodeMinImageSize,
			fmt.Sprintf("A área de impressão deve ter pelo menos %g×%gcm", MinImageSize, MinImageSize))
	}

	if cfg.PaperType == model.PaperCanvas {
		if minSide > MaxCanvasSize {
			f.fail(FieldDimensions, CodeMaxCanvasSize,
				fmt.Sprintf("Para canvas, o lado menor não pode exceder %gcm", MaxCanvasSize))
		}
		if cfg.ProductType == model.ProductPrintFrameGlass {
			f.fail(FieldProduct, CodeCanvasNoGlass, "Canvas não pode ter vidro")
		}
	} else if minSide > MaxRegularSize {
		f.fail(FieldDimensions, CodeMaxRegularSize,
			fmt.Sprintf("O lado menor não pode exceder %gcm", MaxRegularSize))
	}

	if cfg.ProductType == model.ProductPrintFrameGlass {
		if maxSide > MaxGlassLength {
			f.fail(FieldDimensions, CodeMaxGlassLength,
				fmt.Sprintf("Com vidro, o lado maior não pode exceder %gcm", MaxGlassLength))
		}
		if minSide > MaxGlassWidth {
			f.fail(FieldDimensions, CodeMaxGlassWidth,
				fmt.Sprintf("Com vidro, o lado menor não pode exceder %gcm", MaxGlassWidth))
		}
	}

	if maxSide > LargePrintSize {
		f.warn(FieldDimensions, CodeLargePrint,
			"Impressões muito grandes podem ter tempo de produção estendido")
	}

	// NaN (0/0) compares false on both sides and produces no warning.
	aspect := img.TotalWidth / img.TotalHeight
	if aspect > MaxAspectRatio || aspect < MinAspectRatio {
		f.warn(FieldDimensions, CodeUnusualAspectRatio,
			"Proporção incomum pode afetar a qualidade visual")
	}

	return f
}

func compatibilityFindings(cfg model.Configuration) findings {
	var f findings

	// Also reported as CANVAS_NO_GLASS by the dimension rules; both codes are kept.
	if cfg.PaperType == model.PaperCanvas && cfg.ProductType == model.ProductPrintFrameGlass {
		f.fail(FieldConfiguration, CodeIncompatibleCombination, "Canvas não pode ser combinado com vidro")
	}

	if cfg.PaperType == model.PaperRag && cfg.ProductType == model.ProductPrintFrame {
		f.warn(FieldConfiguration, CodeProtectionRecommended,
			"Papel 100% algodão é recomendado com vidro para proteção")
	}

	return f
}

func fileFindings(file model.UploadedFile) findings {
	var f findings

	if file.SizeBytes > MaxFileSize {
		f.fail(FieldFile, CodeFileTooLarge, "Arquivo excede o tamanho máximo de 2GB")
	}

	if file.DPI != nil && *file.DPI < MinDPI {
		f.fail(FieldFile, CodeLowDPI, fmt.Sprintf("Resolução mínima de %g DPI necessária", MinDPI))
	}

	if !SupportedFormat(file.FileName) {
		f.fail(FieldFile, CodeUnsupportedFormat, "Formato de arquivo não suportado")
	}

	if file.ColorSpace != nil && *file.ColorSpace != RecommendedSpace {
		f.warn(FieldFile, CodeColorSpace, "Adobe RGB recomendado para melhor qualidade de cor")
	}

	return f
}

// SupportedFormat reports whether the file name carries an accepted extension,
// ignoring case. The extension is whatever follows the last dot, or the whole
// name when there is no dot, so a bare "jpg" is accepted.
func SupportedFormat(fileName string) bool {
	ext := fileName[strings.LastIndexByte(fileName, '.')+1:]
	return slices.Contains(SupportedFormats, strings.ToLower(ext))
}

// FieldErrors returns the errors attached to field, in order.
func (r Result) FieldErrors(field string) []model.Issue {
	return filterField(r.Errors, field)
}

// FieldWarnings returns the warnings attached to field, in order.
func (r Result) FieldWarnings(field string) []model.Issue {
	return filterField(r.Warnings, field)
}

func filterField(issues []model.Issue, field string) []model.Issue {
	var out []model.Issue
	for _, i := range issues {
		if i.Field == field {
			out = append(out, i)
		}
	}
	return out
}
