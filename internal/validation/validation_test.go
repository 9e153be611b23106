package validation

import (
	"testing"

	"github.com/fleveque/print-quote-service/internal/model"
)

func codes(issues []model.Issue) map[string]bool {
	out := make(map[string]bool, len(issues))
	for _, i := range issues {
		out[i.Code] = true
	}
	return out
}

func configWith(mutate func(*model.Configuration)) model.Configuration {
	cfg := model.DefaultConfiguration()
	mutate(&cfg)
	return cfg
}

func TestValidate_DefaultIsValid(t *testing.T) {
	r := Validate(model.DefaultConfiguration())

	if !r.IsValid {
		t.Fatalf("expected default configuration to be valid, got errors %+v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", r.Warnings)
	}
	// Empty, not nil, so JSON renders [] instead of null.
	if r.Errors == nil || r.Warnings == nil {
		t.Error("expected non-nil issue slices")
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name         string
		cfg          model.Configuration
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name: "frame only 22x22 leaves an 18cm image",
			cfg: configWith(func(c *model.Configuration) {
				c.ProductType = model.ProductPrintFrame
				c.Dimensions = model.Dimensions{Width: 22, Height: 22}
			}),
			wantErrors: []string{CodeMinImageSize},
		},
		{
			name: "tiny print is always too small",
			cfg: configWith(func(c *model.Configuration) {
				c.Dimensions = model.Dimensions{Width: 10, Height: 10}
			}),
			wantErrors: []string{CodeMinImageSize},
		},
		{
			name: "total below 1cm",
			cfg: configWith(func(c *model.Configuration) {
				c.Dimensions = model.Dimensions{Width: 0.5, Height: 30}
			}),
			wantErrors:   []string{CodeMinTotalSize, CodeMinImageSize},
			wantWarnings: []string{CodeUnusualAspectRatio},
		},
		{
			name: "canvas over 100cm on the short side",
			cfg: configWith(func(c *model.Configuration) {
				c.PaperType = model.PaperCanvas
				c.Dimensions = model.Dimensions{Width: 105, Height: 120}
			}),
			wantErrors: []string{CodeMaxCanvasSize},
		},
		{
			name: "paper over 110cm on the short side",
			cfg: configWith(func(c *model.Configuration) {
				c.Dimensions = model.Dimensions{Width: 115, Height: 140}
			}),
			wantErrors: []string{CodeMaxRegularSize},
		},
		{
			name: "glass over 180cm on the long side",
			cfg: configWith(func(c *model.Configuration) {
				c.ProductType = model.ProductPrintFrameGlass
				c.Dimensions = model.Dimensions{Width: 190, Height: 100}
			}),
			wantErrors:   []string{CodeMaxGlassLength},
			wantWarnings: []string{CodeLargePrint},
		},
		{
			name: "glass over 110cm on the short side",
			cfg: configWith(func(c *model.Configuration) {
				c.ProductType = model.ProductPrintFrameGlass
				c.Dimensions = model.Dimensions{Width: 120, Height: 120}
			}),
			wantErrors: []string{CodeMaxRegularSize, CodeMaxGlassWidth},
		},
		{
			name: "large print warning only",
			cfg: configWith(func(c *model.Configuration) {
				c.Dimensions = model.Dimensions{Width: 160, Height: 100}
			}),
			wantWarnings: []string{CodeLargePrint},
		},
		{
			name: "panoramic aspect ratio",
			cfg: configWith(func(c *model.Configuration) {
				c.Dimensions = model.Dimensions{Width: 100, Height: 30}
			}),
			wantWarnings: []string{CodeUnusualAspectRatio},
		},
		{
			name: "tall aspect ratio",
			cfg: configWith(func(c *model.Configuration) {
				c.Dimensions = model.Dimensions{Width: 30, Height: 100}
			}),
			wantWarnings: []string{CodeUnusualAspectRatio},
		},
		{
			name: "rag paper framed without glass",
			cfg: configWith(func(c *model.Configuration) {
				c.ProductType = model.ProductPrintFrame
				c.PaperType = model.PaperRag
			}),
			wantWarnings: []string{CodeProtectionRecommended},
		},
		{
			name: "rag paper behind glass is fine",
			cfg: configWith(func(c *model.Configuration) {
				c.ProductType = model.ProductPrintFrameGlass
				c.PaperType = model.PaperRag
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(tt.cfg)

			gotErrors := codes(r.Errors)
			gotWarnings := codes(r.Warnings)
			if len(gotErrors) != len(tt.wantErrors) {
				t.Errorf("errors = %+v, want codes %v", r.Errors, tt.wantErrors)
			}
			for _, c := range tt.wantErrors {
				if !gotErrors[c] {
					t.Errorf("missing error %s in %+v", c, r.Errors)
				}
			}
			if len(gotWarnings) != len(tt.wantWarnings) {
				t.Errorf("warnings = %+v, want codes %v", r.Warnings, tt.wantWarnings)
			}
			for _, c := range tt.wantWarnings {
				if !gotWarnings[c] {
					t.Errorf("missing warning %s in %+v", c, r.Warnings)
				}
			}
			if r.IsValid != (len(tt.wantErrors) == 0) {
				t.Errorf("IsValid = %v with errors %+v", r.IsValid, r.Errors)
			}
		})
	}
}

func TestValidate_CanvasGlassReportsBothCodes(t *testing.T) {
	cfg := configWith(func(c *model.Configuration) {
		c.ProductType = model.ProductPrintFrameGlass
		c.PaperType = model.PaperCanvas
	})

	r := Validate(cfg)

	if r.IsValid {
		t.Fatal("expected canvas with glass to be invalid")
	}
	got := codes(r.Errors)
	if !got[CodeCanvasNoGlass] || !got[CodeIncompatibleCombination] {
		t.Errorf("expected both %s and %s, got %+v", CodeCanvasNoGlass, CodeIncompatibleCombination, r.Errors)
	}
	if len(r.FieldErrors(FieldProduct)) == 0 || len(r.FieldErrors(FieldConfiguration)) == 0 {
		t.Error("expected errors on both product and configuration fields")
	}
}

func TestValidate_MinImageSizeForAnySmallConfiguration(t *testing.T) {
	for _, product := range model.AllProductTypes {
		for _, paper := range model.AllPaperTypes {
			cfg := configWith(func(c *model.Configuration) {
				c.ProductType = product
				c.PaperType = paper
				c.Dimensions = model.Dimensions{Width: 10, Height: 10}
			})
			if !codes(Validate(cfg).Errors)[CodeMinImageSize] {
				t.Errorf("%s on %s: expected %s", product, paper, CodeMinImageSize)
			}
		}
	}
}

func TestValidate_WarningsDoNotBlock(t *testing.T) {
	cfg := configWith(func(c *model.Configuration) {
		c.ProductType = model.ProductPrintFrame
		c.PaperType = model.PaperRag
		c.Dimensions = model.Dimensions{Width: 100, Height: 30}
	})

	r := Validate(cfg)
	if !r.IsValid {
		t.Fatalf("expected valid, got %+v", r.Errors)
	}
	if len(r.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %+v", r.Warnings)
	}
}

func ptr[T any](v T) *T { return &v }

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name         string
		file         model.UploadedFile
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name: "good tiff",
			file: model.UploadedFile{FileName: "landscape.tiff", SizeBytes: 500 << 20, DPI: ptr(300.0), ColorSpace: ptr("Adobe RGB")},
		},
		{
			name: "unknown measurements are not checked",
			file: model.UploadedFile{FileName: "scan.PDF", SizeBytes: 1 << 20},
		},
		{
			name:       "too large",
			file:       model.UploadedFile{FileName: "huge.psd", SizeBytes: 2<<30 + 1},
			wantErrors: []string{CodeFileTooLarge},
		},
		{
			name: "exactly 2GiB is accepted",
			file: model.UploadedFile{FileName: "edge.psd", SizeBytes: 2 << 30},
		},
		{
			name:       "low dpi",
			file:       model.UploadedFile{FileName: "web.jpg", SizeBytes: 1 << 20, DPI: ptr(72.0)},
			wantErrors: []string{CodeLowDPI},
		},
		{
			name:       "png is not accepted",
			file:       model.UploadedFile{FileName: "poster.png", SizeBytes: 1 << 20},
			wantErrors: []string{CodeUnsupportedFormat},
		},
		{
			name:       "no extension",
			file:       model.UploadedFile{FileName: "README", SizeBytes: 10},
			wantErrors: []string{CodeUnsupportedFormat},
		},
		{
			name: "bare extension as name",
			file: model.UploadedFile{FileName: "tif", SizeBytes: 10},
		},
		{
			name:         "srgb warns",
			file:         model.UploadedFile{FileName: "photo.JPEG", SizeBytes: 1 << 20, ColorSpace: ptr("sRGB")},
			wantWarnings: []string{CodeColorSpace},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateFile(tt.file)
			if len(r.Errors) != len(tt.wantErrors) || len(r.Warnings) != len(tt.wantWarnings) {
				t.Fatalf("got errors %+v warnings %+v, want %v / %v", r.Errors, r.Warnings, tt.wantErrors, tt.wantWarnings)
			}
			for _, c := range tt.wantErrors {
				if !codes(r.Errors)[c] {
					t.Errorf("missing error %s", c)
				}
			}
			for _, c := range tt.wantWarnings {
				if !codes(r.Warnings)[c] {
					t.Errorf("missing warning %s", c)
				}
			}
		})
	}
}

func TestValidate_IncludesUploadedFile(t *testing.T) {
	cfg := configWith(func(c *model.Configuration) {
		c.UploadedFile = &model.UploadedFile{FileName: "art.bmp", SizeBytes: 100}
	})

	r := Validate(cfg)
	if r.IsValid {
		t.Fatal("expected invalid due to file format")
	}
	errs := r.FieldErrors(FieldFile)
	if len(errs) != 1 || errs[0].Code != CodeUnsupportedFormat {
		t.Errorf("file errors = %+v", errs)
	}
	if len(r.FieldErrors(FieldDimensions)) != 0 {
		t.Errorf("unexpected dimension errors %+v", r.FieldErrors(FieldDimensions))
	}
}

func TestResult_FieldWarnings(t *testing.T) {
	cfg := configWith(func(c *model.Configuration) {
		c.ProductType = model.ProductPrintFrame
		c.PaperType = model.PaperRag
		c.Dimensions = model.Dimensions{Width: 200, Height: 60}
	})

	r := Validate(cfg)
	if got := r.FieldWarnings(FieldConfiguration); len(got) != 1 || got[0].Code != CodeProtectionRecommended {
		t.Errorf("configuration warnings = %+v", got)
	}
	if got := r.FieldWarnings(FieldDimensions); len(got) != 2 {
		t.Errorf("dimension warnings = %+v, want LARGE_PRINT and UNUSUAL_ASPECT_RATIO", got)
	}
}

func TestSupportedFormat(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"scan.tif", true},
		{"Scan.TIFF", true},
		{"archive.2024.psd", true},
		{"jpg", true},
		{"JPEG", true},
		{"photo", false},
		{"photo.", false},
		{".png", false},
		{"poster.png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := SupportedFormat(tt.name); got != tt.want {
			t.Errorf("SupportedFormat(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
