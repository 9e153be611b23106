package dimension

import (
	"testing"

	"github.com/fleveque/print-quote-service/internal/model"
)

func config(product model.ProductType, paper model.PaperType, w, h float64) model.Configuration {
	cfg := model.DefaultConfiguration()
	cfg.ProductType = product
	cfg.PaperType = paper
	cfg.Dimensions = model.Dimensions{Width: w, Height: h}
	return cfg
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		cfg        model.Configuration
		wantW      float64
		wantH      float64
		wantFrame  float64
		wantMat    float64
		wantBorder float64
	}{
		{
			name:  "print only without border",
			cfg:   config(model.ProductPrintOnly, model.PaperPhoto, 60, 40),
			wantW: 60, wantH: 40,
		},
		{
			name: "print only with 5cm border",
			cfg: func() model.Configuration {
				c := config(model.ProductPrintOnly, model.PaperPhoto, 60, 40)
				c.BorderSize = model.BorderLarge
				return c
			}(),
			wantW: 50, wantH: 30, wantBorder: 5,
		},
		{
			name:  "frame only",
			cfg:   config(model.ProductPrintFrame, model.PaperRag, 22, 22),
			wantW: 18, wantH: 18, wantFrame: 2,
		},
		{
			name: "frame with 7cm mat",
			cfg: func() model.Configuration {
				c := config(model.ProductPrintFrameGlass, model.PaperPhoto, 80, 60)
				c.PassepartoutSize = model.PassepartoutMedium
				return c
			}(),
			wantW: 62, wantH: 42, wantFrame: 2, wantMat: 7,
		},
		{
			name: "canvas ignores mat",
			cfg: func() model.Configuration {
				c := config(model.ProductPrintFrame, model.PaperCanvas, 80, 60)
				c.PassepartoutSize = model.PassepartoutLarge
				return c
			}(),
			wantW: 76, wantH: 56, wantFrame: 2,
		},
		{
			name: "framed ignores border",
			cfg: func() model.Configuration {
				c := config(model.ProductPrintFrame, model.PaperPhoto, 50, 50)
				c.BorderSize = model.BorderLarge
				return c
			}(),
			wantW: 46, wantH: 46, wantFrame: 2,
		},
		{
			name: "clamped at zero",
			cfg: func() model.Configuration {
				c := config(model.ProductPrintFrame, model.PaperPhoto, 10, 30)
				c.PassepartoutSize = model.PassepartoutLarge
				return c
			}(),
			wantW: 0, wantH: 6, wantFrame: 2, wantMat: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.cfg)
			if got.ImageWidth != tt.wantW || got.ImageHeight != tt.wantH {
				t.Errorf("image = %vx%v, want %vx%v", got.ImageWidth, got.ImageHeight, tt.wantW, tt.wantH)
			}
			if got.TotalWidth != tt.cfg.Dimensions.Width || got.TotalHeight != tt.cfg.Dimensions.Height {
				t.Errorf("total = %vx%v, want echo of input", got.TotalWidth, got.TotalHeight)
			}
			if got.FrameWidth != tt.wantFrame || got.PassepartoutWidth != tt.wantMat || got.BorderWidth != tt.wantBorder {
				t.Errorf("layers = frame %v mat %v border %v, want %v %v %v",
					got.FrameWidth, got.PassepartoutWidth, got.BorderWidth,
					tt.wantFrame, tt.wantMat, tt.wantBorder)
			}
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	cfg := config(model.ProductPrintFrame, model.PaperPhoto, 70, 50)
	cfg.PassepartoutSize = model.PassepartoutSmall

	if Resolve(cfg) != Resolve(cfg) {
		t.Error("expected identical results for the same configuration")
	}
}

func TestMinTotalSize(t *testing.T) {
	printOnly := config(model.ProductPrintOnly, model.PaperPhoto, 60, 40)
	printOnly.BorderSize = model.BorderMedium
	if got := MinTotalSize(printOnly); got != 26 {
		t.Errorf("print only with 3cm border: got %v, want 26", got)
	}

	framed := config(model.ProductPrintFrame, model.PaperRag, 60, 40)
	framed.PassepartoutSize = model.PassepartoutLarge
	if got := MinTotalSize(framed); got != 44 {
		t.Errorf("frame with 10cm mat: got %v, want 44", got)
	}

	// A total of exactly MinTotalSize resolves to exactly MinImageSize.
	framed.Dimensions = model.Dimensions{Width: 44, Height: 44}
	img := Resolve(framed)
	if img.ImageWidth != MinImageSize || img.ImageHeight != MinImageSize {
		t.Errorf("expected %v image, got %vx%v", MinImageSize, img.ImageWidth, img.ImageHeight)
	}
	if img.MinTotalSide != 44 {
		t.Errorf("resolved min total side = %v, want 44", img.MinTotalSide)
	}
}
