package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/matzehuels/fontastic/pkg/fonts"
	"github.com/matzehuels/fontastic/pkg/measure"
)

func newCanvasRasterizer(t *testing.T) *CanvasRasterizer {
	t.Helper()
	family, err := measure.LoadFamily(fonts.GoMedium())
	if err != nil {
		t.Fatal(err)
	}
	return NewCanvasRasterizer(family)
}

func TestSurfaceSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		scale   float64
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"2x", 350.5, 128, 2, 701, 256, false},
		{"truncates", 100.7, 50.3, 2, 201, 100, false},
		{"at limit", 8192, 100, 2, 16384, 200, false},
		{"over limit", 8193, 100, 2, 0, 0, true},
		{"zero", 0, 50, 2, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := SurfaceSize(tt.w, tt.h, tt.scale)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrSurface) {
					t.Errorf("error %v is not ErrSurface", err)
				}
				return
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(image.NewRGBA(image.Rect(0, 0, 4, 3)))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	if _, err := EncodePNG(image.NewRGBA(image.Rectangle{})); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestCanvasRasterizer(t *testing.T) {
	r := newCanvasRasterizer(t)
	art := BuildSVG(SVGInput{Text: "Fontastic", FontSize: 72, Spacing: 1, Measurement: measured(320, 90)})

	w, h, err := SurfaceSize(art.Width, art.Height, DefaultScale)
	if err != nil {
		t.Fatal(err)
	}
	img, err := r.Rasterize(context.Background(), []byte(art.SVG), w, h)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Fatalf("bounds = %v, want %dx%d", img.Bounds(), w, h)
	}

	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want transparent background", a)
	}
	if !hasInk(img) {
		t.Error("no text was drawn")
	}
}

func TestCanvasRasterizerDecodeError(t *testing.T) {
	r := newCanvasRasterizer(t)
	if _, err := r.Rasterize(context.Background(), []byte("<svg"), 10, 10); err == nil {
		t.Error("expected decode error")
	}
}

func TestCanvasRasterizerCancelled(t *testing.T) {
	r := newCanvasRasterizer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	art := BuildSVG(SVGInput{Text: "x", FontSize: 12, Measurement: measured(10, 10)})
	if _, err := r.Rasterize(ctx, []byte(art.SVG), 200, 100); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRSVGRasterizer(t *testing.T) {
	r := &RSVGRasterizer{TempDir: t.TempDir()}
	if !r.Available() {
		t.Skip("rsvg-convert not installed")
	}

	art := BuildSVG(SVGInput{Text: "Logo", FontSize: 40, Measurement: measured(120, 50)})
	img, err := r.Rasterize(context.Background(), []byte(art.SVG), 320, 180)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 180 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestRSVGRasterizerMissingCommand(t *testing.T) {
	r := &RSVGRasterizer{Command: "fontastic-no-such-rsvg"}
	if r.Available() {
		t.Skip("unexpected command on PATH")
	}
	if _, err := r.Rasterize(context.Background(), []byte("<svg/>"), 10, 10); err == nil {
		t.Error("expected error when rsvg-convert is missing")
	}
}

func hasInk(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				return true
			}
		}
	}
	return false
}
