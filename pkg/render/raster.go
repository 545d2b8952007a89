package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MaxSurfaceSize is the largest raster surface side, in pixels.
const MaxSurfaceSize = 16384

// DefaultScale is the export scale factor for PNGs.
const DefaultScale = 2.0

// ErrSurface is returned when a raster surface cannot be allocated.
var ErrSurface = errors.New("raster surface unavailable")

// Rasterizer decodes an SVG document and paints it onto a transparent
// surface of exactly width x height pixels, stretched to fill it.
//
// Implementations must release any temporary resource they create for the
// decode before returning, whether or not the decode succeeded, and must
// stop waiting when ctx is done.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, width, height int) (image.Image, error)
}

// SurfaceSize returns the pixel size of a raster surface for a document of
// width x height CSS pixels at scale. Fractional pixels are truncated.
// It fails with [ErrSurface] for sizes that are zero or exceed
// [MaxSurfaceSize] on either side.
func SurfaceSize(width, height, scale float64) (int, int, error) {
	w, h := math.Trunc(width*scale), math.Trunc(height*scale)
	if math.IsNaN(w) || math.IsNaN(h) || w < 1 || h < 1 || w > MaxSurfaceSize || h > MaxSurfaceSize {
		return 0, 0, fmt.Errorf("%w: %vx%v pixels", ErrSurface, w, h)
	}
	return int(w), int(h), nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("encode png: empty image")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fitSurface stretches img to exactly width x height pixels.
func fitSurface(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
