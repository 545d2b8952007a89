package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/matzehuels/fontastic/pkg/measure"
)

// CanvasRasterizer draws the SVG subset produced by [BuildSVG] with
// tdewolff/canvas. Every text element is set in a single font family,
// whatever its font-family declaration says.
type CanvasRasterizer struct {
	mu     sync.Mutex
	family *canvas.FontFamily
}

var _ Rasterizer = (*CanvasRasterizer)(nil)

// NewCanvasRasterizer returns a rasterizer that sets text in family.
func NewCanvasRasterizer(family *canvas.FontFamily) *CanvasRasterizer {
	return &CanvasRasterizer{family: family}
}

// Rasterize implements [Rasterizer].
func (r *CanvasRasterizer) Rasterize(ctx context.Context, svg []byte, width, height int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := Decode(svg)
	if err != nil {
		return nil, err
	}

	vbW, vbH := doc.ViewBox[2], doc.ViewBox[3]
	if vbW <= 0 || vbH <= 0 {
		return nil, fmt.Errorf("svg has an empty viewBox")
	}

	c := canvas.New(measure.PxToMM(vbW), measure.PxToMM(vbH))
	cctx := canvas.NewContext(c)
	cctx.SetCoordSystem(canvas.CartesianIV)

	r.mu.Lock()
	for _, t := range doc.Texts {
		if err = r.drawText(cctx, doc, t); err != nil {
			break
		}
	}
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dpmm := float64(width) / measure.PxToMM(vbW)
	img := rasterizer.Draw(c, canvas.DPMM(dpmm), canvas.DefaultColorSpace)
	return fitSurface(img, width, height), nil
}

func (r *CanvasRasterizer) drawText(cctx *canvas.Context, doc *Document, t Text) error {
	if t.Content == "" {
		return nil
	}
	style := doc.Computed(t)

	size, err := ParsePx(valueOr(style["font-size"], "16px"))
	if err != nil {
		return fmt.Errorf("font-size: %w", err)
	}
	if size <= 0 {
		return nil
	}
	spacing := 0.0
	if v := style["letter-spacing"]; v != "" && v != "normal" {
		if spacing, err = ParsePx(v); err != nil {
			return fmt.Errorf("letter-spacing: %w", err)
		}
	}
	fill, err := ParseColor(valueOr(style["fill"], "black"))
	if err != nil {
		return fmt.Errorf("fill: %w", err)
	}

	face := r.family.Face(measure.PxToPt(size), color.Color(fill), canvas.FontRegular, canvas.FontNormal)
	spacingMM := measure.PxToMM(spacing)
	runes := utf8.RuneCountInString(t.Content)
	total := face.TextWidth(t.Content) + float64(runes)*spacingMM

	x := measure.PxToMM(t.X.Resolve(doc.ViewBox[2]))
	y := measure.PxToMM(t.Y.Resolve(doc.ViewBox[3]))

	switch style["text-anchor"] {
	case "middle":
		x -= total / 2
	case "end":
		x -= total
	}

	metrics := face.Metrics()
	switch style["dominant-baseline"] {
	case "central", "middle":
		y += (metrics.Ascent - metrics.Descent) / 2
	case "hanging", "text-before-edge":
		y += metrics.Ascent
	}

	// Each rune sits at the advance of the prefix before it plus the
	// accumulated letter spacing, so kerning matches the measurement.
	i := 0
	for offset, ch := range t.Content {
		if !strings.ContainsRune(" \t", ch) {
			pos := x + face.TextWidth(t.Content[:offset]) + float64(i)*spacingMM
			cctx.DrawText(pos, y, canvas.NewTextLine(face, string(ch), canvas.Left))
		}
		i++
	}
	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
