package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/fontastic/pkg/design"
	"github.com/matzehuels/fontastic/pkg/fonts"
	"github.com/matzehuels/fontastic/pkg/measure"
)

// Layout defaults for exported SVGs, in CSS pixels.
const (
	DefaultPadding   = 20.0
	DefaultMinWidth  = 100.0
	DefaultMinHeight = 50.0
)

// TextClass is the CSS class carried by the logo text element.
const TextClass = "logo-text"

// SVGInput is everything needed to build the export document.
// A nil Measurement means the text has not been rendered.
type SVGInput struct {
	Text        string
	FontSize    int
	Spacing     float64
	Measurement *measure.Measurement
}

// Artifact is a built SVG document and its pixel size.
// It is derived fresh on every export and never cached.
type Artifact struct {
	SVG       string
	Width     float64
	Height    float64
	CleanText string
}

// Empty reports whether the artifact has nothing to draw.
func (a Artifact) Empty() bool {
	return a.SVG == "" || a.Width == 0 || a.Height == 0
}

// FileBaseName is the download base name for the artifact.
func (a Artifact) FileBaseName() string {
	return design.FileBaseName(a.CleanText)
}

// SVGOption configures [BuildSVG].
type SVGOption func(*svgBuilder)

type svgBuilder struct {
	padding   float64
	minWidth  float64
	minHeight float64
}

// WithPadding sets the padding added on each side of the measured box.
func WithPadding(p float64) SVGOption { return func(b *svgBuilder) { b.padding = p } }

// WithMinSize sets the smallest document size.
func WithMinSize(w, h float64) SVGOption {
	return func(b *svgBuilder) { b.minWidth, b.minHeight = w, h }
}

// BuildSVG builds the standalone export document. When the text has no
// measurement, or the measured box has zero width or height, it returns an
// artifact with empty content and a 0x0 size; CleanText is always set.
func BuildSVG(in SVGInput, opts ...SVGOption) Artifact {
	b := svgBuilder{
		padding:   DefaultPadding,
		minWidth:  DefaultMinWidth,
		minHeight: DefaultMinHeight,
	}
	for _, opt := range opts {
		opt(&b)
	}

	art := Artifact{CleanText: design.CleanText(in.Text)}
	m := in.Measurement
	if m == nil || m.Empty() {
		return art
	}

	art.Width = math.Max(m.Width+2*b.padding, b.minWidth)
	art.Height = math.Max(m.Height+2*b.padding, b.minHeight)

	weight := m.FontWeight
	if weight == "" {
		weight = measure.DefaultFontWeight
	}
	fill := m.Color
	if fill == "" {
		fill = measure.DefaultColor
	}

	w, h := formatNumber(art.Width), formatNumber(art.Height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n", w, h, w, h)
	buf.WriteString("  <style>\n")
	fmt.Fprintf(&buf, "    .%s {\n", TextClass)
	fmt.Fprintf(&buf, "      font-family: %s;\n", fonts.FallbackFontFamily)
	fmt.Fprintf(&buf, "      font-size: %dpx;\n", in.FontSize)
	fmt.Fprintf(&buf, "      font-weight: %s;\n", weight)
	fmt.Fprintf(&buf, "      letter-spacing: %spx;\n", formatNumber(in.Spacing))
	fmt.Fprintf(&buf, "      fill: %s;\n", fill)
	buf.WriteString("      text-anchor: middle;\n")
	buf.WriteString("      dominant-baseline: central;\n")
	buf.WriteString("    }\n")
	buf.WriteString("  </style>\n")
	fmt.Fprintf(&buf, `  <text x="50%%" y="50%%" class="%s">%s</text>`+"\n", TextClass, EscapeText(in.Text))
	buf.WriteString("</svg>\n")

	art.SVG = buf.String()
	return art
}

// EscapeText escapes &, < and > for SVG text content, in that order.
// Quotes are left alone; the text never lands in an attribute.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// formatNumber prints v in its shortest decimal form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
