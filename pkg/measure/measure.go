// Package measure reports the rendered size of logo text.
//
// A browser would read the bounding box of the live preview element. Here a
// [Measurer] computes the same box from font metrics, in CSS pixels, along
// with the computed fill colour and font weight the export should carry.
package measure

import (
	"math"
)

// Default computed style of the preview text.
const (
	DefaultColor      = "rgb(10, 10, 10)"
	DefaultFontWeight = "500"
)

// CSS and typographic unit conversions.
const (
	mmPerPx = 25.4 / 96
	ptPerPx = 0.75
)

// Measurement is the bounding box and computed style of rendered text.
// Width and Height are in CSS pixels.
type Measurement struct {
	Width      float64
	Height     float64
	Color      string
	FontWeight string
}

// Empty reports whether nothing visible was rendered.
func (m Measurement) Empty() bool {
	return m.Width <= 0 || m.Height <= 0 || math.IsNaN(m.Width) || math.IsNaN(m.Height)
}

// Measurer measures text set at fontSize pixels with spacing pixels of
// letter spacing after every character.
type Measurer interface {
	Measure(text string, fontSize, spacing float64) (Measurement, error)
}

// Func adapts a function to [Measurer].
type Func func(text string, fontSize, spacing float64) (Measurement, error)

// Measure calls f.
func (f Func) Measure(text string, fontSize, spacing float64) (Measurement, error) {
	return f(text, fontSize, spacing)
}

// Fixed always reports the same measurement. Useful when the box is already
// known, and in tests.
type Fixed Measurement

// Measure returns the fixed measurement.
func (f Fixed) Measure(string, float64, float64) (Measurement, error) {
	return Measurement(f), nil
}

// PxToMM converts CSS pixels to millimetres.
func PxToMM(px float64) float64 { return px * mmPerPx }

// MMToPx converts millimetres to CSS pixels.
func MMToPx(mm float64) float64 { return mm / mmPerPx }

// PxToPt converts CSS pixels to points.
func PxToPt(px float64) float64 { return px * ptPerPx }
