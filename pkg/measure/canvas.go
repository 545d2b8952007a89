package measure

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas"

	"github.com/matzehuels/fontastic/pkg/fonts"
)

// TextMeasurer measures text with real font metrics through tdewolff/canvas.
type TextMeasurer struct {
	color  string
	weight string
	logger *log.Logger

	mu     sync.Mutex
	family *canvas.FontFamily
	source fonts.Source
}

// Option configures a [TextMeasurer].
type Option func(*TextMeasurer)

// WithColor sets the fill colour reported with each measurement.
func WithColor(c string) Option {
	return func(m *TextMeasurer) { m.color = c }
}

// WithFontWeight sets the font weight reported with each measurement.
func WithFontWeight(w string) Option {
	return func(m *TextMeasurer) { m.weight = w }
}

// WithLogger sets the logger used to report which face was loaded.
func WithLogger(l *log.Logger) Option {
	return func(m *TextMeasurer) { m.logger = l }
}

// NewTextMeasurer loads the font at fontPath, or the default logo face when
// fontPath is empty.
func NewTextMeasurer(fontPath string, opts ...Option) (*TextMeasurer, error) {
	m := &TextMeasurer{
		color:  DefaultColor,
		weight: DefaultFontWeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.Default()
	}

	src, err := fonts.Logo(fontPath)
	if err != nil {
		return nil, err
	}
	family, err := LoadFamily(src)
	if err != nil {
		return nil, err
	}
	m.family = family
	m.source = src
	m.logger.Debug("loaded logo face", "name", src.Name, "path", src.Path, "embedded", src.Embedded())
	return m, nil
}

// LoadFamily registers src as the regular style of a new font family.
func LoadFamily(src fonts.Source) (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily(src.Name)
	if err := family.LoadFont(src.Data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load font %s: %w", src.Name, err)
	}
	return family, nil
}

// Source returns the face the measurer was built with.
func (m *TextMeasurer) Source() fonts.Source { return m.source }

// Measure sums the advance of text plus one letter spacing per character and
// uses the face's line height as the box height. A negative total width is
// reported as zero.
func (m *TextMeasurer) Measure(text string, fontSize, spacing float64) (Measurement, error) {
	if fontSize <= 0 {
		return Measurement{Color: m.color, FontWeight: m.weight}, nil
	}

	m.mu.Lock()
	face := m.family.Face(PxToPt(fontSize), canvas.Black, canvas.FontRegular, canvas.FontNormal)
	advance := face.TextWidth(text)
	lineHeight := face.Metrics().LineHeight
	m.mu.Unlock()

	width := MMToPx(advance) + float64(utf8.RuneCountInString(text))*spacing
	if text == "" || width < 0 {
		width = 0
	}

	return Measurement{
		Width:      width,
		Height:     MMToPx(lineHeight),
		Color:      m.color,
		FontWeight: m.weight,
	}, nil
}
