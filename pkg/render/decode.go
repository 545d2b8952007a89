package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Document is the subset of SVG that [BuildSVG] produces, read back for
// rasterization.
type Document struct {
	Width   float64
	Height  float64
	ViewBox [4]float64
	Rules   map[string]Style // selector -> declarations
	Texts   []Text
}

// Style maps CSS property names to their raw values.
type Style map[string]string

// Text is a single <text> element.
type Text struct {
	X       Length
	Y       Length
	Class   string
	Style   Style // inline style attribute
	Content string
}

// Length is an SVG coordinate, either absolute user units or a fraction of
// the viewport.
type Length struct {
	Value   float64
	Percent bool
}

// Resolve returns the length in user units against a viewport extent.
func (l Length) Resolve(extent float64) float64 {
	if l.Percent {
		return l.Value / 100 * extent
	}
	return l.Value
}

// Computed returns the style of t: its class rule overlaid with its inline
// style.
func (d *Document) Computed(t Text) Style {
	out := Style{}
	for _, class := range strings.Fields(t.Class) {
		for k, v := range d.Rules["."+class] {
			out[k] = v
		}
	}
	for k, v := range t.Style {
		out[k] = v
	}
	return out
}

type svgElement struct {
	XMLName xml.Name      `xml:"svg"`
	Width   string        `xml:"width,attr"`
	Height  string        `xml:"height,attr"`
	ViewBox string        `xml:"viewBox,attr"`
	Styles  []string      `xml:"style"`
	Texts   []textElement `xml:"text"`
}

type textElement struct {
	X       string `xml:"x,attr"`
	Y       string `xml:"y,attr"`
	Class   string `xml:"class,attr"`
	Style   string `xml:"style,attr"`
	Content string `xml:",chardata"`
}

// Decode parses an SVG document. The root must be <svg> with a positive
// size, taken from width/height or else the viewBox.
func Decode(data []byte) (*Document, error) {
	var root svgElement
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	doc := &Document{Rules: map[string]Style{}}

	if root.ViewBox != "" {
		vb, err := parseViewBox(root.ViewBox)
		if err != nil {
			return nil, err
		}
		doc.ViewBox = vb
	}

	var err error
	if doc.Width, err = parseSize(root.Width, doc.ViewBox[2]); err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	if doc.Height, err = parseSize(root.Height, doc.ViewBox[3]); err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("svg has no size")
	}
	if root.ViewBox == "" {
		doc.ViewBox = [4]float64{0, 0, doc.Width, doc.Height}
	}

	for _, sheet := range root.Styles {
		rules, err := ParseStylesheet(sheet)
		if err != nil {
			return nil, fmt.Errorf("style: %w", err)
		}
		for sel, style := range rules {
			if doc.Rules[sel] == nil {
				doc.Rules[sel] = Style{}
			}
			for k, v := range style {
				doc.Rules[sel][k] = v
			}
		}
	}

	for _, te := range root.Texts {
		t := Text{Class: te.Class, Content: te.Content}
		if t.X, err = parseLength(te.X); err != nil {
			return nil, fmt.Errorf("text x: %w", err)
		}
		if t.Y, err = parseLength(te.Y); err != nil {
			return nil, fmt.Errorf("text y: %w", err)
		}
		if te.Style != "" {
			if t.Style, err = ParseDeclarations(te.Style); err != nil {
				return nil, fmt.Errorf("text style: %w", err)
			}
		}
		doc.Texts = append(doc.Texts, t)
	}
	return doc, nil
}

// ParseStylesheet parses CSS rulesets into a map keyed by selector.
// Comments and at-rules are skipped.
func ParseStylesheet(sheet string) (map[string]Style, error) {
	rules := map[string]Style{}
	p := css.NewParser(parse.NewInputString(sheet), false)

	var pending, selectors []string
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.Err() == io.EOF {
				return rules, nil
			}
			return nil, p.Err()
		case css.QualifiedRuleGrammar:
			pending = append(pending, splitSelectors(joinTokens(p.Values()))...)
		case css.BeginRulesetGrammar:
			selectors = append(pending, splitSelectors(joinTokens(p.Values()))...)
			pending = nil
			for _, sel := range selectors {
				if rules[sel] == nil {
					rules[sel] = Style{}
				}
			}
		case css.EndRulesetGrammar:
			selectors = nil
		case css.DeclarationGrammar:
			name := strings.ToLower(string(data))
			value := joinTokens(p.Values())
			for _, sel := range selectors {
				rules[sel][name] = value
			}
		}
	}
}

// ParseDeclarations parses an inline style attribute such as
// "fill: red; font-size: 12px".
func ParseDeclarations(decls string) (Style, error) {
	style := Style{}
	p := css.NewParser(parse.NewInputString(decls), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.Err() == io.EOF {
				return style, nil
			}
			return nil, p.Err()
		case css.DeclarationGrammar:
			style[strings.ToLower(string(data))] = joinTokens(p.Values())
		}
	}
}

// joinTokens rebuilds a value from parser tokens. The parser drops
// whitespace, so a single space is put back after commas and between
// adjacent words: "rgb(10, 10, 10)", "'Montserrat', sans-serif", "Open Sans".
func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 && needsSpace(tokens[i-1].TokenType, t.TokenType) {
			sb.WriteByte(' ')
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

func needsSpace(prev, next css.TokenType) bool {
	if prev == css.CommaToken {
		return true
	}
	return endsWord(prev) && startsWord(next)
}

func endsWord(tt css.TokenType) bool {
	switch tt {
	case css.IdentToken, css.NumberToken, css.DimensionToken, css.PercentageToken,
		css.StringToken, css.HashToken, css.URLToken, css.RightParenthesisToken:
		return true
	}
	return false
}

func startsWord(tt css.TokenType) bool {
	switch tt {
	case css.IdentToken, css.NumberToken, css.DimensionToken, css.PercentageToken,
		css.StringToken, css.HashToken, css.URLToken, css.FunctionToken:
		return true
	}
	return false
}

func splitSelectors(s string) []string {
	var out []string
	for _, sel := range strings.Split(s, ",") {
		if sel = strings.TrimSpace(sel); sel != "" {
			out = append(out, sel)
		}
	}
	return out
}

func parseViewBox(s string) ([4]float64, error) {
	var vb [4]float64
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) != 4 {
		return vb, fmt.Errorf("invalid viewBox %q", s)
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return vb, fmt.Errorf("invalid viewBox %q", s)
		}
		vb[i] = v
	}
	return vb, nil
}

// parseSize reads a width or height attribute, falling back to the viewBox
// extent when the attribute is absent.
func parseSize(s string, fallback float64) (float64, error) {
	if s == "" {
		return fallback, nil
	}
	l, err := parseLength(s)
	if err != nil {
		return 0, err
	}
	return l.Resolve(fallback), nil
}

func parseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Length{}, nil
	}
	if rest, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return Length{}, fmt.Errorf("invalid length %q", s)
		}
		return Length{Value: v, Percent: true}, nil
	}
	v, err := ParsePx(s)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: v}, nil
}

// ParsePx parses a CSS length in pixels. A bare number counts as pixels.
func ParsePx(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v, nil
}
