package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/fontastic/pkg/measure"
)

func measured(w, h float64) *measure.Measurement {
	return &measure.Measurement{Width: w, Height: h, Color: measure.DefaultColor, FontWeight: "500"}
}

func TestBuildSVGDefaults(t *testing.T) {
	art := BuildSVG(SVGInput{Text: "Fontastic", FontSize: 72, Spacing: 1, Measurement: measured(310.5, 88)})

	if art.Width != 350.5 || art.Height != 128 {
		t.Errorf("size = %vx%v, want 350.5x128", art.Width, art.Height)
	}
	if art.CleanText != "Fontastic" {
		t.Errorf("CleanText = %q", art.CleanText)
	}

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="350.5" height="128" viewBox="0 0 350.5 128">`,
		`font-family: 'Montserrat', sans-serif;`,
		`font-size: 72px;`,
		`font-weight: 500;`,
		`letter-spacing: 1px;`,
		`fill: rgb(10, 10, 10);`,
		`text-anchor: middle;`,
		`dominant-baseline: central;`,
		`<text x="50%" y="50%" class="logo-text">Fontastic</text>`,
	} {
		if !strings.Contains(art.SVG, want) {
			t.Errorf("SVG missing %q\n%s", want, art.SVG)
		}
	}
}

func TestBuildSVGMinimumSize(t *testing.T) {
	tests := []struct {
		name  string
		w, h  float64
		wantW float64
		wantH float64
	}{
		{"tiny", 1, 1, 100, 50},
		{"narrow", 30, 80, 100, 120},
		{"short", 200, 5, 240, 50},
		{"large", 500, 300, 540, 340},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art := BuildSVG(SVGInput{Text: "x", FontSize: 12, Measurement: measured(tt.w, tt.h)})
			if art.Width != tt.wantW || art.Height != tt.wantH {
				t.Errorf("size = %vx%v, want %vx%v", art.Width, art.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestBuildSVGRealMeasurement(t *testing.T) {
	m, err := measure.NewTextMeasurer("")
	if err != nil {
		t.Fatal(err)
	}
	box, err := m.Measure("Fontastic", 72, 1)
	if err != nil {
		t.Fatal(err)
	}

	art := BuildSVG(SVGInput{Text: "Fontastic", FontSize: 72, Spacing: 1, Measurement: &box})
	if art.Width < 100 || art.Height < 50 {
		t.Errorf("size = %vx%v, want at least 100x50", art.Width, art.Height)
	}
	doc, err := Decode([]byte(art.SVG))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Texts) != 1 || doc.Texts[0].Content != "Fontastic" {
		t.Errorf("texts = %+v", doc.Texts)
	}
}

func TestBuildSVGEmpty(t *testing.T) {
	tests := []struct {
		name string
		m    *measure.Measurement
	}{
		{"no measurement", nil},
		{"zero box", measured(0, 0)},
		{"zero width", measured(0, 40)},
		{"zero height", measured(40, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art := BuildSVG(SVGInput{Text: "  My Logo ", FontSize: 72, Measurement: tt.m})
			if !art.Empty() || art.SVG != "" || art.Width != 0 || art.Height != 0 {
				t.Errorf("artifact = %+v, want empty", art)
			}
			if art.CleanText != "My Logo" {
				t.Errorf("CleanText = %q, want %q", art.CleanText, "My Logo")
			}
		})
	}
}

func TestBuildSVGEscapesText(t *testing.T) {
	art := BuildSVG(SVGInput{Text: `<b>&"x"'`, FontSize: 20, Measurement: measured(50, 20)})
	want := `class="logo-text">&lt;b&gt;&amp;"x"'</text>`
	if !strings.Contains(art.SVG, want) {
		t.Errorf("SVG missing %q\n%s", want, art.SVG)
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<tag>", "&lt;tag&gt;"},
		{"&lt;", "&amp;lt;"},
		{`"quoted" 'single'`, `"quoted" 'single'`},
	}

	for _, tt := range tests {
		if got := EscapeText(tt.in); got != tt.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildSVGNumbers(t *testing.T) {
	art := BuildSVG(SVGInput{Text: "x", FontSize: 40, Spacing: -2.5, Measurement: measured(100.25, 30)})
	if !strings.Contains(art.SVG, "letter-spacing: -2.5px;") {
		t.Errorf("spacing not printed in shortest form:\n%s", art.SVG)
	}
	if !strings.Contains(art.SVG, `width="140.25"`) {
		t.Errorf("width not printed in shortest form:\n%s", art.SVG)
	}
}

func TestBuildSVGOptions(t *testing.T) {
	art := BuildSVG(SVGInput{Text: "x", FontSize: 12, Measurement: measured(10, 10)},
		WithPadding(5), WithMinSize(0, 0))
	if art.Width != 20 || art.Height != 20 {
		t.Errorf("size = %vx%v, want 20x20", art.Width, art.Height)
	}
}

func TestBuildSVGComputedStyle(t *testing.T) {
	m := &measure.Measurement{Width: 10, Height: 10, Color: "#336699", FontWeight: "700"}
	art := BuildSVG(SVGInput{Text: "x", FontSize: 12, Measurement: m})
	if !strings.Contains(art.SVG, "fill: #336699;") || !strings.Contains(art.SVG, "font-weight: 700;") {
		t.Errorf("computed style not carried:\n%s", art.SVG)
	}
}

func TestArtifactFileBaseName(t *testing.T) {
	art := BuildSVG(SVGInput{Text: "My  Logo", FontSize: 12})
	if got := art.FileBaseName(); got != "My_Logo" {
		t.Errorf("FileBaseName() = %q, want My_Logo", got)
	}
}
