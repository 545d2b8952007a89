package render

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"rgb(10, 10, 10)", color.RGBA{10, 10, 10, 255}, false},
		{"RGB(255,0,0)", color.RGBA{255, 0, 0, 255}, false},
		{"rgb(100%, 0%, 0%)", color.RGBA{255, 0, 0, 255}, false},
		{"rgba(255, 255, 255, 0)", color.RGBA{0, 0, 0, 0}, false},
		{"black", color.RGBA{0, 0, 0, 255}, false},
		{"#ffffff", color.RGBA{255, 255, 255, 255}, false},
		{"#000", color.RGBA{0, 0, 0, 255}, false},
		{"rgb(1, 2)", color.RGBA{}, true},
		{"rgb(a, b, c)", color.RGBA{}, true},
		{"#12", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
		{"chartreuse-ish", color.RGBA{}, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
