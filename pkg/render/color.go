package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
)

var namedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses a CSS colour: a name, #rgb, #rrggbb, #rrggbbaa,
// rgb(r, g, b) or rgba(r, g, b, a).
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	if strings.HasPrefix(s, "#") {
		switch len(s) {
		case 4, 7, 9:
			if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
				return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
			}
			return canvas.Hex(s), nil
		}
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}

	args, ok := functionArgs(s, "rgba")
	if !ok {
		args, ok = functionArgs(s, "rgb")
	}
	if !ok || (len(args) != 3 && len(args) != 4) {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := channel(args[i])
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
		}
		ch[i] = v
	}
	alpha := 1.0
	if len(args) == 4 {
		a, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
		}
		alpha = math.Min(math.Max(a, 0), 1)
	}

	// color.RGBA is alpha-premultiplied.
	premul := func(v uint8) uint8 { return uint8(math.Round(float64(v) * alpha)) }
	return color.RGBA{premul(ch[0]), premul(ch[1]), premul(ch[2]), uint8(math.Round(alpha * 255))}, nil
}

func functionArgs(s, name string) ([]string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	inner := s[len(name)+1 : len(s)-1]
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

func channel(s string) (uint8, error) {
	if rest, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return 0, err
		}
		return uint8(math.Round(math.Min(math.Max(v, 0), 100) * 2.55)), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return uint8(math.Round(math.Min(math.Max(v, 0), 255))), nil
}
