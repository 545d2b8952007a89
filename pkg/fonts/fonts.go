// Package fonts locates the font used to measure and rasterize logos.
//
// The logo is styled as Montserrat Medium. When that face is installed it is
// found with go-findfont; otherwise the Go Medium face embedded in
// golang.org/x/image is used, which has close enough metrics for layout.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/gofont/gomedium"
)

// FontFamily is the CSS font-family name written into exported SVGs.
const FontFamily = "Montserrat"

// FallbackFontFamily is the full CSS font-family value, with the generic
// fallback browsers use when Montserrat is missing.
const FallbackFontFamily = `'Montserrat', sans-serif`

// FontWeight is the CSS weight of the logo face.
const FontWeight = "500"

// candidates are the file names tried, in order, when searching the system.
var candidates = []string{
	"Montserrat-Medium.ttf",
	"Montserrat-Medium.otf",
	"Montserrat-Regular.ttf",
	"Montserrat.ttf",
}

// Source describes where a loaded face came from.
type Source struct {
	Name string // family name used to register the face
	Path string // file path, empty for the embedded fallback
	Data []byte
}

// Embedded reports whether the face is the built-in fallback.
func (s Source) Embedded() bool { return s.Path == "" }

var (
	systemOnce sync.Once
	systemSrc  Source
)

// Logo returns the logo face: the file at path when path is non-empty,
// otherwise Montserrat from the system, otherwise Go Medium.
// The system lookup is done once per process.
func Logo(path string) (Source, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Source{}, fmt.Errorf("read font %s: %w", path, err)
		}
		return Source{Name: FontFamily, Path: path, Data: data}, nil
	}

	systemOnce.Do(func() {
		systemSrc = lookup()
	})
	return systemSrc, nil
}

// GoMedium returns the embedded fallback face.
func GoMedium() Source {
	return Source{Name: "Go Medium", Data: gomedium.TTF}
}

func lookup() Source {
	for _, name := range candidates {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil || len(data) == 0 {
			continue
		}
		return Source{Name: FontFamily, Path: path, Data: data}
	}
	return GoMedium()
}
