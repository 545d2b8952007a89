package fonts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGoMedium(t *testing.T) {
	src := GoMedium()
	if !src.Embedded() {
		t.Error("GoMedium should be embedded")
	}
	if len(src.Data) == 0 {
		t.Error("GoMedium data is empty")
	}
}

func TestLogoFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.ttf")
	if err := os.WriteFile(path, GoMedium().Data, 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Logo(path)
	if err != nil {
		t.Fatalf("Logo: %v", err)
	}
	if src.Path != path {
		t.Errorf("Path = %q, want %q", src.Path, path)
	}
	if src.Embedded() {
		t.Error("file-backed face reported as embedded")
	}
}

func TestLogoMissingPath(t *testing.T) {
	if _, err := Logo(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("expected error for missing font file")
	}
}

func TestLogoDefault(t *testing.T) {
	src, err := Logo("")
	if err != nil {
		t.Fatalf("Logo: %v", err)
	}
	if len(src.Data) == 0 {
		t.Error("default face has no data")
	}
}
