package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/fontastic/pkg/errors"
)

// Sink receives finished downloads.
type Sink interface {
	Save(dl Download) (string, error)
}

// DirSink writes downloads into a directory. File names are sanitized so a
// download cannot escape the directory.
type DirSink struct {
	Dir string
}

// Save writes dl and returns the path written.
func (s DirSink) Save(dl Download) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	name := errors.SanitizeFileName(dl.FileName)
	if err := errors.ValidateFileName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// WriterSink writes download bytes, or their data URI, to a writer.
type WriterSink struct {
	W       io.Writer
	DataURI bool
}

// Save writes dl to the writer. The returned name is the download's file
// name.
func (s WriterSink) Save(dl Download) (string, error) {
	var err error
	if s.DataURI {
		_, err = fmt.Fprintln(s.W, dl.DataURI())
	} else {
		_, err = s.W.Write(dl.Data)
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", dl.FileName, err)
	}
	return dl.FileName, nil
}
