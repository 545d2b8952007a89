package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
)

// RSVGRasterizer renders SVG with the external rsvg-convert tool.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVGRasterizer struct {
	// Command is the executable to run. Defaults to "rsvg-convert".
	Command string
	// TempDir holds the staged SVG file. Defaults to os.TempDir().
	TempDir string
}

var _ Rasterizer = (*RSVGRasterizer)(nil)

// Available reports whether the rsvg-convert executable can be found.
func (r *RSVGRasterizer) Available() bool {
	_, err := exec.LookPath(r.command())
	return err == nil
}

// Rasterize implements [Rasterizer]. The SVG is staged in a temporary file
// that is removed once rsvg-convert exits.
func (r *RSVGRasterizer) Rasterize(ctx context.Context, svg []byte, width, height int) (image.Image, error) {
	if _, err := exec.LookPath(r.command()); err != nil {
		return nil, fmt.Errorf("png export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	f, err := os.CreateTemp(r.TempDir, "fontastic-*.svg")
	if err != nil {
		return nil, fmt.Errorf("stage svg: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(svg); err != nil {
		f.Close()
		return nil, fmt.Errorf("stage svg: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("stage svg: %w", err)
	}

	args := []string{
		"-f", "png",
		"-w", strconv.Itoa(width),
		"-h", strconv.Itoa(height),
		path,
	}
	cmd := exec.CommandContext(ctx, r.command(), args...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}

	img, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("read rsvg-convert output: %w", err)
	}
	return fitSurface(img, width, height), nil
}

func (r *RSVGRasterizer) command() string {
	if r.Command != "" {
		return r.Command
	}
	return "rsvg-convert"
}
