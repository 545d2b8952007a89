// Package export turns a design into downloadable SVG and PNG files.
//
// [Exporter] is the export pipeline: measure the preview text, build the SVG
// document, and for PNG rasterize it at 2x. Every failure is an
// EXPORT_* error from pkg/errors carrying the message shown to the user; no
// failure produces a download.
package export

import (
	"context"
	"encoding/base64"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontastic/pkg/design"
	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/measure"
	"github.com/matzehuels/fontastic/pkg/observability"
	"github.com/matzehuels/fontastic/pkg/render"
)

// Formats and MIME types for downloads.
const (
	FormatSVG = "svg"
	FormatPNG = "png"

	MIMESVG = "image/svg+xml;charset=utf-8"
	MIMEPNG = "image/png"
)

// User-facing export failures.
const (
	msgNothing = "Nothing to export: Please enter some text."
	msgEmpty   = "Could not prepare image data."
	msgContext = "Could not create PNG rendering context."
	msgDecode  = "Could not load SVG for PNG conversion."
	msgEncode  = "Failed to convert image to PNG format."
)

// Download is a file ready to hand to a sink.
type Download struct {
	FileName string
	MIMEType string
	Data     []byte
}

// DataURI returns the file as a base64 data URI.
func (d Download) DataURI() string {
	return "data:" + d.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// Exporter runs the export pipeline for a design.
type Exporter struct {
	measurer      measure.Measurer
	rasterizer    render.Rasterizer
	svgOpts       []render.SVGOption
	scale         float64
	decodeTimeout time.Duration
	logger        *log.Logger
}

// Option configures an [Exporter].
type Option func(*Exporter)

// WithSVGOptions passes options through to [render.BuildSVG].
func WithSVGOptions(opts ...render.SVGOption) Option {
	return func(e *Exporter) { e.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) Option {
	return func(e *Exporter) {
		if s > 0 {
			e.scale = s
		}
	}
}

// WithDecodeTimeout bounds the SVG decode step. Zero means no deadline
// beyond the caller's context.
func WithDecodeTimeout(d time.Duration) Option {
	return func(e *Exporter) { e.decodeTimeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// New returns an exporter that measures with m and rasterizes with r.
func New(m measure.Measurer, r render.Rasterizer, opts ...Option) *Exporter {
	e := &Exporter{
		measurer:   m,
		rasterizer: r,
		scale:      render.DefaultScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Artifact measures the preview text of d and builds its SVG document.
// A measurer failure leaves the text unmeasured, which yields an empty
// artifact.
func (e *Exporter) Artifact(d design.Design) render.Artifact {
	in := render.SVGInput{Text: d.Text, FontSize: d.FontSize, Spacing: d.Spacing}
	if e.measurer != nil {
		m, err := e.measurer.Measure(d.PreviewText(), float64(d.FontSize), d.Spacing)
		if err != nil {
			e.logger.Warn("measure failed", "error", err)
		} else {
			in.Measurement = &m
		}
	}
	return render.BuildSVG(in, e.svgOpts...)
}

// ExportSVG produces the SVG download for d.
func (e *Exporter) ExportSVG(ctx context.Context, d design.Design) (dl Download, err error) {
	start := time.Now()
	observability.Export().OnExportStart(ctx, FormatSVG)
	defer func() {
		observability.Export().OnExportComplete(ctx, FormatSVG, len(dl.Data), time.Since(start), err)
	}()

	if d.IsBlank() {
		return Download{}, errors.New(errors.ErrCodeExportNothing, msgNothing)
	}
	art := e.Artifact(d)
	if art.SVG == "" {
		return Download{}, errors.New(errors.ErrCodeExportEmpty, msgEmpty)
	}

	return Download{
		FileName: design.FileName(art.CleanText, FormatSVG),
		MIMEType: MIMESVG,
		Data:     []byte(art.SVG),
	}, nil
}

// ExportPNG produces the 2x PNG download for d.
func (e *Exporter) ExportPNG(ctx context.Context, d design.Design) (dl Download, err error) {
	start := time.Now()
	observability.Export().OnExportStart(ctx, FormatPNG)
	defer func() {
		observability.Export().OnExportComplete(ctx, FormatPNG, len(dl.Data), time.Since(start), err)
	}()

	if d.IsBlank() {
		return Download{}, errors.New(errors.ErrCodeExportNothing, msgNothing)
	}
	art := e.Artifact(d)
	if art.Empty() {
		return Download{}, errors.New(errors.ErrCodeExportEmpty, msgEmpty)
	}

	width, height, err := render.SurfaceSize(art.Width, art.Height, e.scale)
	if err != nil || e.rasterizer == nil {
		return Download{}, errors.Wrap(errors.ErrCodeExportContext, err, msgContext)
	}

	img, err := e.decode(ctx, []byte(art.SVG), width, height)
	if err != nil {
		e.logger.Debug("svg decode failed", "error", err)
		return Download{}, errors.Wrap(errors.ErrCodeExportDecode, err, msgDecode)
	}

	data, err := render.EncodePNG(img)
	if err != nil {
		return Download{}, errors.Wrap(errors.ErrCodeExportEncode, err, msgEncode)
	}

	return Download{
		FileName: design.FileName(art.CleanText, FormatPNG),
		MIMEType: MIMEPNG,
		Data:     data,
	}, nil
}

// Export dispatches on format ("svg" or "png").
func (e *Exporter) Export(ctx context.Context, d design.Design, format string) (Download, error) {
	switch format {
	case FormatSVG:
		return e.ExportSVG(ctx, d)
	case FormatPNG:
		return e.ExportPNG(ctx, d)
	}
	return Download{}, errors.New(errors.ErrCodeUnsupported, "unsupported export format %q", format)
}

func (e *Exporter) decode(ctx context.Context, svg []byte, width, height int) (image.Image, error) {
	if e.decodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.decodeTimeout)
		defer cancel()
	}
	return e.rasterizer.Rasterize(ctx, svg, width, height)
}
