package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/fontastic/pkg/design"
	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/fonts"
	"github.com/matzehuels/fontastic/pkg/measure"
	"github.com/matzehuels/fontastic/pkg/observability"
	"github.com/matzehuels/fontastic/pkg/render"
)

// fakeRasterizer records calls and returns a blank surface of the requested
// size, or err.
type fakeRasterizer struct {
	calls  atomic.Int32
	width  int
	height int
	err    error
	img    image.Image
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, svg []byte, width, height int) (image.Image, error) {
	f.calls.Add(1)
	f.width, f.height = width, height
	if f.err != nil {
		return nil, f.err
	}
	if f.img != nil {
		return f.img, nil
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

type blockingRasterizer struct{}

func (blockingRasterizer) Rasterize(ctx context.Context, _ []byte, _, _ int) (image.Image, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func box(w, h float64) measure.Measurer {
	return measure.Fixed{Width: w, Height: h, Color: measure.DefaultColor, FontWeight: "500"}
}

func designWith(text string) design.Design {
	d := design.New()
	d.SetText(text)
	return d
}

func TestExportSVG(t *testing.T) {
	e := New(box(300, 80), nil)
	dl, err := e.ExportSVG(context.Background(), designWith("My  Logo"))
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	if dl.FileName != "My_Logo_logo.svg" {
		t.Errorf("FileName = %q", dl.FileName)
	}
	if dl.MIMEType != MIMESVG {
		t.Errorf("MIMEType = %q", dl.MIMEType)
	}
	if !strings.Contains(string(dl.Data), `width="340" height="120"`) {
		t.Errorf("unexpected SVG:\n%s", dl.Data)
	}
}

func TestExportBlankText(t *testing.T) {
	r := &fakeRasterizer{}
	e := New(box(300, 80), r)

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := e.ExportSVG(context.Background(), designWith(text)); !errors.Is(err, errors.ErrCodeExportNothing) {
			t.Errorf("ExportSVG(%q) error = %v, want EXPORT_NOTHING", text, err)
		}
		_, err := e.ExportPNG(context.Background(), designWith(text))
		if !errors.Is(err, errors.ErrCodeExportNothing) {
			t.Errorf("ExportPNG(%q) error = %v, want EXPORT_NOTHING", text, err)
		}
		if got := errors.UserMessage(err); got != "Nothing to export: Please enter some text." {
			t.Errorf("message = %q", got)
		}
	}
	if r.calls.Load() != 0 {
		t.Error("rasterizer called for blank text")
	}
}

func TestExportPNG(t *testing.T) {
	r := &fakeRasterizer{}
	e := New(box(310.5, 88), r)

	dl, err := e.ExportPNG(context.Background(), designWith("Fontastic"))
	if err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	if dl.FileName != "Fontastic_logo.png" || dl.MIMEType != MIMEPNG {
		t.Errorf("download = %q %q", dl.FileName, dl.MIMEType)
	}
	if r.width != 701 || r.height != 256 {
		t.Errorf("surface = %dx%d, want 701x256", r.width, r.height)
	}
	img, err := png.Decode(bytes.NewReader(dl.Data))
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 701 {
		t.Errorf("PNG width = %d", img.Bounds().Dx())
	}
}

func TestExportPNGZeroSizedMeasurement(t *testing.T) {
	r := &fakeRasterizer{}
	e := New(box(0, 0), r)

	dl, err := e.ExportPNG(context.Background(), designWith("Fontastic"))
	if !errors.IsExport(err) || !errors.Is(err, errors.ErrCodeExportEmpty) {
		t.Fatalf("error = %v, want EXPORT_EMPTY", err)
	}
	if errors.UserMessage(err) != "Could not prepare image data." {
		t.Errorf("message = %q", errors.UserMessage(err))
	}
	if dl.Data != nil || dl.FileName != "" {
		t.Errorf("download produced: %+v", dl)
	}
	if r.calls.Load() != 0 {
		t.Error("rasterizer called for empty artifact")
	}
}

func TestExportSVGNoMeasurement(t *testing.T) {
	failing := measure.Func(func(string, float64, float64) (measure.Measurement, error) {
		return measure.Measurement{}, errors.New(errors.ErrCodeInternal, "no font")
	})
	e := New(failing, nil)
	if _, err := e.ExportSVG(context.Background(), designWith("x")); !errors.Is(err, errors.ErrCodeExportEmpty) {
		t.Errorf("error = %v, want EXPORT_EMPTY", err)
	}
}

func TestExportPNGSurfaceTooLarge(t *testing.T) {
	r := &fakeRasterizer{}
	e := New(box(9000, 80), r)

	_, err := e.ExportPNG(context.Background(), designWith("wide"))
	if !errors.Is(err, errors.ErrCodeExportContext) {
		t.Fatalf("error = %v, want EXPORT_CONTEXT", err)
	}
	if errors.UserMessage(err) != "Could not create PNG rendering context." {
		t.Errorf("message = %q", errors.UserMessage(err))
	}
	if r.calls.Load() != 0 {
		t.Error("rasterizer called for oversized surface")
	}
}

func TestExportPNGDecodeFailure(t *testing.T) {
	r := &fakeRasterizer{err: errors.New(errors.ErrCodeInternal, "bad svg")}
	e := New(box(100, 40), r)

	dl, err := e.ExportPNG(context.Background(), designWith("x"))
	if !errors.Is(err, errors.ErrCodeExportDecode) {
		t.Fatalf("error = %v, want EXPORT_DECODE", err)
	}
	if errors.UserMessage(err) != "Could not load SVG for PNG conversion." {
		t.Errorf("message = %q", errors.UserMessage(err))
	}
	if dl.Data != nil {
		t.Error("download produced on decode failure")
	}
}

func TestExportPNGEncodeFailure(t *testing.T) {
	r := &fakeRasterizer{img: image.NewRGBA(image.Rectangle{})}
	e := New(box(100, 40), r)

	_, err := e.ExportPNG(context.Background(), designWith("x"))
	if !errors.Is(err, errors.ErrCodeExportEncode) {
		t.Fatalf("error = %v, want EXPORT_ENCODE", err)
	}
	if errors.UserMessage(err) != "Failed to convert image to PNG format." {
		t.Errorf("message = %q", errors.UserMessage(err))
	}
}

func TestExportPNGDecodeTimeout(t *testing.T) {
	e := New(box(100, 40), blockingRasterizer{}, WithDecodeTimeout(10*time.Millisecond))

	_, err := e.ExportPNG(context.Background(), designWith("x"))
	if !errors.Is(err, errors.ErrCodeExportDecode) {
		t.Errorf("error = %v, want EXPORT_DECODE", err)
	}
}

func TestExportPNGCancelled(t *testing.T) {
	e := New(box(100, 40), blockingRasterizer{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if _, err := e.ExportPNG(ctx, designWith("x")); !errors.Is(err, errors.ErrCodeExportDecode) {
		t.Errorf("error = %v, want EXPORT_DECODE", err)
	}
}

func TestExportPNGWithCanvasRasterizer(t *testing.T) {
	m, err := measure.NewTextMeasurer("")
	if err != nil {
		t.Fatal(err)
	}
	family, err := measure.LoadFamily(fonts.GoMedium())
	if err != nil {
		t.Fatal(err)
	}
	e := New(m, render.NewCanvasRasterizer(family))

	dl, err := e.ExportPNG(context.Background(), design.New())
	if err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(dl.Data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width < 200 || cfg.Height < 100 {
		t.Errorf("PNG is %dx%d, want at least 200x100", cfg.Width, cfg.Height)
	}
}

func TestExportDispatch(t *testing.T) {
	e := New(box(100, 40), &fakeRasterizer{})
	if dl, err := e.Export(context.Background(), designWith("x"), FormatSVG); err != nil || dl.MIMEType != MIMESVG {
		t.Errorf("svg: %v %q", err, dl.MIMEType)
	}
	if dl, err := e.Export(context.Background(), designWith("x"), FormatPNG); err != nil || dl.MIMEType != MIMEPNG {
		t.Errorf("png: %v %q", err, dl.MIMEType)
	}
	if _, err := e.Export(context.Background(), designWith("x"), "gif"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("gif: %v", err)
	}
}

func TestDataURI(t *testing.T) {
	dl := Download{MIMEType: MIMEPNG, Data: []byte("png")}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	if got := dl.DataURI(); got != want {
		t.Errorf("DataURI() = %q, want %q", got, want)
	}
}

type recordingExportHooks struct {
	observability.NoopExportHooks
	formats []string
	errs    []error
}

func (h *recordingExportHooks) OnExportComplete(_ context.Context, format string, _ int, _ time.Duration, err error) {
	h.formats = append(h.formats, format)
	h.errs = append(h.errs, err)
}

func TestExportHooks(t *testing.T) {
	hooks := &recordingExportHooks{}
	observability.SetExportHooks(hooks)
	defer observability.Reset()

	e := New(box(100, 40), &fakeRasterizer{})
	_, _ = e.ExportSVG(context.Background(), designWith("x"))
	_, _ = e.ExportPNG(context.Background(), designWith(""))

	if len(hooks.formats) != 2 || hooks.formats[0] != FormatSVG || hooks.formats[1] != FormatPNG {
		t.Fatalf("formats = %v", hooks.formats)
	}
	if hooks.errs[0] != nil || hooks.errs[1] == nil {
		t.Errorf("errs = %v", hooks.errs)
	}
}
