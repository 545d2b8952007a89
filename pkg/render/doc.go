// Package render turns a measured logo into files.
//
// # Overview
//
// Rendering is a two-step pipeline:
//
//   - [BuildSVG] synthesizes a standalone SVG document from the logo text,
//     its style and its measured bounding box.
//   - A [Rasterizer] decodes that SVG and paints it onto a raster surface
//     sized by [SurfaceSize] (2x for exports); [EncodePNG] turns the image
//     into PNG bytes.
//
// # SVG Output
//
// The document has a single centred text element styled by a `.logo-text`
// class. It references the Montserrat font by name and does not embed it.
//
//	art := render.BuildSVG(render.SVGInput{Text: "Fontastic", FontSize: 72, Spacing: 1, Measurement: &m})
//	os.WriteFile("Fontastic_logo.svg", []byte(art.SVG), 0o644)
//
// # Rasterizers
//
// [CanvasRasterizer] is pure Go: it reads the SVG back with [Decode] and draws
// it through github.com/tdewolff/canvas. [RSVGRasterizer] shells out to the
// external rsvg-convert tool (from librsvg) and renders any SVG.
//
//	w, h, err := render.SurfaceSize(art.Width, art.Height, render.DefaultScale)
//	img, err := render.NewCanvasRasterizer(family).Rasterize(ctx, []byte(art.SVG), w, h)
//	png, err := render.EncodePNG(img)
package render
