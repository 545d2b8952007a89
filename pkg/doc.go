// Package pkg provides the core libraries for Fontastic text-logo design.
//
// # Overview
//
// Fontastic turns a line of text, a font size and a letter spacing into a
// logo file. The pkg directory is organized into these areas:
//
//  1. [design] - The editable logo state and its slider rules
//  2. [suggest] and [integrations] - AI layout suggestions and the Gemini client
//  3. [measure], [render] and [export] - Measuring, SVG building and PNG rasterizing
//  4. [pipeline] - Orchestration (suggest → apply → export)
//  5. [cache], [session] and [config] - Infrastructure
//  6. [server] - The HTTP API
//
// # Architecture
//
// The typical data flow through Fontastic:
//
//	Design (text, size, spacing)
//	         ↓
//	    [suggest] package (optional AI layout suggestion)
//	         ↓
//	    [measure] package (bounding box of the rendered text)
//	         ↓
//	    [render] package (SVG document, 2x PNG raster)
//	         ↓
//	    [export] package (named download, sink)
//
// # Quick Start
//
// Export a design as SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/fontastic/pkg/design"
//	    "github.com/matzehuels/fontastic/pkg/export"
//	    "github.com/matzehuels/fontastic/pkg/measure"
//	)
//
//	m, _ := measure.NewTextMeasurer("")
//	e := export.New(m, nil)
//
//	d := design.New()
//	d.SetText("Acme Labs")
//	dl, _ := e.ExportSVG(context.Background(), d)
//	_, _ = export.DirSink{Dir: "."}.Save(dl)
//
// # Packages
//
//   - [design]: Design state, clamps and file naming
//   - [errors]: Structured error codes and user messages
//   - [fonts]: Logo font lookup with an embedded fallback
//   - [observability]: Hooks for suggestion, export, cache and HTTP events
//   - [buildinfo]: Version information set at link time
package pkg
