// Package render turns laid-out diagrams into files.
//
// # Overview
//
// The layout engine in pkg/diagram produces a [diagram.Diagram] in data
// coordinates. This package and its subpackages map it onto a page:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Timing diagram output formats (in [sink] subpackage)
//   - State-transition graphs (in [transitions] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The timing diagram only
// needs it for PNG; its PDF is written natively by [sink.RenderPDF]. The
// transitions view uses it for both.
//
//	svg := sink.RenderSVG(d, sink.WithSize(800, 480))
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// A missing converter or a failed conversion is reported as an
// EXPORT_FAILED error from pkg/errors.
//
// [diagram.Diagram]: github.com/matzehuels/seqdiagram/pkg/diagram.Diagram
// [sink]: github.com/matzehuels/seqdiagram/pkg/render/sink
// [sink.RenderPDF]: github.com/matzehuels/seqdiagram/pkg/render/sink.RenderPDF
// [transitions]: github.com/matzehuels/seqdiagram/pkg/render/transitions
package render
