// Package sink provides output format renderers for laid-out timing diagrams.
//
// # Overview
//
// A "sink" transforms a [diagram.Diagram] into a final output format:
//
//   - PDF: a single uncompressed page, written natively with fpdf
//   - SVG: a standalone document
//   - PNG: raster output (requires rsvg-convert)
//   - JSON: the layout plus the page geometry it is drawn with
//   - Text: an ASCII waveform for terminals and logs
//
// Every vector sink shares one [Frame], so a device band sits at the same
// page position in the PDF and the SVG.
//
// # Page Geometry
//
// Sizes are in points. The width defaults to [DefaultWidth]; the height
// grows with the device count ([AutoHeight]). The plot area leaves room for
// the title above, the y tick labels on the left and the step ticks and
// x label below. The legend sits in the upper right corner of the plot.
//
//	pdf, err := sink.RenderPDF(d, sink.WithPDFSize(800, 0))
//	svg := sink.RenderSVG(d, sink.WithSize(800, 0))
//	png, err := sink.RenderPNG(ctx, d, sink.WithScale(2))
//
// # Text Output
//
// [RenderText] draws each device as three rows (high, half and low state)
// so fractional states stay visible:
//
//	       ┌───────┐
//	Pump   │       │
//	───────┘       └───
//	       5s
//	0   1   2   3   4
//
// [diagram.Diagram]: github.com/matzehuels/seqdiagram/pkg/diagram.Diagram
package sink
