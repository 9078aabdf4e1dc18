package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/observability"
	"github.com/matzehuels/seqdiagram/pkg/render/sink"
	"github.com/matzehuels/seqdiagram/pkg/render/transitions"
)

// PNGScale is the resolution factor of PNG output.
const PNGScale = 2.0

// Render generates output artifacts in the requested formats. d must be the
// layout of in. opts must have been validated.
func Render(ctx context.Context, d *diagram.Diagram, in diagram.Input, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.View, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, format := range opts.Formats {
		var data []byte
		data, err = RenderFormat(ctx, d, in, format, opts)
		if err != nil {
			break
		}
		artifacts[format] = data
	}

	hooks.OnRenderComplete(ctx, opts.View, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat renders a single artifact.
func RenderFormat(ctx context.Context, d *diagram.Diagram, in diagram.Input, format string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.View == ViewTransitions {
		return renderTransitions(ctx, in, format, opts)
	}
	return renderTiming(ctx, d, format, opts)
}

func renderTiming(ctx context.Context, d *diagram.Diagram, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPDF:
		return sink.RenderPDF(d, sink.WithPDFSize(opts.Width, opts.Height))
	case FormatSVG:
		return sink.RenderSVG(d, sink.WithSize(opts.Width, opts.Height)), nil
	case FormatPNG:
		return sink.RenderPNG(ctx, d,
			sink.WithScale(PNGScale),
			sink.WithPNGSVGOptions(sink.WithSize(opts.Width, opts.Height)))
	case FormatJSON:
		data, err := sink.RenderJSON(d, opts.Width, opts.Height)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeExport, err, "encode layout")
		}
		return data, nil
	case FormatText:
		return sink.RenderText(d), nil
	}
	return nil, ValidateFormat(ViewTiming, format)
}

func renderTransitions(ctx context.Context, in diagram.Input, format string, opts Options) ([]byte, error) {
	dot := transitions.ToDOT(in, transitions.Options{Holds: opts.Holds})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return transitions.RenderSVG(ctx, dot)
	case FormatPDF:
		return transitions.RenderPDF(ctx, dot)
	case FormatPNG:
		return transitions.RenderPNG(ctx, dot, PNGScale)
	}
	return nil, ValidateFormat(ViewTransitions, format)
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// FileName returns the download name of an artifact. The timing PDF is
// always sequence_diagram.pdf.
func FileName(view, format string) string {
	base := "sequence_diagram"
	if view == ViewTransitions {
		base = "transitions"
	}
	return base + "." + format
}
