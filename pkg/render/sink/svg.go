package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
)

const fontFamily = "Helvetica, Arial, sans-serif"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	background    string
}

// WithSize sets the page size in points. A zero height is derived from the
// device count.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithBackground fills the page with color. Empty leaves it transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws d as a standalone SVG document.
func RenderSVG(d *diagram.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultWidth, background: "white"}
	for _, opt := range opts {
		opt(&r)
	}
	f := NewFrame(d, r.width, r.height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		f.Width, f.Height, f.Width, f.Height, fontFamily)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	fmt.Fprintf(&buf, `  <defs><clipPath id="plot"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath></defs>`+"\n",
		f.Left, f.Top, f.PlotWidth(), f.PlotHeight())

	buf.WriteString(`  <g clip-path="url(#plot)">` + "\n")
	renderGrid(&buf, f, d)
	renderTracks(&buf, f, d)
	buf.WriteString("  </g>\n")

	renderAxes(&buf, f, d)
	renderAnnotations(&buf, f, d)
	renderLegend(&buf, f, d)
	renderTitle(&buf, f, d)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, f Frame, d *diagram.Diagram) {
	for _, g := range d.GridLines {
		x := f.X(g.X)
		fmt.Fprintf(buf, `    <line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
			x, f.Top, x, f.Bottom, g.Color, g.Weight)
	}
	for _, h := range d.RefLines {
		y := f.Y(h.Y)
		fmt.Fprintf(buf, `    <line class="ref" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
			f.Left, y, f.Right, y, h.Color, h.Weight)
	}
}

func renderTracks(buf *bytes.Buffer, f Frame, d *diagram.Diagram) {
	for i, t := range d.Tracks {
		pts := make([]string, len(t.Points))
		for j, p := range t.Points {
			pts[j] = fmt.Sprintf("%.2f,%.2f", f.X(p.X), f.Y(p.Y))
		}
		fmt.Fprintf(buf, `    <polyline id="track-%d" points="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-linejoin="round"%s/>`+"\n",
			i, strings.Join(pts, " "), t.Color, TrackWeight, dashAttr(t.Style))
	}
}

func dashAttr(s diagram.LineStyle) string {
	if s != diagram.Dashed {
		return ""
	}
	parts := make([]string, len(DashPattern))
	for i, v := range DashPattern {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, ","))
}

func renderAxes(buf *bytes.Buffer, f Frame, d *diagram.Diagram) {
	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="black" stroke-width="%.1f"/>`+"\n",
		f.Left, f.Top, f.PlotWidth(), f.PlotHeight(), AxisWeight)

	for _, t := range d.XTicks {
		x := f.X(t.Pos)
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="black" stroke-width="%.1f"/>`+"\n",
			x, f.Bottom, x, f.Bottom+TickLength, AxisWeight)
		fmt.Fprintf(buf, `  <text class="xtick" x="%.2f" y="%.2f" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
			x, f.Bottom+TickLength+TickFontSize+2, TickFontSize, escapeXML(t.Label))
	}
	for _, t := range d.YTicks {
		y := f.Y(t.Pos)
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="black" stroke-width="%.1f"/>`+"\n",
			f.Left-TickLength, y, f.Left, y, AxisWeight)
		fmt.Fprintf(buf, `  <text class="ytick" x="%.2f" y="%.2f" font-size="%.0f" text-anchor="end" dominant-baseline="central">%s</text>`+"\n",
			f.Left-TickLength-3, y, TickFontSize, escapeXML(t.Label))
	}
	if d.XLabel != "" {
		fmt.Fprintf(buf, `  <text class="xlabel" x="%.2f" y="%.2f" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
			(f.Left+f.Right)/2, f.Height-12, LabelFontSize, escapeXML(d.XLabel))
	}
}

func renderAnnotations(buf *bytes.Buffer, f Frame, d *diagram.Diagram) {
	for _, a := range d.Annotations {
		fmt.Fprintf(buf, `  <text class="annotation" x="%.2f" y="%.2f" font-size="%.0f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			f.X(a.X), f.Y(a.Y), a.FontSize, escapeXML(a.Text))
	}
}

func renderLegend(buf *bytes.Buffer, f Frame, d *diagram.Diagram) {
	if len(d.Legend) == 0 {
		return
	}
	b := f.Legend(d.Legend)
	fmt.Fprintf(buf, `  <g class="legend">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="white" fill-opacity="0.8" stroke="#cccccc" stroke-width="0.8"/>`+"\n",
		b.X, b.Y, b.W, b.H)
	for i, e := range d.Legend {
		y := b.Row(i)
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			b.X+8, y, b.X+8+b.SampleLen, y, e.Color, TrackWeight, dashAttr(e.Style))
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%.0f" dominant-baseline="central">%s</text>`+"\n",
			b.X+8+b.SampleLen+6, y, LegendFontSize, escapeXML(e.Label))
	}
	buf.WriteString("  </g>\n")
}

func renderTitle(buf *bytes.Buffer, f Frame, d *diagram.Diagram) {
	if d.Title == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="title" x="%.2f" y="%.2f" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
		(f.Left+f.Right)/2, 12+d.TitleFontSize, d.TitleFontSize, escapeXML(d.Title))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
