package sink

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/matzehuels/seqdiagram/pkg/buildinfo"
	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/fonts"
)

// coreFont draws all text that fits the Windows-1252 code page.
const coreFont = "Helvetica"

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	width, height float64
	created       time.Time
}

// WithPDFSize sets the page size in points. A zero height is derived from
// the device count.
func WithPDFSize(width, height float64) PDFOption {
	return func(r *pdfRenderer) { r.width, r.height = width, height }
}

// WithCreationDate stamps the document with t instead of the current time,
// which makes the output byte-for-byte reproducible.
func WithCreationDate(t time.Time) PDFOption {
	return func(r *pdfRenderer) { r.created = t }
}

// RenderPDF draws d on a single uncompressed PDF page.
//
// Text is set in core Helvetica when it all fits Windows-1252. Otherwise the
// embedded Unicode font from pkg/fonts is used, whose font file fpdf always
// deflates; the page content stays uncompressed. Text the embedded font has
// no glyphs for is rejected with INVALID_INPUT instead of being dropped.
func RenderPDF(d *diagram.Diagram, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{width: DefaultWidth}
	for _, opt := range opts {
		opt(&r)
	}
	unicode, err := needsUnicodeFont(d)
	if err != nil {
		return nil, err
	}
	f := NewFrame(d, r.width, r.height)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: f.Width, Ht: f.Height},
	})
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreator("seqdiagram "+buildinfo.Version, true)
	pdf.SetTitle(d.Title, true)
	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
		pdf.SetModificationDate(r.created)
	}
	pdf.AddPage()

	p := pdfPainter{pdf: pdf, font: coreFont, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if unicode {
		pdf.AddUTF8FontFromBytes(fonts.SansFamily, "", fonts.SansTTF())
		p.font = fonts.SansFamily
		p.tr = func(s string) string { return s }
	}
	p.plot(f, d)
	p.axes(f, d)
	p.annotations(f, d)
	p.legend(f, d)
	p.title(f, d)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "write pdf")
	}
	return buf.Bytes(), nil
}

type pdfPainter struct {
	pdf  *fpdf.Fpdf
	font string
	tr   func(string) string
}

// needsUnicodeFont reports whether any text of d falls outside
// Windows-1252, and fails if the embedded font cannot draw it.
func needsUnicodeFont(d *diagram.Diagram) (bool, error) {
	unicode := false
	for _, s := range pdfText(d) {
		if fitsWindows1252(s) {
			continue
		}
		unicode = true
		if missing := fonts.Missing(s); len(missing) > 0 {
			return false, errs.New(errs.ErrCodeInvalidInput,
				"pdf export cannot draw %q in %q: the PDF font has no glyph for it", string(missing), s)
		}
	}
	return unicode, nil
}

func fitsWindows1252(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// pdfText lists every string RenderPDF draws.
func pdfText(d *diagram.Diagram) []string {
	text := []string{d.Title, d.XLabel}
	for _, t := range d.XTicks {
		text = append(text, t.Label)
	}
	for _, t := range d.YTicks {
		text = append(text, t.Label)
	}
	for _, a := range d.Annotations {
		text = append(text, a.Text)
	}
	for _, e := range d.Legend {
		text = append(text, e.Label)
	}
	return text
}

func (p pdfPainter) stroke(color string, weight float64, style diagram.LineStyle) {
	p.pdf.SetDrawColor(hexRGB(color))
	p.pdf.SetLineWidth(weight)
	if style == diagram.Dashed {
		p.pdf.SetDashPattern(DashPattern, 0)
	} else {
		p.pdf.SetDashPattern([]float64{}, 0)
	}
}

func (p pdfPainter) plot(f Frame, d *diagram.Diagram) {
	p.pdf.ClipRect(f.Left, f.Top, f.PlotWidth(), f.PlotHeight(), false)
	defer p.pdf.ClipEnd()

	for _, g := range d.GridLines {
		p.stroke(g.Color, g.Weight, diagram.Solid)
		x := f.X(g.X)
		p.pdf.Line(x, f.Top, x, f.Bottom)
	}
	for _, h := range d.RefLines {
		p.stroke(h.Color, h.Weight, diagram.Solid)
		y := f.Y(h.Y)
		p.pdf.Line(f.Left, y, f.Right, y)
	}

	p.pdf.SetLineJoinStyle("round")
	for _, t := range d.Tracks {
		if len(t.Points) == 0 {
			continue
		}
		p.stroke(t.Color, TrackWeight, t.Style)
		p.pdf.MoveTo(f.X(t.Points[0].X), f.Y(t.Points[0].Y))
		for _, pt := range t.Points[1:] {
			p.pdf.LineTo(f.X(pt.X), f.Y(pt.Y))
		}
		p.pdf.DrawPath("D")
	}
	p.pdf.SetDashPattern([]float64{}, 0)
}

func (p pdfPainter) axes(f Frame, d *diagram.Diagram) {
	p.stroke("#000000", AxisWeight, diagram.Solid)
	p.pdf.Rect(f.Left, f.Top, f.PlotWidth(), f.PlotHeight(), "D")

	p.pdf.SetFont(p.font, "", TickFontSize)
	p.pdf.SetTextColor(0, 0, 0)
	for _, t := range d.XTicks {
		x := f.X(t.Pos)
		p.pdf.Line(x, f.Bottom, x, f.Bottom+TickLength)
		p.centered(x, f.Bottom+TickLength+TickFontSize+2, t.Label)
	}
	for _, t := range d.YTicks {
		y := f.Y(t.Pos)
		p.pdf.Line(f.Left-TickLength, y, f.Left, y)
		label := p.tr(t.Label)
		p.pdf.Text(f.Left-TickLength-3-p.pdf.GetStringWidth(label), y+0.35*TickFontSize, label)
	}

	if d.XLabel != "" {
		p.pdf.SetFontSize(LabelFontSize)
		p.centered((f.Left+f.Right)/2, f.Height-12, d.XLabel)
	}
}

func (p pdfPainter) annotations(f Frame, d *diagram.Diagram) {
	for _, a := range d.Annotations {
		p.pdf.SetFont(p.font, "", a.FontSize)
		p.centered(f.X(a.X), f.Y(a.Y)+0.35*a.FontSize, a.Text)
	}
}

func (p pdfPainter) legend(f Frame, d *diagram.Diagram) {
	if len(d.Legend) == 0 {
		return
	}
	b := f.Legend(d.Legend)
	p.pdf.SetFillColor(255, 255, 255)
	p.stroke("#cccccc", 0.8, diagram.Solid)
	p.pdf.Rect(b.X, b.Y, b.W, b.H, "FD")

	p.pdf.SetFont(p.font, "", LegendFontSize)
	for i, e := range d.Legend {
		y := b.Row(i)
		p.stroke(e.Color, TrackWeight, e.Style)
		p.pdf.Line(b.X+8, y, b.X+8+b.SampleLen, y)
		p.pdf.Text(b.X+8+b.SampleLen+6, y+0.35*LegendFontSize, p.tr(e.Label))
	}
	p.pdf.SetDashPattern([]float64{}, 0)
}

func (p pdfPainter) title(f Frame, d *diagram.Diagram) {
	if d.Title == "" {
		return
	}
	p.pdf.SetFont(p.font, "", d.TitleFontSize)
	p.centered((f.Left+f.Right)/2, 12+d.TitleFontSize, d.Title)
}

// centered draws s with its baseline at y, horizontally centered on x.
func (p pdfPainter) centered(x, y float64, s string) {
	s = p.tr(s)
	p.pdf.Text(x-p.pdf.GetStringWidth(s)/2, y, s)
}
