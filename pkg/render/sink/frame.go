package sink

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
)

// Page defaults, in points.
const (
	DefaultWidth = 800.0
	MinHeight    = 480.0

	TickFontSize   = 10.0
	LabelFontSize  = 12.0
	LegendFontSize = 10.0

	TrackWeight = 1.5
	AxisWeight  = 0.8
	TickLength  = 3.5

	// charWidth approximates the advance of an average Helvetica glyph as a
	// fraction of the font size.
	charWidth = 0.55
)

// DashPattern is the on/off pattern of dashed tracks.
var DashPattern = []float64{5.5, 2.4}

// AutoHeight returns the default page height for n devices.
func AutoHeight(n int) float64 {
	return math.Max(MinHeight, 160+90*float64(n))
}

// Frame maps data coordinates onto a page with a top-left origin.
// Left, Top, Right and Bottom bound the plot area.
type Frame struct {
	Width, Height            float64
	Left, Top, Right, Bottom float64
	XLim, YLim               diagram.Range
}

// NewFrame sizes the plot area so the title, tick labels and x label fit
// around it. A zero height selects [AutoHeight].
func NewFrame(d *diagram.Diagram, width, height float64) Frame {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = AutoHeight(len(d.Tracks))
	}

	labelWidth := 0.0
	for _, t := range d.YTicks {
		labelWidth = math.Max(labelWidth, TextWidth(t.Label, TickFontSize))
	}

	f := Frame{
		Width:  width,
		Height: height,
		Left:   math.Min(16+labelWidth+TickLength+4, width/2),
		Top:    20 + 1.5*d.TitleFontSize,
		Right:  width - 20,
		Bottom: height - (TickLength + TickFontSize + LabelFontSize + 24),
		XLim:   d.XLim,
		YLim:   d.YLim,
	}
	if d.Title == "" {
		f.Top = 20
	}
	return f
}

// X maps a data x value to page units.
func (f Frame) X(v float64) float64 {
	return f.Left + (v-f.XLim.Min)/f.XLim.Span()*(f.Right-f.Left)
}

// Y maps a data y value to page units. Larger data values are higher up.
func (f Frame) Y(v float64) float64 {
	return f.Bottom - (v-f.YLim.Min)/f.YLim.Span()*(f.Bottom-f.Top)
}

// PlotWidth returns the width of the plot area.
func (f Frame) PlotWidth() float64 { return f.Right - f.Left }

// PlotHeight returns the height of the plot area.
func (f Frame) PlotHeight() float64 { return f.Bottom - f.Top }

// TextWidth estimates the rendered width of s.
func TextWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * charWidth
}

// LegendBox is the placement of the legend in the upper right corner of the
// plot area.
type LegendBox struct {
	X, Y, W, H float64
	RowHeight  float64
	SampleLen  float64
}

// Legend places a legend for entries.
func (f Frame) Legend(entries []diagram.LegendEntry) LegendBox {
	textWidth := 0.0
	for _, e := range entries {
		textWidth = math.Max(textWidth, TextWidth(e.Label, LegendFontSize))
	}
	b := LegendBox{
		RowHeight: 1.6 * LegendFontSize,
		SampleLen: 24,
	}
	b.W = 8 + b.SampleLen + 6 + textWidth + 8
	b.H = 6 + float64(len(entries))*b.RowHeight + 2
	b.X = f.Right - 8 - b.W
	b.Y = f.Top + 8
	return b
}

// Row returns the vertical center of legend row i.
func (b LegendBox) Row(i int) float64 {
	return b.Y + 6 + (float64(i)+0.5)*b.RowHeight
}

// hexRGB parses "#rrggbb". Malformed colors come back black.
func hexRGB(color string) (r, g, b int) {
	s := strings.TrimPrefix(color, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
