package diagram

import (
	"strconv"
)

// Layout constants, in data units unless noted otherwise.
const (
	// BandSpacing is the vertical distance between consecutive device baselines.
	BandSpacing = 1.5

	// AnnotationDrop is how far below a baseline duration labels are centered.
	AnnotationDrop = 0.3

	// Headroom is the margin below the lowest baseline; the view extends
	// BandSpacing above the highest baseline.
	Headroom = 0.5

	BaselineWeight = 1.0
	CeilingWeight  = 0.5
	GridWeight     = 1.0

	// Font sizes in points.
	TitleFontSize      = 20.0
	AnnotationFontSize = 12.0

	RefLineColor  = "#808080"
	GridLineColor = "#d3d3d3"
)

// Palette is the color cycle assigned to tracks in device order.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// TimeAxis returns the steps 0..maxStep inclusive.
func TimeAxis(maxStep int) []int {
	if maxStep < 0 {
		return nil
	}
	axis := make([]int, maxStep+1)
	for i := range axis {
		axis[i] = i
	}
	return axis
}

// Offsets returns the baseline of each of n bands.
func Offsets(n int) []float64 {
	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = float64(i) * BandSpacing
	}
	return offsets
}

// Render validates in and lays out the diagram.
func Render(in Input) (*Diagram, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	axis := TimeAxis(in.MaxStep)
	offsets := Offsets(len(in.Devices))
	shape := in.Shape
	if shape == "" {
		shape = Linear
	}

	d := &Diagram{
		Title:         in.Title,
		TitleFontSize: TitleFontSize,
		XLabel:        in.StepLabel,
		Shape:         shape,
		TimeAxis:      axis,
		Offsets:       offsets,
		Tracks:        make([]Track, 0, len(in.Devices)),
		RefLines:      make([]HLine, 0, 2*len(in.Devices)),
		GridLines:     make([]VLine, 0, len(axis)),
		XTicks:        make([]Tick, 0, len(axis)),
		YTicks:        make([]Tick, 0, 2*len(in.Devices)),
		Legend:        make([]LegendEntry, 0, len(in.Devices)),
		XLim:          xLimits(in.MaxStep),
		YLim:          Range{Min: -Headroom, Max: offsets[len(offsets)-1] + BandSpacing},
	}

	for i, dev := range in.Devices {
		off := offsets[i]
		style := dev.Style
		if style == "" {
			style = Solid
		}
		color := Palette[i%len(Palette)]

		d.Tracks = append(d.Tracks, Track{
			Device: dev.Name,
			Offset: off,
			Style:  style,
			Color:  color,
			States: dev.States,
			Points: curve(axis, dev.States, off, shape),
		})
		d.RefLines = append(d.RefLines,
			HLine{Y: off, Weight: BaselineWeight, Color: RefLineColor},
			HLine{Y: off + 1, Weight: CeilingWeight, Color: RefLineColor},
		)
		d.YTicks = append(d.YTicks,
			Tick{Pos: off, Label: dev.Name + " [0]"},
			Tick{Pos: off + 1, Label: dev.Name + " [1]"},
		)
		d.Legend = append(d.Legend, LegendEntry{Label: dev.Name, Style: style, Color: color})

		for _, a := range dev.Annotations {
			d.Annotations = append(d.Annotations, Label{
				Track:    i,
				Device:   dev.Name,
				X:        float64(a.Step),
				Y:        off - AnnotationDrop,
				Text:     FormatSeconds(a.Seconds),
				FontSize: AnnotationFontSize,
			})
		}
	}

	for _, t := range axis {
		d.GridLines = append(d.GridLines, VLine{X: float64(t), Weight: GridWeight, Color: GridLineColor})
		d.XTicks = append(d.XTicks, Tick{Pos: float64(t), Label: strconv.Itoa(t)})
	}

	return d, nil
}

// FormatSeconds renders a duration annotation, e.g. 5 -> "5s", 2.5 -> "2.5s".
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}

// curve shifts states into a band. Step shapes repeat each sample at the
// next step so the value is held across the interval.
func curve(axis []int, states []float64, offset float64, shape Shape) []Point {
	if shape == Step {
		pts := make([]Point, 0, 2*len(axis))
		for i, t := range axis {
			y := states[i] + offset
			if i > 0 {
				pts = append(pts, Point{X: float64(t), Y: pts[len(pts)-1].Y})
			}
			pts = append(pts, Point{X: float64(t), Y: y})
		}
		return pts
	}

	pts := make([]Point, len(axis))
	for i, t := range axis {
		pts[i] = Point{X: float64(t), Y: states[i] + offset}
	}
	return pts
}

// xLimits pads the time axis by 5% on each side; a single-step axis gets a
// fixed half-unit margin.
func xLimits(maxStep int) Range {
	if maxStep == 0 {
		return Range{Min: -0.5, Max: 0.5}
	}
	pad := 0.05 * float64(maxStep)
	return Range{Min: -pad, Max: float64(maxStep) + pad}
}
