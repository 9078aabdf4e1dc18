package diagram

// LineStyle is the stroke pattern of a device curve.
type LineStyle string

// Supported line styles. The zero value renders as Solid.
const (
	Solid  LineStyle = "solid"
	Dashed LineStyle = "dashed"
)

// Shape controls how consecutive state samples are joined.
type Shape string

const (
	// Linear joins samples with straight segments.
	Linear Shape = "linear"
	// Step holds each sample until the next step.
	Step Shape = "step"
)

// Annotation is a duration label placed under a device band at Step.
type Annotation struct {
	Step    int     `json:"step"`
	Seconds float64 `json:"seconds"`
}

// Device is one track of the diagram.
type Device struct {
	Name        string       `json:"name"`
	States      []float64    `json:"states"`
	Style       LineStyle    `json:"style,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Input is everything [Render] needs. Localized strings (Title, StepLabel)
// are supplied by the caller.
type Input struct {
	MaxStep   int      `json:"max_step"`
	Devices   []Device `json:"devices"`
	Shape     Shape    `json:"shape,omitempty"`
	Title     string   `json:"title"`
	StepLabel string   `json:"step_label"`
}

// Point is a position in data coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Track is the drawn curve of one device.
type Track struct {
	Device string    `json:"device"`
	Offset float64   `json:"offset"`
	Style  LineStyle `json:"style"`
	Color  string    `json:"color"`
	States []float64 `json:"states"`
	Points []Point   `json:"points"`
}

// HLine is a horizontal reference line spanning the whole x range.
type HLine struct {
	Y      float64 `json:"y"`
	Weight float64 `json:"weight"`
	Color  string  `json:"color"`
}

// VLine is a vertical gridline spanning the whole y range.
type VLine struct {
	X      float64 `json:"x"`
	Weight float64 `json:"weight"`
	Color  string  `json:"color"`
}

// Tick is an axis tick with its label.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Range is a closed interval of an axis view.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Label is a centered text placed at a data position. Track is the index of
// the track it belongs to.
type Label struct {
	Track    int     `json:"track"`
	Device   string  `json:"device"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
}

// LegendEntry describes one device in the legend.
type LegendEntry struct {
	Label string    `json:"label"`
	Style LineStyle `json:"style"`
	Color string    `json:"color"`
}

// Diagram is a fully laid-out timing diagram in data coordinates.
type Diagram struct {
	Title         string        `json:"title"`
	TitleFontSize float64       `json:"title_font_size"`
	XLabel        string        `json:"x_label"`
	Shape         Shape         `json:"shape"`
	TimeAxis      []int         `json:"time_axis"`
	Offsets       []float64     `json:"offsets"`
	Tracks        []Track       `json:"tracks"`
	RefLines      []HLine       `json:"ref_lines"`
	GridLines     []VLine       `json:"grid_lines"`
	XTicks        []Tick        `json:"x_ticks"`
	YTicks        []Tick        `json:"y_ticks"`
	XLim          Range         `json:"x_lim"`
	YLim          Range         `json:"y_lim"`
	Annotations   []Label       `json:"annotations,omitempty"`
	Legend        []LegendEntry `json:"legend"`
}
