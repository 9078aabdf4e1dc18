package diagram

import (
	"fmt"
	"testing"

	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

func twoDevices() Input {
	return Input{
		MaxStep:   5,
		Title:     "Sequence",
		StepLabel: "Step",
		Devices: []Device{
			{Name: "A", States: []float64{0, 0, 1, 1, 0, 0}},
			{Name: "B", States: []float64{1, 1, 1, 0, 0, 0}},
		},
	}
}

func TestRenderTwoDevices(t *testing.T) {
	d, err := Render(twoDevices())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(d.Offsets) != 2 || d.Offsets[0] != 0 || d.Offsets[1] != 1.5 {
		t.Errorf("Offsets = %v, want [0 1.5]", d.Offsets)
	}
	if d.YLim != (Range{Min: -0.5, Max: 3.0}) {
		t.Errorf("YLim = %+v, want {-0.5 3}", d.YLim)
	}
	if len(d.YTicks) != 4 {
		t.Fatalf("YTicks = %d, want 4", len(d.YTicks))
	}

	wantTicks := []Tick{
		{Pos: 0, Label: "A [0]"},
		{Pos: 1, Label: "A [1]"},
		{Pos: 1.5, Label: "B [0]"},
		{Pos: 2.5, Label: "B [1]"},
	}
	for i, want := range wantTicks {
		if d.YTicks[i] != want {
			t.Errorf("YTicks[%d] = %+v, want %+v", i, d.YTicks[i], want)
		}
	}

	if d.XLabel != "Step" || d.Title != "Sequence" {
		t.Errorf("labels = (%q, %q)", d.XLabel, d.Title)
	}
	if d.TitleFontSize != TitleFontSize {
		t.Errorf("TitleFontSize = %v", d.TitleFontSize)
	}
	if len(d.Annotations) != 0 {
		t.Errorf("Annotations = %v, want none", d.Annotations)
	}
}

func TestRenderTickCountAndOrder(t *testing.T) {
	for n := 1; n <= 10; n++ {
		t.Run(fmt.Sprintf("%d devices", n), func(t *testing.T) {
			in := Input{MaxStep: 3}
			for i := 0; i < n; i++ {
				in.Devices = append(in.Devices, Device{
					Name:   fmt.Sprintf("dev%d", i),
					States: []float64{0, 1, 0.5, 0},
				})
			}

			d, err := Render(in)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if len(d.YTicks) != 2*n {
				t.Fatalf("YTicks = %d, want %d", len(d.YTicks), 2*n)
			}
			for i := 0; i < n; i++ {
				lo, hi := d.YTicks[2*i], d.YTicks[2*i+1]
				if lo.Label != fmt.Sprintf("dev%d [0]", i) || hi.Label != fmt.Sprintf("dev%d [1]", i) {
					t.Errorf("ticks for device %d = %q, %q", i, lo.Label, hi.Label)
				}
				if hi.Pos-lo.Pos != 1 {
					t.Errorf("band %d height = %v, want 1", i, hi.Pos-lo.Pos)
				}
			}

			for i := 1; i < len(d.Offsets); i++ {
				if diff := d.Offsets[i] - d.Offsets[i-1]; diff != BandSpacing {
					t.Errorf("offset[%d]-offset[%d] = %v, want %v", i, i-1, diff, BandSpacing)
				}
			}

			last := d.Offsets[len(d.Offsets)-1]
			if d.YLim.Min != -0.5 || d.YLim.Max != last+1.5 {
				t.Errorf("YLim = %+v, want [-0.5, %v]", d.YLim, last+1.5)
			}
			if len(d.RefLines) != 2*n {
				t.Errorf("RefLines = %d, want %d", len(d.RefLines), 2*n)
			}
			if len(d.Legend) != n {
				t.Errorf("Legend = %d, want %d", len(d.Legend), n)
			}
		})
	}
}

func TestRenderAllZeroOnBaseline(t *testing.T) {
	in := Input{
		MaxStep: 4,
		Devices: []Device{
			{Name: "low", States: []float64{1, 1, 1, 1, 1}},
			{Name: "zero", States: []float64{0, 0, 0, 0, 0}},
		},
	}
	for _, shape := range []Shape{Linear, Step} {
		in.Shape = shape
		d, err := Render(in)
		if err != nil {
			t.Fatalf("Render(%s): %v", shape, err)
		}
		tr := d.Tracks[1]
		for _, p := range tr.Points {
			if p.Y != tr.Offset {
				t.Errorf("%s: point %+v not on baseline %v", shape, p, tr.Offset)
			}
		}
	}
}

func TestRenderCurve(t *testing.T) {
	d, err := Render(twoDevices())
	if err != nil {
		t.Fatal(err)
	}
	b := d.Tracks[1]
	want := []float64{2.5, 2.5, 2.5, 1.5, 1.5, 1.5}
	if len(b.Points) != len(want) {
		t.Fatalf("points = %d, want %d", len(b.Points), len(want))
	}
	for i, y := range want {
		if b.Points[i].X != float64(i) || b.Points[i].Y != y {
			t.Errorf("point %d = %+v, want {%d %v}", i, b.Points[i], i, y)
		}
	}
}

func TestRenderStepShape(t *testing.T) {
	in := Input{
		MaxStep: 2,
		Shape:   Step,
		Devices: []Device{{Name: "A", States: []float64{0, 1, 0}}},
	}
	d, err := Render(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{0, 0}, {1, 0}, {1, 1}, {2, 1}, {2, 0}}
	got := d.Tracks[0].Points
	if len(got) != len(want) {
		t.Fatalf("points = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRenderGridAndXTicks(t *testing.T) {
	d, err := Render(twoDevices())
	if err != nil {
		t.Fatal(err)
	}
	if len(d.GridLines) != 6 || len(d.XTicks) != 6 {
		t.Fatalf("grid = %d, xticks = %d, want 6 each", len(d.GridLines), len(d.XTicks))
	}
	for i, g := range d.GridLines {
		if g.X != float64(i) || g.Weight != GridWeight || g.Color != GridLineColor {
			t.Errorf("grid %d = %+v", i, g)
		}
		if d.XTicks[i].Label != fmt.Sprint(i) {
			t.Errorf("xtick %d label = %q", i, d.XTicks[i].Label)
		}
	}
	if d.XLim.Min >= 0 || d.XLim.Max <= 5 {
		t.Errorf("XLim = %+v should pad [0, 5]", d.XLim)
	}
}

func TestRenderRefLineWeights(t *testing.T) {
	d, err := Render(twoDevices())
	if err != nil {
		t.Fatal(err)
	}
	for i, off := range d.Offsets {
		base, ceil := d.RefLines[2*i], d.RefLines[2*i+1]
		if base.Y != off || base.Weight != BaselineWeight {
			t.Errorf("baseline %d = %+v", i, base)
		}
		if ceil.Y != off+1 || ceil.Weight != CeilingWeight {
			t.Errorf("ceiling %d = %+v", i, ceil)
		}
		if base.Weight <= ceil.Weight {
			t.Errorf("baseline should be heavier than ceiling")
		}
	}
}

func TestRenderAnnotation(t *testing.T) {
	in := twoDevices()
	in.Devices[0].Annotations = []Annotation{{Step: 3, Seconds: 5}}
	in.Devices[1].Annotations = []Annotation{{Step: 0, Seconds: 2.5}}

	d, err := Render(in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(d.Annotations) != 2 {
		t.Fatalf("Annotations = %d, want 2", len(d.Annotations))
	}

	a := d.Annotations[0]
	if a.Text != "5s" || a.X != 3 || a.Y != d.Offsets[0]-0.3 || a.Device != "A" {
		t.Errorf("annotation = %+v", a)
	}
	b := d.Annotations[1]
	if b.Text != "2.5s" || b.Y != d.Offsets[1]-0.3 {
		t.Errorf("annotation = %+v", b)
	}
}

func TestRenderDefaults(t *testing.T) {
	d, err := Render(twoDevices())
	if err != nil {
		t.Fatal(err)
	}
	if d.Shape != Linear {
		t.Errorf("Shape = %q, want linear", d.Shape)
	}
	for i, tr := range d.Tracks {
		if tr.Style != Solid {
			t.Errorf("track %d style = %q, want solid", i, tr.Style)
		}
		if tr.Color != Palette[i] {
			t.Errorf("track %d color = %q, want %q", i, tr.Color, Palette[i])
		}
	}
}

func TestRenderSingleStep(t *testing.T) {
	d, err := Render(Input{MaxStep: 0, Devices: []Device{{Name: "A", States: []float64{1}}}})
	if err != nil {
		t.Fatal(err)
	}
	if d.XLim.Span() <= 0 {
		t.Errorf("XLim = %+v, want non-empty", d.XLim)
	}
	if len(d.XTicks) != 1 {
		t.Errorf("XTicks = %d, want 1", len(d.XTicks))
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		code   errs.Code
	}{
		{"no devices", func(in *Input) { in.Devices = nil }, errs.ErrCodeNoDevices},
		{"negative max", func(in *Input) { in.MaxStep = -1 }, errs.ErrCodeInvalidInput},
		{"short states", func(in *Input) { in.Devices[0].States = in.Devices[0].States[:5] }, errs.ErrCodeLengthMismatch},
		{"long states", func(in *Input) { in.Devices[1].States = append(in.Devices[1].States, 0) }, errs.ErrCodeLengthMismatch},
		{"bad style", func(in *Input) { in.Devices[0].Style = "dotted" }, errs.ErrCodeInvalidStyle},
		{"bad shape", func(in *Input) { in.Shape = "spline" }, errs.ErrCodeInvalidInput},
		{"step above axis", func(in *Input) { in.Devices[0].Annotations = []Annotation{{Step: 6, Seconds: 1}} }, errs.ErrCodeStepOutOfRange},
		{"negative step", func(in *Input) { in.Devices[1].Annotations = []Annotation{{Step: -1, Seconds: 1}} }, errs.ErrCodeStepOutOfRange},
		{"empty name", func(in *Input) { in.Devices[0].Name = "" }, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := twoDevices()
			tt.mutate(&in)
			d, err := Render(in)
			if err == nil {
				t.Fatal("expected error")
			}
			if d != nil {
				t.Error("no diagram should be produced on error")
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errs.GetCode(err), tt.code, err)
			}
			if !errs.IsValidation(err) {
				t.Errorf("IsValidation(%v) = false", err)
			}
		})
	}
}

func TestRenderMismatchMessage(t *testing.T) {
	in := twoDevices()
	in.Devices[0].States = []float64{0, 0, 1, 1, 0}
	_, err := Render(in)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := errs.UserMessage(err)
	if want := "device state-sequence length must equal time-axis length"; len(msg) < len(want) || msg[:len(want)] != want {
		t.Errorf("message = %q", msg)
	}
}

func TestTimeAxis(t *testing.T) {
	if got := TimeAxis(-1); got != nil {
		t.Errorf("TimeAxis(-1) = %v", got)
	}
	got := TimeAxis(3)
	if len(got) != 4 || got[0] != 0 || got[3] != 3 {
		t.Errorf("TimeAxis(3) = %v", got)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := map[float64]string{5: "5s", 3: "3s", 2.5: "2.5s", 0: "0s", 0.125: "0.125s"}
	for in, want := range tests {
		if got := FormatSeconds(in); got != want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", in, got, want)
		}
	}
}
