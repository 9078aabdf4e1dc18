package transitions

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
)

func testInput() diagram.Input {
	return diagram.Input{
		MaxStep: 6,
		Title:   "Cycle",
		Devices: []diagram.Device{
			{Name: "Pump", States: []float64{0, 0, 1, 1, 0, 1, 0}},
			{Name: "Valve", States: []float64{1, 0.5, 0.5, 0, 0, 0, 0}, Style: diagram.Dashed},
		},
	}
}

func TestBuild(t *testing.T) {
	ms := Build(testInput())
	if len(ms) != 2 {
		t.Fatalf("got %d machines, want 2", len(ms))
	}

	pump := ms[0]
	if !reflect.DeepEqual(pump.States, []float64{0, 1}) {
		t.Errorf("pump states = %v", pump.States)
	}
	want := []Transition{
		{From: 0, To: 1, Steps: []int{2, 5}},
		{From: 1, To: 0, Steps: []int{4, 6}},
	}
	if !reflect.DeepEqual(pump.Transitions, want) {
		t.Errorf("pump transitions = %+v, want %+v", pump.Transitions, want)
	}
	if !reflect.DeepEqual(pump.Holds, []int{1, 1}) {
		t.Errorf("pump holds = %v", pump.Holds)
	}

	valve := ms[1]
	if !reflect.DeepEqual(valve.States, []float64{1, 0.5, 0}) {
		t.Errorf("valve states = %v", valve.States)
	}
	if len(valve.Transitions) != 2 || valve.Holds[2] != 3 {
		t.Errorf("valve = %+v", valve)
	}
}

func TestBuildConstantDevice(t *testing.T) {
	ms := Build(diagram.Input{Devices: []diagram.Device{{Name: "A", States: []float64{1, 1, 1}}}})
	if len(ms[0].Transitions) != 0 || ms[0].Holds[0] != 2 {
		t.Errorf("machine = %+v", ms[0])
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testInput(), Options{})

	for _, want := range []string{
		"subgraph cluster_0",
		"subgraph cluster_1",
		`label="Pump"`,
		`d0_s0 -> d0_s1 [label="t=2,5"`,
		`d1_s1 [label="0.5"`,
		"style=dashed",
		`label="Cycle"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT misses %s:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "style=dotted") {
		t.Error("hold loops present without Options.Holds")
	}

	withHolds := ToDOT(testInput(), Options{Holds: true})
	if !strings.Contains(withHolds, `d1_s2 -> d1_s2 [label="×3"`) {
		t.Errorf("missing hold loop:\n%s", withHolds)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testInput(), Options{Holds: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "Pump") {
		t.Errorf("unexpected SVG output: %.200s", s)
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "not valid DOT {{{"); err == nil {
		t.Error("expected an error for malformed DOT")
	}
}
