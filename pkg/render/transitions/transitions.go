package transitions

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/render"
)

// Options configures the transitions view.
type Options struct {
	// Holds adds a self-loop per state labelled with the number of steps the
	// device stays in it.
	Holds bool
}

// Transition is an observed change from one state value to another.
type Transition struct {
	From, To float64
	Steps    []int
}

// Machine is the observed state machine of one device.
type Machine struct {
	Device      string
	Style       diagram.LineStyle
	States      []float64
	Holds       []int
	Transitions []Transition
}

// Build derives one machine per device. States are listed in first-visit
// order. in is expected to be valid; see [diagram.Input.Validate].
func Build(in diagram.Input) []Machine {
	machines := make([]Machine, len(in.Devices))
	for i, dev := range in.Devices {
		m := Machine{Device: dev.Name, Style: dev.Style}
		index := make(map[float64]int)
		edges := make(map[[2]float64]int)

		for step, v := range dev.States {
			j, seen := index[v]
			if !seen {
				j = len(m.States)
				index[v] = j
				m.States = append(m.States, v)
				m.Holds = append(m.Holds, 0)
			}
			if step == 0 {
				continue
			}
			prev := dev.States[step-1]
			if prev == v {
				m.Holds[j]++
				continue
			}
			key := [2]float64{prev, v}
			k, ok := edges[key]
			if !ok {
				k = len(m.Transitions)
				edges[key] = k
				m.Transitions = append(m.Transitions, Transition{From: prev, To: v})
			}
			m.Transitions[k].Steps = append(m.Transitions[k].Steps, step)
		}
		machines[i] = m
	}
	return machines
}

// ToDOT converts the devices of in to a Graphviz DOT graph.
func ToDOT(in diagram.Input, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11];\n")
	if in.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=20;\n  fontname=\"Helvetica\";\n", in.Title)
	}

	for i, m := range Build(in) {
		color := diagram.Palette[i%len(diagram.Palette)]
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", m.Device)
		fmt.Fprintf(&buf, "    color=%q;\n", color)
		fmt.Fprintf(&buf, "    fontsize=14;\n")

		for j, v := range m.States {
			fmt.Fprintf(&buf, "    %s [label=%q, color=%q];\n", nodeID(i, j), formatState(v), color)
		}

		edgeStyle := ""
		if m.Style == diagram.Dashed {
			edgeStyle = ", style=dashed"
		}
		pos := make(map[float64]int, len(m.States))
		for j, v := range m.States {
			pos[v] = j
		}
		for _, t := range m.Transitions {
			fmt.Fprintf(&buf, "    %s -> %s [label=%q, color=%q%s];\n",
				nodeID(i, pos[t.From]), nodeID(i, pos[t.To]), stepLabel(t.Steps), color, edgeStyle)
		}
		if opts.Holds {
			for j, n := range m.Holds {
				if n == 0 {
					continue
				}
				fmt.Fprintf(&buf, "    %s -> %s [label=\"×%d\", color=%q, style=dotted];\n",
					nodeID(i, j), nodeID(i, j), n, color)
			}
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(device, state int) string {
	return fmt.Sprintf("d%d_s%d", device, state)
}

func formatState(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stepLabel(steps []int) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = strconv.Itoa(s)
	}
	return "t=" + strings.Join(parts, ",")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPDF renders a DOT graph to PDF via SVG.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph to PNG via SVG.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based root element with one whose
// width and height match the viewBox, so rsvg-convert and browsers agree on
// the size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
