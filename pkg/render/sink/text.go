package sink

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
)

// TextOption configures plain-text rendering.
type TextOption func(*textRenderer)

type textRenderer struct {
	cell  int
	title bool
}

// WithCellWidth sets the number of columns per time step (default 4).
func WithCellWidth(n int) TextOption {
	return func(r *textRenderer) {
		if n >= 2 {
			r.cell = n
		}
	}
}

// WithoutTitle omits the title line.
func WithoutTitle() TextOption {
	return func(r *textRenderer) { r.title = false }
}

// Waveform levels, top row first.
const (
	levelHigh = iota
	levelMid
	levelLow
)

// Level buckets a state value into the three rows of a text waveform.
func Level(v float64) int {
	switch {
	case v >= 0.75:
		return levelHigh
	case v <= 0.25:
		return levelLow
	}
	return levelMid
}

// Waveform draws states as three rows of box-drawing characters, cell
// columns per step.
func Waveform(states []float64, cell int) [3]string {
	width := len(states) * cell
	var grid [3][]rune
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	prev := -1
	for i, v := range states {
		row := Level(v)
		x := i * cell
		for c := x; c < x+cell; c++ {
			grid[row][c] = '─'
		}
		switch {
		case prev < 0 || prev == row:
		case row < prev:
			grid[prev][x] = '┘'
			grid[row][x] = '┌'
			for r := row + 1; r < prev; r++ {
				grid[r][x] = '│'
			}
		default:
			grid[prev][x] = '┐'
			grid[row][x] = '└'
			for r := prev + 1; r < row; r++ {
				grid[r][x] = '│'
			}
		}
		prev = row
	}

	return [3]string{string(grid[0]), string(grid[1]), string(grid[2])}
}

// RenderText draws d as an ASCII waveform, topmost band first, the way it
// appears in the PDF. Duration labels go on a line under their device.
func RenderText(d *diagram.Diagram, opts ...TextOption) []byte {
	r := textRenderer{cell: 4, title: true}
	for _, opt := range opts {
		opt(&r)
	}

	nameWidth := 0
	for _, t := range d.Tracks {
		nameWidth = max(nameWidth, utf8.RuneCountInString(t.Device))
	}
	pad := func(s string) string {
		return s + strings.Repeat(" ", nameWidth-utf8.RuneCountInString(s)) + "  "
	}

	var b strings.Builder
	if r.title && d.Title != "" {
		b.WriteString(d.Title + "\n\n")
	}

	for i := len(d.Tracks) - 1; i >= 0; i-- {
		t := d.Tracks[i]
		rows := Waveform(t.States, r.cell)
		for j, row := range rows {
			name := ""
			if j == levelMid {
				name = t.Device
			}
			b.WriteString(strings.TrimRight(pad(name)+row, " ") + "\n")
		}
		if line := AnnotationLine(d, i, r.cell); line != "" {
			b.WriteString(strings.TrimRight(pad("")+line, " ") + "\n")
		}
	}

	axis := make([]string, len(d.TimeAxis))
	for i, step := range d.TimeAxis {
		label := strconv.Itoa(step)
		axis[i] = label + strings.Repeat(" ", max(1, r.cell-len(label)))
	}
	b.WriteString(strings.TrimRight(pad("")+strings.Join(axis, ""), " ") + "\n")
	if d.XLabel != "" {
		b.WriteString(pad("") + d.XLabel + "\n")
	}
	return []byte(b.String())
}

// AnnotationLine lays out the duration labels of one track on a single line,
// each starting at the column of its step.
func AnnotationLine(d *diagram.Diagram, track, cell int) string {
	var line []rune
	for _, a := range d.Annotations {
		if a.Track != track {
			continue
		}
		x := int(a.X) * cell
		text := []rune(a.Text)
		for len(line) < x+len(text) {
			line = append(line, ' ')
		}
		copy(line[x:], text)
	}
	return string(line)
}
