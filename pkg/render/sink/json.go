package sink

import (
	"encoding/json"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
)

type jsonOutput struct {
	Width   float64          `json:"width"`
	Height  float64          `json:"height"`
	Plot    jsonPlot         `json:"plot"`
	Diagram *diagram.Diagram `json:"diagram"`
}

type jsonPlot struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// RenderJSON exports d together with the page geometry it would be drawn
// with at the given size, so external tools can place their own marks on
// top of the SVG or PDF output.
func RenderJSON(d *diagram.Diagram, width, height float64) ([]byte, error) {
	f := NewFrame(d, width, height)
	out := jsonOutput{
		Width:   f.Width,
		Height:  f.Height,
		Plot:    jsonPlot{Left: f.Left, Top: f.Top, Right: f.Right, Bottom: f.Bottom},
		Diagram: d,
	}
	return json.MarshalIndent(out, "", "  ")
}
