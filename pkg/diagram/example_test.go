package diagram_test

import (
	"fmt"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
)

func ExampleRender() {
	d, err := diagram.Render(diagram.Input{
		MaxStep:   5,
		Title:     "Sequence Diagram",
		StepLabel: "Step",
		Devices: []diagram.Device{
			{Name: "A", States: []float64{0, 0, 1, 1, 0, 0}, Annotations: []diagram.Annotation{{Step: 3, Seconds: 5}}},
			{Name: "B", States: []float64{1, 1, 1, 0, 0, 0}, Style: diagram.Dashed},
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("offsets:", d.Offsets)
	fmt.Println("y limits:", d.YLim.Min, d.YLim.Max)
	for _, t := range d.YTicks {
		fmt.Printf("%v %s\n", t.Pos, t.Label)
	}
	for _, a := range d.Annotations {
		fmt.Printf("%s at (%v, %.1f)\n", a.Text, a.X, a.Y)
	}
	// Output:
	// offsets: [0 1.5]
	// y limits: -0.5 3
	// 0 A [0]
	// 1 A [1]
	// 1.5 B [0]
	// 2.5 B [1]
	// 5s at (3, -0.3)
}

func ExampleOffsets() {
	fmt.Println(diagram.Offsets(4))
	// Output: [0 1.5 3 4.5]
}
