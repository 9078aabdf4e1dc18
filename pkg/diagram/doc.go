// Package diagram lays out timing diagrams for binary-state devices.
//
// # Overview
//
// A timing diagram stacks one horizontal band per [Device] over a shared,
// discrete time axis running from step 0 to [Input.MaxStep]. Each device
// contributes a curve of its state sequence (conventionally 0, 1 or a
// fractional "half state") shifted into its band, two reference lines that
// frame the band, and a pair of y-axis ticks labelled "<name> [0]" and
// "<name> [1]".
//
// [Render] is a pure function: it validates an [Input] and returns a fully
// positioned [Diagram] in data coordinates. Converting data coordinates into
// pixels or points is left to the output sinks in pkg/render/sink.
//
// # Band Geometry
//
// Device i is placed at offset i × [BandSpacing] (1.5). With states in the
// [0, 1] range, bands never overlap and each keeps a 0.5 unit gutter above
// its ceiling. The y-axis view is [-0.5, offset[N-1] + 1.5].
//
//	offsets := diagram.Offsets(3) // [0 1.5 3]
//
// # Duration Annotations
//
// Annotations are attached per device as (step, seconds) pairs and drawn as
// "<seconds>s" just below the device baseline. The flat positional form used
// by simpler inputs is converted with [ApplyPositional].
//
// # Usage
//
//	d, err := diagram.Render(diagram.Input{
//	    MaxStep:   5,
//	    Title:     "Pump cycle",
//	    StepLabel: "Step",
//	    Devices: []diagram.Device{
//	        {Name: "A", States: []float64{0, 0, 1, 1, 0, 0}},
//	        {Name: "B", States: []float64{1, 1, 1, 0, 0, 0}, Style: diagram.Dashed},
//	    },
//	})
//	if err != nil {
//	    // errors.IsValidation(err) is true for bad input
//	}
package diagram
