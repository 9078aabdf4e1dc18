// Package transitions renders the state machine behind each device of a
// timing diagram.
//
// # Overview
//
// A timing diagram shows when a device changes state; the transitions view
// shows which changes happen at all. [Build] collects, per device, the
// distinct state values it visits and every observed change between them,
// together with the steps at which the change occurs.
//
// [ToDOT] turns the result into a Graphviz graph with one cluster per device.
// [RenderSVG] lays it out with the embedded Graphviz library, and
// [RenderPDF] and [RenderPNG] convert that SVG with rsvg-convert.
//
//	dot := transitions.ToDOT(in, transitions.Options{Holds: true})
//	svg, err := transitions.RenderSVG(ctx, dot)
package transitions
