// Package io reads and writes diagram definitions and laid-out diagrams.
//
// # Overview
//
// A definition is the serialized description of one timing diagram. It can
// be written by hand as TOML, YAML or JSON and is the body accepted by the
// HTTP API. [Definition.Input] turns it into a [diagram.Input], resolving
// language defaults (title, step label) on the way.
//
// # Definition Format
//
// TOML:
//
//	title    = "Pump cycle"
//	lang     = "de"
//	max_step = 5
//	shape    = "step"
//
//	[[devices]]
//	name   = "Pump"
//	states = [0, 0, 1, 1, 0, 0]
//	style  = "dashed"
//
//	  [[devices.durations]]
//	  step    = 3
//	  seconds = 5
//
// The same keys are used in YAML and JSON. Optional fields:
//   - title: defaults to the localized "sequence diagram"
//   - lang: fr (default), de or it; selects the step label
//   - max_step: defaults to the state count of the first device minus one
//   - shape: linear (default) or step
//   - style: solid (default) or dashed; "-" and "--" are accepted
//   - durations (top level): flat list, value i annotates device i at step i
//
// Unknown keys are rejected so that typos do not silently drop data.
//
// # Lists
//
// [ParseFloats] and [ParseInts] parse the comma-separated fields of the web
// form ("0,0,1,1,0.5,0").
//
// # Export
//
// [WriteLayoutJSON] and [ExportLayoutJSON] write a laid-out
// [diagram.Diagram] with every computed position, for external tools.
//
// [diagram.Input]: github.com/matzehuels/seqdiagram/pkg/diagram.Input
// [diagram.Diagram]: github.com/matzehuels/seqdiagram/pkg/diagram.Diagram
package io
