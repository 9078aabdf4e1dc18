package io

import (
	"github.com/matzehuels/seqdiagram/pkg/diagram"
	"github.com/matzehuels/seqdiagram/pkg/i18n"
)

// Definition is the serialized description of one diagram.
type Definition struct {
	Title     string             `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	Lang      string             `json:"lang,omitempty" toml:"lang,omitempty" yaml:"lang,omitempty"`
	MaxStep   *int               `json:"max_step,omitempty" toml:"max_step,omitempty" yaml:"max_step,omitempty"`
	Shape     string             `json:"shape,omitempty" toml:"shape,omitempty" yaml:"shape,omitempty"`
	Devices   []DeviceDefinition `json:"devices" toml:"devices" yaml:"devices"`
	Durations []float64          `json:"durations,omitempty" toml:"durations,omitempty" yaml:"durations,omitempty"`
}

// DeviceDefinition describes one device.
type DeviceDefinition struct {
	Name      string               `json:"name" toml:"name" yaml:"name"`
	States    []float64            `json:"states" toml:"states" yaml:"states"`
	Style     string               `json:"style,omitempty" toml:"style,omitempty" yaml:"style,omitempty"`
	Durations []DurationDefinition `json:"durations,omitempty" toml:"durations,omitempty" yaml:"durations,omitempty"`
}

// DurationDefinition is one duration label under a device.
type DurationDefinition struct {
	Step    int     `json:"step" toml:"step" yaml:"step"`
	Seconds float64 `json:"seconds" toml:"seconds" yaml:"seconds"`
}

// Language returns the validated language of the definition.
func (d Definition) Language() (i18n.Lang, error) {
	return i18n.ParseLang(d.Lang)
}

// Input converts the definition into a render input. The result has not
// been validated beyond line styles and language; [diagram.Render] does that.
func (d Definition) Input() (diagram.Input, error) {
	lang, err := d.Language()
	if err != nil {
		return diagram.Input{}, err
	}
	bundle := i18n.MustLookup(lang)

	in := diagram.Input{
		Title:     d.Title,
		StepLabel: bundle.Step,
		Shape:     diagram.Shape(d.Shape),
		Devices:   make([]diagram.Device, 0, len(d.Devices)),
	}
	if in.Title == "" {
		in.Title = bundle.SequenceDiagram
	}

	switch {
	case d.MaxStep != nil:
		in.MaxStep = *d.MaxStep
	case len(d.Devices) > 0:
		in.MaxStep = len(d.Devices[0].States) - 1
	}

	for i, dev := range d.Devices {
		style, err := diagram.ParseLineStyle(dev.Style)
		if err != nil {
			return diagram.Input{}, err
		}
		out := diagram.Device{
			Name:   dev.Name,
			States: dev.States,
			Style:  style,
		}
		for _, dur := range dev.Durations {
			out.Annotations = append(out.Annotations, diagram.Annotation{Step: dur.Step, Seconds: dur.Seconds})
		}
		in.Devices = append(in.Devices, out)
	}

	if err := diagram.ApplyPositional(in.Devices, d.Durations); err != nil {
		return diagram.Input{}, err
	}
	return in, nil
}

// Sample returns the definition the web form starts with: five devices over
// twelve steps, each switched on between steps 5 and 7, with the default
// duration labels under each device.
func Sample(lang i18n.Lang) (Definition, error) {
	bundle, err := i18n.Lookup(lang)
	if err != nil {
		return Definition{}, err
	}

	maxStep := SampleMaxStep
	def := Definition{
		Title:   bundle.SequenceDiagram,
		Lang:    string(lang),
		MaxStep: &maxStep,
	}
	for i := 1; i <= SampleDevices; i++ {
		dev := DeviceDefinition{
			Name:   bundle.DeviceLabel(i),
			States: append([]float64(nil), SampleStates...),
			Style:  string(diagram.Solid),
		}
		for j, step := range SampleDurationSteps {
			dev.Durations = append(dev.Durations, DurationDefinition{Step: step, Seconds: SampleDurationSeconds[j]})
		}
		def.Devices = append(def.Devices, dev)
	}
	return def, nil
}

// Defaults of the web form.
const (
	SampleMaxStep = 12
	SampleDevices = 5
)

var (
	SampleStates          = []float64{0, 0, 0, 0, 0, 1, 1, 1, 0, 0, 0, 0, 0}
	SampleDurationSteps   = []int{5, 10}
	SampleDurationSeconds = []float64{5, 3}
)
