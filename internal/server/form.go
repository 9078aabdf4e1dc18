package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/i18n"
	pkgio "github.com/matzehuels/seqdiagram/pkg/io"
	"github.com/matzehuels/seqdiagram/pkg/pipeline"
)

// Form limits.
const (
	MinDevices = 1
	MaxDevices = 10
	MaxStepMax = 12
)

// deviceForm holds the raw text of one device row.
type deviceForm struct {
	Index     int
	Name      string
	States    string
	Style     string
	Steps     string
	Durations string
}

// diagramForm is the raw state of the form, as typed by the user.
type diagramForm struct {
	Lang     i18n.Lang
	Title    string
	MaxStep  int
	Annotate bool
	Format   string
	Devices  []deviceForm
}

// defaultForm returns the form a new visitor sees.
func defaultForm(lang i18n.Lang, devices int) diagramForm {
	b := i18n.MustLookup(lang)
	f := diagramForm{
		Lang:    lang,
		Title:   b.SequenceDiagram,
		MaxStep: pkgio.SampleMaxStep,
		Format:  pipeline.FormatPDF,
		Devices: make([]deviceForm, devices),
	}
	for i := range f.Devices {
		f.Devices[i] = deviceForm{
			Index:     i,
			Name:      b.DeviceLabel(i + 1),
			States:    pkgio.FormatFloats(pkgio.SampleStates),
			Style:     string(diagram.Solid),
			Steps:     pkgio.FormatInts(pkgio.SampleDurationSteps),
			Durations: pkgio.FormatFloats(pkgio.SampleDurationSeconds),
		}
	}
	return f
}

// parseDeviceCount reads ?devices=, clamping to the form limits.
func parseDeviceCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return pkgio.SampleDevices
	}
	return min(max(n, MinDevices), MaxDevices)
}

// readForm copies the submitted values into a diagramForm. It only fails on
// structural problems; field contents are checked by input.
func readForm(v url.Values) (diagramForm, error) {
	lang, err := i18n.ParseLang(v.Get("lang"))
	if err != nil {
		return diagramForm{}, err
	}
	f := diagramForm{
		Lang:     lang,
		Title:    strings.TrimSpace(v.Get("title")),
		Annotate: v.Get("annotate") != "",
		Format:   v.Get("format"),
	}

	f.MaxStep, err = strconv.Atoi(strings.TrimSpace(v.Get("max_step")))
	if err != nil {
		return f, errs.New(errs.ErrCodeInvalidInput, "invalid time max: %q", v.Get("max_step"))
	}
	if f.MaxStep < 0 || f.MaxStep > MaxStepMax {
		return f, errs.New(errs.ErrCodeInvalidInput, "time max must be between 0 and %d, got %d", MaxStepMax, f.MaxStep)
	}

	n, err := strconv.Atoi(strings.TrimSpace(v.Get("devices")))
	if err != nil || n < MinDevices || n > MaxDevices {
		return f, errs.New(errs.ErrCodeInvalidInput, "device count must be between %d and %d", MinDevices, MaxDevices)
	}
	f.Devices = make([]deviceForm, n)
	for i := range f.Devices {
		f.Devices[i] = deviceForm{
			Index:     i,
			Name:      strings.TrimSpace(v.Get(field("name", i))),
			States:    v.Get(field("states", i)),
			Style:     v.Get(field("style", i)),
			Steps:     v.Get(field("steps", i)),
			Durations: v.Get(field("durations", i)),
		}
	}
	return f, nil
}

func field(name string, i int) string {
	return fmt.Sprintf("%s_%d", name, i)
}

// input converts the form into a render input. Problems are reported with
// the device name so the user can find the offending row.
func (f diagramForm) input() (diagram.Input, error) {
	b := i18n.MustLookup(f.Lang)
	in := diagram.Input{
		MaxStep:   f.MaxStep,
		Title:     f.Title,
		StepLabel: b.Step,
		Devices:   make([]diagram.Device, 0, len(f.Devices)),
	}
	if in.Title == "" {
		in.Title = b.SequenceDiagram
	}

	for _, row := range f.Devices {
		states, err := pkgio.ParseFloats(row.States)
		if err != nil {
			return in, deviceError(row, err)
		}
		style, err := diagram.ParseLineStyle(row.Style)
		if err != nil {
			return in, deviceError(row, err)
		}
		dev := diagram.Device{Name: row.Name, States: states, Style: style}

		if f.Annotate && (strings.TrimSpace(row.Steps) != "" || strings.TrimSpace(row.Durations) != "") {
			steps, err := pkgio.ParseInts(row.Steps)
			if err != nil {
				return in, deviceError(row, err)
			}
			secs, err := pkgio.ParseFloats(row.Durations)
			if err != nil {
				return in, deviceError(row, err)
			}
			if len(steps) != len(secs) {
				return in, errs.New(errs.ErrCodeInvalidInput,
					"device %q: %d annotation steps but %d durations", row.Name, len(steps), len(secs))
			}
			for j, step := range steps {
				dev.Annotations = append(dev.Annotations, diagram.Annotation{Step: step, Seconds: secs[j]})
			}
		}
		in.Devices = append(in.Devices, dev)
	}
	return in, nil
}

func deviceError(row deviceForm, err error) error {
	return errs.New(errs.GetCode(err), "device %q: %s", row.Name, errs.UserMessage(err))
}
