package diagram

import (
	"math"

	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

// Validate checks in before any layout work. It returns the first problem
// found as a coded error from pkg/errors.
func (in Input) Validate() error {
	if len(in.Devices) == 0 {
		return errs.New(errs.ErrCodeNoDevices, "at least one device required")
	}
	if in.MaxStep < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max step must be >= 0, got %d", in.MaxStep)
	}
	if err := in.Shape.Validate(); err != nil {
		return err
	}
	if err := errs.ValidateTitle(in.Title); err != nil {
		return err
	}

	want := in.MaxStep + 1
	for i, dev := range in.Devices {
		if err := errs.ValidateDeviceName(dev.Name); err != nil {
			return err
		}
		if err := dev.Style.Validate(); err != nil {
			return err
		}
		if len(dev.States) != want {
			return errs.New(errs.ErrCodeLengthMismatch,
				"device state-sequence length must equal time-axis length: device %d (%q) has %d states, time axis has %d points",
				i+1, dev.Name, len(dev.States), want)
		}
		for j, v := range dev.States {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errs.New(errs.ErrCodeInvalidNumber, "device %q: state at step %d is not a finite number", dev.Name, j)
			}
		}
		for _, a := range dev.Annotations {
			if a.Step < 0 || a.Step > in.MaxStep {
				return errs.New(errs.ErrCodeStepOutOfRange,
					"device %q: annotation step %d outside time axis [0, %d]", dev.Name, a.Step, in.MaxStep)
			}
			if math.IsNaN(a.Seconds) || math.IsInf(a.Seconds, 0) {
				return errs.New(errs.ErrCodeInvalidNumber, "device %q: duration at step %d is not a finite number", dev.Name, a.Step)
			}
		}
	}
	return nil
}

// Validate reports whether s is a known line style. Empty is accepted.
func (s LineStyle) Validate() error {
	switch s {
	case "", Solid, Dashed:
		return nil
	}
	return errs.New(errs.ErrCodeInvalidStyle, "invalid line style: %q (must be 'solid' or 'dashed')", string(s))
}

// ParseLineStyle maps the accepted spellings of a line style, including the
// "-" and "--" shorthands, to a LineStyle.
func ParseLineStyle(s string) (LineStyle, error) {
	switch s {
	case "", "-", string(Solid):
		return Solid, nil
	case "--", string(Dashed):
		return Dashed, nil
	}
	return "", errs.New(errs.ErrCodeInvalidStyle, "invalid line style: %q (must be 'solid' or 'dashed')", s)
}

// Validate reports whether s is a known curve shape. Empty is accepted.
func (s Shape) Validate() error {
	switch s {
	case "", Linear, Step:
		return nil
	}
	return errs.New(errs.ErrCodeInvalidInput, "invalid shape: %q (must be 'linear' or 'step')", string(s))
}

// ApplyPositional converts a flat list of durations, where value i belongs
// to device i at step i, into per-device annotations. Extra values beyond the
// device count are rejected.
func ApplyPositional(devices []Device, durations []float64) error {
	if len(durations) > len(devices) {
		return errs.New(errs.ErrCodeInvalidInput,
			"%d positional durations given for %d devices", len(durations), len(devices))
	}
	for i, v := range durations {
		devices[i].Annotations = append(devices[i].Annotations, Annotation{Step: i, Seconds: v})
	}
	return nil
}
