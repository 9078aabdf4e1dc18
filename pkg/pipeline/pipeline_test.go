package pipeline

import (
	"reflect"
	"testing"

	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		view   string
		format string
		code   errs.Code
	}{
		{ViewTiming, "pdf", ""},
		{ViewTiming, "svg", ""},
		{ViewTiming, "png", ""},
		{ViewTiming, "json", ""},
		{ViewTiming, "txt", ""},
		{ViewTiming, "dot", errs.ErrCodeInvalidFormat},
		{ViewTiming, "PDF", errs.ErrCodeInvalidFormat}, // case-sensitive
		{ViewTiming, "", errs.ErrCodeInvalidFormat},
		{ViewTransitions, "dot", ""},
		{ViewTransitions, "pdf", ""},
		{ViewTransitions, "txt", errs.ErrCodeInvalidFormat},
		{"gantt", "pdf", errs.ErrCodeInvalidView},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.view, tt.format)
		if tt.code == "" {
			if err != nil {
				t.Errorf("ValidateFormat(%q, %q) error = %v", tt.view, tt.format, err)
			}
			continue
		}
		if !errs.Is(err, tt.code) {
			t.Errorf("ValidateFormat(%q, %q) error = %v, want %s", tt.view, tt.format, err, tt.code)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats(ViewTiming, []string{"pdf", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats(ViewTiming, []string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(ViewTiming, nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := map[string][]string{
		"pdf":            {"pdf"},
		"pdf, SVG ,png":  {"pdf", "svg", "png"},
		"pdf,,pdf,":      {"pdf"},
		"":               nil,
		" , ":            nil,
		"txt,json,txt ": {"txt", "json"},
	}
	for in, want := range tests {
		if got := ParseFormats(in); !reflect.DeepEqual(got, want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.View != ViewTiming {
		t.Errorf("View = %q, want timing", opts.View)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"pdf"}) {
		t.Errorf("Formats = %v, want [pdf]", opts.Formats)
	}
	if opts.Width != 800 || opts.Height != 0 {
		t.Errorf("size = %vx%v, want 800x0 (auto height)", opts.Width, opts.Height)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"bad view", Options{View: "gantt"}, errs.ErrCodeInvalidView},
		{"bad format", Options{Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"format of other view", Options{View: ViewTransitions, Formats: []string{"txt"}}, errs.ErrCodeInvalidFormat},
		{"negative width", Options{Width: -1}, errs.ErrCodeInvalidInput},
		{"negative height", Options{Height: -10}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{View: ViewTransitions, Width: 800}
	plain := o.ArtifactKeyOpts("svg")
	o.Holds = true
	if holds := o.ArtifactKeyOpts("svg"); holds == plain {
		t.Error("Holds does not change the artifact key")
	}

	timing := Options{View: ViewTiming, Width: 800, Holds: true}
	if got := timing.ArtifactKeyOpts("pdf").View; got != ViewTiming {
		t.Errorf("Holds leaked into timing key: %q", got)
	}
}

func TestContentTypeAndFileName(t *testing.T) {
	if got := ContentType(FormatPDF); got != "application/pdf" {
		t.Errorf("ContentType(pdf) = %q", got)
	}
	if got := ContentType(FormatSVG); got != "image/svg+xml" {
		t.Errorf("ContentType(svg) = %q", got)
	}
	if got := FileName(ViewTiming, FormatPDF); got != "sequence_diagram.pdf" {
		t.Errorf("FileName(timing, pdf) = %q", got)
	}
	if got := FileName(ViewTransitions, FormatDOT); got != "transitions.dot" {
		t.Errorf("FileName(transitions, dot) = %q", got)
	}
}
