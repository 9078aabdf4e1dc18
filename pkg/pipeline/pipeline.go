// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP server.
//
// The pipeline has two stages:
//
//  1. Layout: validate a [diagram.Input] and compute the [diagram.Diagram]
//  2. Render: produce one artifact per requested format
//
// A [Runner] runs both stages and memoizes their results in a
// [cache.Cache]. Since both stages are pure, a repeated request with the
// same input and options is served entirely from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, in, pipeline.Options{
//	    Formats: []string{pipeline.FormatPDF, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts[pipeline.FormatPDF]
//
// [diagram.Input]: github.com/matzehuels/seqdiagram/pkg/diagram.Input
// [diagram.Diagram]: github.com/matzehuels/seqdiagram/pkg/diagram.Diagram
// [cache.Cache]: github.com/matzehuels/seqdiagram/pkg/cache.Cache
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdiagram/pkg/cache"
	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultWidth is the default page width in points.
const DefaultWidth = sink.DefaultWidth

// Views.
const (
	ViewTiming      = "timing"
	ViewTransitions = "transitions"
)

// DefaultView is the default view.
const DefaultView = ViewTiming

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatText = "txt"
	FormatDOT  = "dot"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPDF

// ValidFormats lists the formats each view supports, in display order.
var ValidFormats = map[string][]string{
	ViewTiming:      {FormatPDF, FormatSVG, FormatPNG, FormatJSON, FormatText},
	ViewTransitions: {FormatPDF, FormatSVG, FormatPNG, FormatDOT},
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	View    string   `json:"view,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Page size in points. A zero Height grows with the device count.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Holds adds hold-count loops to the transitions view.
	Holds bool `json:"holds,omitempty"`

	// Refresh skips cache lookups; results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the laid-out diagram.
	Diagram *diagram.Diagram

	// InputHash is the content hash of the input, used for cache keys.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Devices    int
	Steps      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateView checks that a view is known.
func ValidateView(view string) error {
	if _, ok := ValidFormats[view]; !ok {
		return errs.New(errs.ErrCodeInvalidView, "invalid view: %q (must be one of: timing, transitions)", view)
	}
	return nil
}

// ValidateFormat checks that format is supported by view.
func ValidateFormat(view, format string) error {
	if err := ValidateView(view); err != nil {
		return err
	}
	if !slices.Contains(ValidFormats[view], format) {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format for %s view: %q (must be one of: %s)",
			view, format, strings.Join(ValidFormats[view], ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid for view.
func ValidateFormats(view string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(view, f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills in unset options.
func (o *Options) SetDefaults() {
	if o.View == "" {
		o.View = DefaultView
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks the result.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.View, o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "page size must not be negative, got %gx%g", o.Width, o.Height)
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	view := o.View
	if o.Holds && view == ViewTransitions {
		view += "+holds"
	}
	return cache.ArtifactKeyOpts{
		View:   view,
		Format: format,
		Width:  o.Width,
		Height: o.Height,
	}
}
