package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	pkgio "github.com/matzehuels/seqdiagram/pkg/io"
	"github.com/matzehuels/seqdiagram/pkg/pipeline"
)

// stdoutPath selects standard output as the render destination.
const stdoutPath = "-"

// renderOpts holds the command-line flags shared by render and watch.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // output formats, see pipeline.ValidFormats
	view    string   // timing or transitions
	width   float64  // page width in points
	height  float64  // page height in points; 0 grows with the device count
	lang    string   // overrides the definition's language
	holds   bool     // draw hold loops in the transitions view
	noCache bool     // bypass the local render cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram definition (TOML, YAML or JSON)",
		Long: `Render a diagram definition to one or more output formats.

The timing view supports pdf (default), svg, png, json and txt; the
transitions view supports pdf, svg, png and dot. PNG output and transition
PDFs need rsvg-convert on the PATH.`,
		Example: `  seqdiagram render pump.toml
  seqdiagram render pump.yaml -f pdf,svg -o out/pump
  seqdiagram render pump.json --view transitions -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if err := c.runRender(cmd.Context(), args[0], opts); err != nil {
				return err
			}
			if opts.output != stdoutPath {
				printNextStep("Preview in the terminal", "seqdiagram preview "+args[0])
			}
			return nil
		},
	}

	addRenderFlags(cmd, &opts, &formatsStr)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	return cmd
}

// addRenderFlags registers the flags shared by render and watch.
func addRenderFlags(cmd *cobra.Command, opts *renderOpts, formatsStr *string) {
	cmd.Flags().StringVarP(formatsStr, "format", "f", pipeline.DefaultFormat, "output format(s), comma-separated")
	cmd.Flags().StringVar(&opts.view, "view", pipeline.DefaultView, "view: timing or transitions")
	cmd.Flags().Float64Var(&opts.width, "width", pipeline.DefaultWidth, "page width in points")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "page height in points (0 = grow with device count)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "language of the step label and default title: fr, de, it")
	cmd.Flags().BoolVar(&opts.holds, "holds", false, "show hold loops in the transitions view")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
}

// pipelineOptions converts the flags into validated pipeline options.
func (o renderOpts) pipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		View:    o.view,
		Formats: o.formats,
		Width:   o.width,
		Height:  o.height,
		Holds:   o.holds,
	}
	err := opts.ValidateAndSetDefaults()
	return opts, err
}

// loadInput reads a definition file, applying the --lang override.
func loadInput(path, lang string) (diagram.Input, error) {
	def, err := pkgio.ReadDefinition(path)
	if err != nil {
		return diagram.Input{}, err
	}
	if lang != "" {
		def.Lang = lang
	}
	return def.Input()
}

// runRender renders input to every requested format and writes the files.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	popts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	if opts.output == stdoutPath && len(popts.Formats) > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(popts.Formats))
	}

	in, err := loadInput(input, opts.lang)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d devices, %d steps", input, len(in.Devices), in.MaxStep+1)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts.Logger = logger
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, in, popts)
	if err != nil {
		return err
	}
	prog.done("Rendered", "input", filepath.Base(input), "formats", strings.Join(popts.Formats, ","),
		"cached", result.CacheInfo.RenderHit)

	if opts.output == stdoutPath {
		_, err := os.Stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, popts.Formats)
	for _, format := range popts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Devices, result.Stats.Steps, countDurations(in), result.CacheInfo.RenderHit)
	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	return nil
}

// countDurations returns the number of duration annotations in the input.
func countDurations(in diagram.Input) int {
	n := 0
	for _, dev := range in.Devices {
		n += len(dev.Annotations)
	}
	return n
}

// outputPaths maps each format to its destination. A single format is
// written to output as given; multiple formats share output as a base path.
// Without output, the input path with its extension replaced is used.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a known format extension, it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if isFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func isFormat(s string) bool {
	for _, formats := range pipeline.ValidFormats {
		if slices.Contains(formats, s) {
			return true
		}
	}
	return false
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeExport, err, "create %s", dir)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeExport, err, "create %s", path)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return errs.Wrap(errs.ErrCodeExport, err, "write %s", path)
	}
	return out.Close()
}
