package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/pipeline"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render a definition whenever it changes",
		Long: `Render a definition, then keep watching it and render again after every
save. Errors are reported and watching continues. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if _, err := opts.pipelineOptions(); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	addRenderFlags(cmd, &opts, &formatsStr)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	return cmd
}

// runWatch renders input, then re-renders it after every change until ctx
// is done. Render logs carry a watch=<file> field.
func (c *CLI) runWatch(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx).With("watch", filepath.Base(input))
	ctx = withLogger(ctx, logger)
	if opts.output == stdoutPath {
		return errs.New(errs.ErrCodeInvalidInput, "watch cannot write to stdout")
	}

	path, err := filepath.Abs(input)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "resolve %s", input)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "create file watcher")
	}
	defer watcher.Close()

	// Watch the directory: editors often save by renaming a temp file over
	// the original, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "watch %s", filepath.Dir(path))
	}

	render := func() {
		if err := c.runRender(ctx, input, opts); err != nil {
			if ctx.Err() != nil {
				return
			}
			printError("%s", errs.UserMessage(err))
		}
	}

	render()
	printInfo("Watching %s (Ctrl+C to stop)", input)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !isContentChange(event) {
				continue
			}
			logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			render()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
			printWarning("File watcher: %v (still watching %s)", err, input)
		}
	}
}

// isContentChange reports whether event may have changed the file contents.
func isContentChange(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
