package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mindmap/internal/tools"
)

const (
	watchUse              = "watch <file>"
	watchAlias            = "w"
	watchShortDescription = "re-render a Markdown file whenever it changes (" + watchAlias + ")"
	watchLongDescription  = `Render a Markdown file to SVG, then watch it and render again after every change.
The SVG defaults to the source path with an .svg extension. Press Ctrl+C to stop.`
	watchUsageExample = `  # Keep notes.svg in sync with notes.md
  mindmap watch notes.md

  # Write to a different file
  mindmap watch docs/plan.md --output build/plan.svg`

	defaultWatchDebounce = 200 * time.Millisecond

	createWatcherFormat  = "create file watcher: %w"
	watchDirectoryFormat = "watch %s: %w"
	logMessageWatching   = "watching markdown file"
	logMessageRendered   = "markdown file rendered"
	logMessageRenderFail = "markdown file render failed"
	logMessageWatchError = "file watcher error"
	logFieldSummary      = "summary"
	logFieldErrorType    = "error_type"
)

// createWatchCommand returns the watch subcommand.
func createWatchCommand(app *application) *cobra.Command {
	var outputPath string

	watchCommand := &cobra.Command{
		Use:     watchUse,
		Aliases: []string{watchAlias},
		Short:   watchShortDescription,
		Long:    watchLongDescription,
		Example: watchUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			report := func(result tools.Result) {
				fmt.Fprintln(command.ErrOrStderr(), result.Summary)
			}
			return app.watchFile(command.Context(), arguments[0], outputPath, defaultWatchDebounce, report)
		},
	}

	watchCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	return watchCommand
}

// watchFile renders filePath once, then again after each burst of changes
// settles for debounce. The parent directory is watched, so replacing the file
// counts as a change. Render failures are reported and watching continues;
// watchFile returns when ctx is done.
func (app *application) watchFile(ctx context.Context, filePath string, outputPath string, debounce time.Duration, report func(tools.Result)) error {
	absolutePath := app.resolvePath(filePath)
	watcher, watcherErr := fsnotify.NewWatcher()
	if watcherErr != nil {
		return fmt.Errorf(createWatcherFormat, watcherErr)
	}
	defer watcher.Close()

	watchedDirectory := filepath.Dir(absolutePath)
	if addErr := watcher.Add(watchedDirectory); addErr != nil {
		return fmt.Errorf(watchDirectoryFormat, watchedDirectory, addErr)
	}
	app.logger.Info(logMessageWatching, zap.String(logFieldPath, absolutePath))

	request := tools.RenderFileRequest{FilePath: filePath, SaveOutput: true, OutputPath: outputPath}
	renderOnce := func() {
		result := app.service.RenderFile(ctx, request)
		if result.IsError {
			app.logger.Warn(logMessageRenderFail, zap.String(logFieldErrorType, string(result.ErrorKind)), zap.String(logFieldSummary, result.Summary))
		} else {
			app.logger.Debug(logMessageRendered, zap.String(logFieldSummary, result.Summary))
		}
		report(result)
	}
	renderOnce()

	watchedName := filepath.Base(absolutePath)
	var debounceElapsed <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != watchedName {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounceElapsed = time.After(debounce)
			}
		case <-debounceElapsed:
			debounceElapsed = nil
			renderOnce()
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			app.logger.Warn(logMessageWatchError, zap.Error(watchErr))
		}
	}
}
