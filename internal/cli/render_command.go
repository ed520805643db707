package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/utils"
)

const (
	renderUse              = "render <file>"
	renderAlias            = "r"
	renderShortDescription = "render a Markdown file to an SVG mind map (" + renderAlias + ")"
	renderLongDescription  = `Render a Markdown file to a markmap SVG.
Without --output the SVG is written to standard output. --theme and --color switch to the customize tool.`
	renderUsageExample = `  # Render next to the source file
  mindmap render notes.md --output notes.svg

  # Apply the dark theme and copy the SVG to the clipboard
  mindmap render notes.md --theme dark --copy`

	outputFlagName        = "output"
	outputFlagShorthand   = "o"
	outputFlagDescription = "write the SVG to this path"
	themeFlagName         = "theme"
	themeFlagDescription  = "theme: default, dark, colorful or minimal"
	colorFlagName         = "color"
	colorFlagDescription  = "custom palette colour as #RRGGBB (repeatable)"
	copyFlagName          = "copy"
	copyFlagDescription   = "copy the SVG to the clipboard"

	savedMessageFormat  = "Saved %s (%s)\n"
	logMessageCopied    = "svg copied to clipboard"
	logMessageSaved     = "svg saved"
	copyFailureFormat   = "copy svg to clipboard: %w"
	unexpectedPayload   = "unexpected payload %T"
	logFieldPath        = "path"
	logFieldBytes       = "bytes"
	outputFileMode      = 0o644
	outputDirectoryMode = 0o755
)

type renderOptions struct {
	outputPath string
	theme      string
	colors     []string
	copy       bool
}

func (options renderOptions) customized() bool {
	return options.theme != "" || len(options.colors) > 0
}

// createRenderCommand returns the render subcommand.
func createRenderCommand(app *application) *cobra.Command {
	var options renderOptions

	renderCommand := &cobra.Command{
		Use:     renderUse,
		Aliases: []string{renderAlias},
		Short:   renderShortDescription,
		Long:    renderLongDescription,
		Example: renderUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			svgContent, summary, renderErr := app.renderMarkdownFile(command, arguments[0], options)
			if renderErr != nil {
				return renderErr
			}
			fmt.Fprintln(command.ErrOrStderr(), summary)
			if options.outputPath == "" {
				fmt.Fprintln(command.OutOrStdout(), svgContent)
			}
			if options.copy {
				if copyErr := app.copier.Copy(svgContent); copyErr != nil {
					return fmt.Errorf(copyFailureFormat, copyErr)
				}
				app.logger.Info(logMessageCopied, zap.Int(logFieldBytes, len(svgContent)))
			}
			return nil
		},
	}

	renderCommand.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	renderCommand.Flags().StringVar(&options.theme, themeFlagName, "", themeFlagDescription)
	renderCommand.Flags().StringArrayVar(&options.colors, colorFlagName, nil, colorFlagDescription)
	registerBooleanFlag(renderCommand.Flags(), &options.copy, copyFlagName, false, copyFlagDescription)
	return renderCommand
}

// renderMarkdownFile runs markmap_render_file, or markmap_customize when a theme
// or palette is requested, and returns the SVG and the tool summary.
func (app *application) renderMarkdownFile(command *cobra.Command, filePath string, options renderOptions) (string, string, error) {
	ctx := command.Context()
	if !options.customized() {
		result := app.service.RenderFile(ctx, tools.RenderFileRequest{
			FilePath:   filePath,
			SaveOutput: options.outputPath != "",
			OutputPath: options.outputPath,
		})
		if err := resultError(result); err != nil {
			return "", "", err
		}
		output, ok := result.Payload.(tools.RenderFileOutput)
		if !ok {
			return "", "", fmt.Errorf(unexpectedPayload, result.Payload)
		}
		return output.SVGContent, result.Summary, nil
	}

	content, readErr := os.ReadFile(app.resolvePath(filePath))
	if readErr != nil {
		return "", "", fmt.Errorf(readInputFormat, filePath, readErr)
	}
	request := tools.CustomizeRequest{MarkdownContent: string(content), Theme: options.theme}
	if len(options.colors) > 0 {
		request.ColorScheme = options.colors
	}
	result := app.service.Customize(ctx, request)
	if err := resultError(result); err != nil {
		return "", "", err
	}
	output, ok := result.Payload.(tools.CustomizeOutput)
	if !ok {
		return "", "", fmt.Errorf(unexpectedPayload, result.Payload)
	}
	if options.outputPath != "" {
		if writeErr := app.writeSVG(command, options.outputPath, output.SVGContent); writeErr != nil {
			return "", "", writeErr
		}
	}
	return output.SVGContent, result.Summary, nil
}

// writeSVG stores svgContent at outputPath, resolved against the working directory.
func (app *application) writeSVG(command *cobra.Command, outputPath string, svgContent string) error {
	resolvedPath := app.resolvePath(outputPath)
	if mkdirErr := os.MkdirAll(filepath.Dir(resolvedPath), outputDirectoryMode); mkdirErr != nil {
		return fmt.Errorf(writeOutputFormat, outputPath, mkdirErr)
	}
	if writeErr := os.WriteFile(resolvedPath, []byte(svgContent), outputFileMode); writeErr != nil {
		return fmt.Errorf(writeOutputFormat, outputPath, writeErr)
	}
	app.logger.Debug(logMessageSaved, zap.String(logFieldPath, resolvedPath))
	fmt.Fprintf(command.ErrOrStderr(), savedMessageFormat, outputPath, utils.FormatFileSize(int64(len(svgContent))))
	return nil
}

func (app *application) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(app.workingDirectory, path)
}

// resultError converts a failed tool envelope into an error carrying its summary.
func resultError(result tools.Result) error {
	if !result.IsError {
		return nil
	}
	return errors.New(result.Summary)
}
