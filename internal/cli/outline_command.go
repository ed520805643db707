package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/mindmap/internal/outline"
	"github.com/temirov/mindmap/internal/tools"
)

const (
	outlineUse              = "outline <file>"
	outlineAlias            = "o"
	outlineShortDescription = "build a mind map from a plain-text outline (" + outlineAlias + ")"
	outlineLongDescription  = `Read an outline where each line is "<level><TAB><text>" or an indented "- " bullet,
print the generated Markdown and save the SVG (by default next to the outline with an .svg extension).`
	outlineUsageExample = `  # Outline with tab-separated levels
  printf '1\tRoadmap\n2\tQ1\n2\tQ2\n' > roadmap.txt
  mindmap outline roadmap.txt

  # Bulleted outline with an explicit output path
  mindmap outline plan.txt --output maps/plan.svg`

	svgExtension = ".svg"
)

// createOutlineCommand returns the outline subcommand.
func createOutlineCommand(app *application) *cobra.Command {
	var outputPath string

	outlineCommand := &cobra.Command{
		Use:     outlineUse,
		Aliases: []string{outlineAlias},
		Short:   outlineShortDescription,
		Long:    outlineLongDescription,
		Example: outlineUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			inputPath := arguments[0]
			content, readErr := os.ReadFile(app.resolvePath(inputPath))
			if readErr != nil {
				return fmt.Errorf(readInputFormat, inputPath, readErr)
			}
			items, parseErr := outline.ParseText(string(content))
			if parseErr != nil {
				return parseErr
			}
			result := app.service.FromOutline(command.Context(), tools.FromOutlineRequest{OutlineItems: items})
			if err := resultError(result); err != nil {
				return err
			}
			generated, ok := result.Payload.(tools.FromOutlineOutput)
			if !ok {
				return fmt.Errorf(unexpectedPayload, result.Payload)
			}

			destination := outputPath
			if destination == "" {
				destination = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + svgExtension
			}
			if writeErr := app.writeSVG(command, destination, generated.SVGContent); writeErr != nil {
				return writeErr
			}
			fmt.Fprintln(command.ErrOrStderr(), result.Summary)
			fmt.Fprintln(command.OutOrStdout(), generated.MarkdownGenerated)
			return nil
		},
	}

	outlineCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	return outlineCommand
}
