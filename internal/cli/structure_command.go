package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/temirov/mindmap/internal/output"
	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/types"
)

const (
	structureUse              = "structure <file>"
	structureAlias            = "s"
	structureShortDescription = "analyze the heading structure of a Markdown file (" + structureAlias + ")"
	structureLongDescription  = `Parse a Markdown file and report its hierarchy, node counts per level and detected features.
Use --format to select raw, json or yaml output and --tokens to estimate the token count.`
	structureUsageExample = `  # Print the outline as a tree
  mindmap structure notes.md --format raw

  # Emit YAML without node text, including a token estimate
  mindmap structure notes.md --format yaml --no-content --tokens`

	formatFlagName           = "format"
	formatFlagDescription    = "output format: raw, json or yaml"
	tokensFlagName           = "tokens"
	tokensFlagDescription    = "include an estimated token count"
	noContentFlagName        = "no-content"
	noContentFlagDescription = "replace the root text with its character count"
)

type structureOptions struct {
	format    string
	tokens    bool
	noContent bool
}

// createStructureCommand returns the structure subcommand.
func createStructureCommand(app *application) *cobra.Command {
	options := structureOptions{format: types.FormatJSON}

	structureCommand := &cobra.Command{
		Use:     structureUse,
		Aliases: []string{structureAlias},
		Short:   structureShortDescription,
		Long:    structureLongDescription,
		Example: structureUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			format, formatErr := normalizeFormat(options.format)
			if formatErr != nil {
				return formatErr
			}
			content, readErr := os.ReadFile(app.resolvePath(arguments[0]))
			if readErr != nil {
				return fmt.Errorf(readInputFormat, arguments[0], readErr)
			}
			includeContent := !options.noContent
			result := app.service.GetStructure(command.Context(), tools.GetStructureRequest{
				MarkdownContent: string(content),
				IncludeContent:  &includeContent,
				CountTokens:     options.tokens,
			})
			if err := resultError(result); err != nil {
				return err
			}
			structure, ok := result.Payload.(tools.StructureOutput)
			if !ok {
				return fmt.Errorf(unexpectedPayload, result.Payload)
			}
			rendered, renderErr := output.RenderStructure(format, structure)
			if renderErr != nil {
				return renderErr
			}
			fmt.Fprint(command.OutOrStdout(), rendered)
			if format == types.FormatJSON {
				fmt.Fprintln(command.OutOrStdout())
			}
			return nil
		},
	}

	structureCommand.Flags().StringVar(&options.format, formatFlagName, types.FormatJSON, formatFlagDescription)
	registerBooleanFlag(structureCommand.Flags(), &options.tokens, tokensFlagName, false, tokensFlagDescription)
	registerBooleanFlag(structureCommand.Flags(), &options.noContent, noContentFlagName, false, noContentFlagDescription)
	return structureCommand
}
