package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/mindmap/internal/theme"
	"github.com/temirov/mindmap/internal/types"
)

const (
	customizedSummaryFormat   = "Successfully generated customized mindmap with %d nodes. Applied: %s"
	defaultThemeSummaryFormat = "Successfully generated mindmap with %d nodes using default theme"
	appliedThemeFormat        = "theme: %s"
	appliedColorsFormat       = "custom colors (%d)"
	appliedOptionsFormat      = "custom options (%d)"
)

// Customize renders Markdown with a named theme, an optional palette and
// explicit options. The palette is reported but does not affect drawing.
func (service *Service) Customize(ctx context.Context, request CustomizeRequest) Result {
	return service.invoke(ctx, types.ToolCustomize, func(ctx context.Context) (string, any, error) {
		if strings.TrimSpace(request.MarkdownContent) == "" {
			return "", nil, validationCause(errors.New(emptyContentMessage))
		}
		resolution, resolveErr := theme.Resolve(request.Theme, request.Options, request.ColorScheme)
		if resolveErr != nil {
			return "", nil, validationCause(resolveErr)
		}
		if err := service.checkContentSize(request.MarkdownContent); err != nil {
			return "", nil, err
		}
		document, parseErr := service.parseForRender(ctx, request.MarkdownContent)
		if parseErr != nil {
			return "", nil, parseErr
		}
		svg, renderErr := service.render(ctx, document, resolution.Options)
		if renderErr != nil {
			return "", nil, renderErr
		}

		customOptions := []string{}
		if request.Options != nil {
			customOptions = request.Options.SetKeys()
		}
		customColors := request.ColorScheme != nil
		output := CustomizeOutput{
			SVGContent:   svg,
			ThemeApplied: string(resolution.Theme),
			ColorsUsed:   resolution.Colors,
			NodeCount:    document.nodeCount,
			CustomizationSummary: CustomizationSummary{
				Theme:         string(resolution.Theme),
				CustomColors:  customColors,
				CustomOptions: customOptions,
			},
		}

		var applied []string
		if resolution.Theme != theme.Default {
			applied = append(applied, fmt.Sprintf(appliedThemeFormat, resolution.Theme))
		}
		if customColors {
			applied = append(applied, fmt.Sprintf(appliedColorsFormat, len(request.ColorScheme)))
		}
		if len(customOptions) > 0 {
			applied = append(applied, fmt.Sprintf(appliedOptionsFormat, len(customOptions)))
		}
		if len(applied) == 0 {
			return fmt.Sprintf(defaultThemeSummaryFormat, document.nodeCount), output, nil
		}
		return fmt.Sprintf(customizedSummaryFormat, document.nodeCount, strings.Join(applied, ", ")), output, nil
	})
}
