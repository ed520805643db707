package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/mindmap/internal/outline"
	"github.com/temirov/mindmap/internal/types"
)

const (
	generateSummaryFormat    = "Successfully generated mindmap with %d nodes and %d levels of depth"
	fromOutlineSummaryFormat = "Successfully generated mindmap from %d outline items (%d nodes total)"
)

// Generate converts Markdown text into an SVG mind map.
func (service *Service) Generate(ctx context.Context, request GenerateRequest) Result {
	return service.invoke(ctx, types.ToolGenerate, func(ctx context.Context) (string, any, error) {
		if strings.TrimSpace(request.MarkdownContent) == "" {
			return "", nil, validationCause(errors.New(emptyContentMessage))
		}
		if err := service.checkContentSize(request.MarkdownContent); err != nil {
			return "", nil, err
		}
		options, optionsErr := service.defaultOptions(request.Options)
		if optionsErr != nil {
			return "", nil, optionsErr
		}
		document, parseErr := service.parseForRender(ctx, request.MarkdownContent)
		if parseErr != nil {
			return "", nil, parseErr
		}
		svg, renderErr := service.render(ctx, document, options)
		if renderErr != nil {
			return "", nil, renderErr
		}
		output := GenerateOutput{
			SVGContent:   svg,
			NodeCount:    document.nodeCount,
			Depth:        document.depth,
			FeaturesUsed: featureNames(document.features),
		}
		return fmt.Sprintf(generateSummaryFormat, document.nodeCount, document.depth), output, nil
	})
}

// FromOutline assembles outline items into Markdown and renders it.
func (service *Service) FromOutline(ctx context.Context, request FromOutlineRequest) Result {
	return service.invoke(ctx, types.ToolFromOutline, func(ctx context.Context) (string, any, error) {
		generated, assembleErr := outline.Assemble(request.OutlineItems)
		if assembleErr != nil {
			return "", nil, validationCause(assembleErr)
		}
		if err := service.checkContentSize(generated); err != nil {
			return "", nil, err
		}
		options, optionsErr := service.defaultOptions(request.Options)
		if optionsErr != nil {
			return "", nil, optionsErr
		}
		document, parseErr := service.parseForRender(ctx, generated)
		if parseErr != nil {
			return "", nil, parseErr
		}
		svg, renderErr := service.render(ctx, document, options)
		if renderErr != nil {
			return "", nil, renderErr
		}
		output := FromOutlineOutput{
			SVGContent:        svg,
			MarkdownGenerated: generated,
			NodeCount:         document.nodeCount,
			Depth:             document.depth,
			FeaturesUsed:      featureNames(document.features),
		}
		return fmt.Sprintf(fromOutlineSummaryFormat, len(request.OutlineItems), document.nodeCount), output, nil
	})
}
