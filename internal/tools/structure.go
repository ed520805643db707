package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/temirov/mindmap/internal/hierarchy"
	"github.com/temirov/mindmap/internal/tokenizer"
	"github.com/temirov/mindmap/internal/types"
)

const (
	structureSummaryFormat = "Analyzed structure: %d nodes, %d levels deep, %d characters"
	hiddenContentFormat    = "[%d characters]"
	tokenCountingMessage   = "Token counting is not configured"
)

// GetStructure parses Markdown and reports its hierarchy and statistics
// without rendering.
func (service *Service) GetStructure(ctx context.Context, request GetStructureRequest) Result {
	return service.invoke(ctx, types.ToolGetStructure, func(ctx context.Context) (string, any, error) {
		if strings.TrimSpace(request.MarkdownContent) == "" {
			return "", nil, validationCause(errors.New(emptyContentMessage))
		}
		if err := service.checkContentSize(request.MarkdownContent); err != nil {
			return "", nil, err
		}
		if request.CountTokens && service.tokenCounter == nil {
			return "", nil, validationCause(errors.New(tokenCountingMessage))
		}
		document, parseErr := service.parse(ctx, request.MarkdownContent)
		if parseErr != nil {
			return "", nil, parseErr
		}

		statistics := hierarchy.Analyze(document.root)
		root := document.root
		if request.IncludeContent != nil && !*request.IncludeContent {
			redacted := *root
			redacted.Content = fmt.Sprintf(hiddenContentFormat, utf8.RuneCountInString(root.Content))
			root = &redacted
		}
		output := StructureOutput{
			Hierarchy:        root,
			NodeCount:        statistics.NodeCount,
			MaxDepth:         statistics.MaxDepth,
			FeaturesDetected: featureNames(document.features),
			Statistics: StructureStatistics{
				HeadingsByLevel:   statistics.HeadingsByLevel,
				TotalCharacters:   statistics.TotalCharacters,
				AverageNodeLength: statistics.AverageNodeLength,
			},
		}
		if request.CountTokens {
			tokens, countErr := tokenizer.CountText(service.tokenCounter, request.MarkdownContent)
			if countErr != nil {
				return "", nil, parseFailure(countErr)
			}
			output.Statistics.TotalTokens = &tokens
		}
		summary := fmt.Sprintf(structureSummaryFormat, statistics.NodeCount, statistics.MaxDepth, statistics.TotalCharacters)
		return summary, output, nil
	})
}
