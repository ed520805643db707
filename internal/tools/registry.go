package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/temirov/mindmap/internal/types"
)

const (
	invalidArgumentsFormat = "Invalid arguments for %s: %w"

	generateDescription     = "Convert Markdown text to interactive mindmap SVG. Supports headings, lists, code blocks, tables, links, and more."
	fromOutlineDescription  = "Generate mindmap from hierarchical outline structure. Useful for creating mindmaps from structured data."
	getStructureDescription = "Extract and analyze hierarchical structure from Markdown without rendering. Returns JSON tree with statistics."
	renderFileDescription   = "Read Markdown file and generate mindmap. Supports .md and .markdown files. Optionally saves SVG output."
	customizeDescription    = "Generate mindmap with custom themes and styling. Supports themes (default, dark, colorful, minimal) and custom color schemes."
)

// Definition names and describes one tool.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Definitions lists every tool in registration order.
func Definitions() []Definition {
	return []Definition{
		{Name: types.ToolGenerate, Description: generateDescription},
		{Name: types.ToolFromOutline, Description: fromOutlineDescription},
		{Name: types.ToolGetStructure, Description: getStructureDescription},
		{Name: types.ToolRenderFile, Description: renderFileDescription},
		{Name: types.ToolCustomize, Description: customizeDescription},
	}
}

// Dispatch decodes arguments for the named tool and runs it. An unknown name
// yields an error result and ErrUnknownTool.
func (service *Service) Dispatch(ctx context.Context, toolName string, arguments json.RawMessage) (Result, error) {
	switch toolName {
	case types.ToolGenerate:
		return runDecoded(ctx, toolName, arguments, service.Generate), nil
	case types.ToolFromOutline:
		return runDecoded(ctx, toolName, arguments, service.FromOutline), nil
	case types.ToolGetStructure:
		return runDecoded(ctx, toolName, arguments, service.GetStructure), nil
	case types.ToolRenderFile:
		return runDecoded(ctx, toolName, arguments, service.RenderFile), nil
	case types.ToolCustomize:
		return runDecoded(ctx, toolName, arguments, service.Customize), nil
	default:
		return UnknownToolResult(toolName), ErrUnknownTool
	}
}

// UnknownToolResult is the envelope returned for an unregistered tool name.
func UnknownToolResult(toolName string) Result {
	return Result{Summary: fmt.Sprintf(unknownToolText, toolName), IsError: true}
}

func runDecoded[Request any](ctx context.Context, toolName string, arguments json.RawMessage, operation func(context.Context, Request) Result) Result {
	var request Request
	trimmed := bytes.TrimSpace(arguments)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &request); err != nil {
			return failureResult(validationCause(fmt.Errorf(invalidArgumentsFormat, toolName, err)))
		}
	}
	return operation(ctx, request)
}
