// Package stdio exposes the mindmap tools as a Model Context Protocol server
// speaking JSON-RPC over standard input and output.
package stdio

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/types"
)

const (
	// MetaErrorType is the result metadata key carrying the error kind.
	MetaErrorType = "errorType"

	logMessageServing = "mcp server listening on stdio"
	runFailureFormat  = "run mcp stdio server: %w"
)

// Operations is the tool surface served over MCP.
type Operations interface {
	Generate(ctx context.Context, request tools.GenerateRequest) tools.Result
	FromOutline(ctx context.Context, request tools.FromOutlineRequest) tools.Result
	GetStructure(ctx context.Context, request tools.GetStructureRequest) tools.Result
	RenderFile(ctx context.Context, request tools.RenderFileRequest) tools.Result
	Customize(ctx context.Context, request tools.CustomizeRequest) tools.Result
}

// NewServer registers every tool of operations on a new MCP server.
func NewServer(operations Operations, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: types.ServerName, Version: version}, nil)
	descriptions := make(map[string]string)
	for _, definition := range tools.Definitions() {
		descriptions[definition.Name] = definition.Description
	}
	tool := func(name string) *mcp.Tool {
		return &mcp.Tool{Name: name, Description: descriptions[name]}
	}

	mcp.AddTool(server, tool(types.ToolGenerate), handlerFor(operations.Generate))
	mcp.AddTool(server, tool(types.ToolFromOutline), handlerFor(operations.FromOutline))
	mcp.AddTool(server, tool(types.ToolGetStructure), handlerFor(operations.GetStructure))
	mcp.AddTool(server, tool(types.ToolRenderFile), handlerFor(operations.RenderFile))
	mcp.AddTool(server, tool(types.ToolCustomize), handlerFor(operations.Customize))
	return server
}

// Run serves server on stdin/stdout until ctx is cancelled or the peer
// disconnects.
func Run(ctx context.Context, server *mcp.Server, logger *zap.Logger) error {
	if logger != nil {
		logger.Info(logMessageServing, zap.String("server", types.ServerName))
	}
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf(runFailureFormat, err)
	}
	return nil
}

func handlerFor[Request any](operation func(context.Context, Request) tools.Result) mcp.ToolHandlerFor[Request, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, request Request) (*mcp.CallToolResult, any, error) {
		return CallToolResult(operation(ctx, request)), nil, nil
	}
}

// CallToolResult maps a tool envelope onto the protocol result: the summary
// becomes text content, the payload structured content and the error kind
// result metadata.
func CallToolResult(result tools.Result) *mcp.CallToolResult {
	callResult := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: result.Summary}},
		IsError: result.IsError,
	}
	if result.IsError {
		if result.ErrorKind != "" {
			callResult.Meta = mcp.Meta{MetaErrorType: string(result.ErrorKind)}
		}
		return callResult
	}
	callResult.StructuredContent = result.Payload
	return callResult
}
