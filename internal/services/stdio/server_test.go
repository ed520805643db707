package stdio_test

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"

	"github.com/temirov/mindmap/internal/services/stdio"
	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/types"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	service, err := tools.NewService(tools.Config{FileSystem: afero.NewMemMapFs(), WorkingDirectory: "/work"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()
	server := stdio.NewServer(service, "test")
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, serverErr := server.Connect(ctx, serverTransport, nil)
	if serverErr != nil {
		t.Fatalf("server connect: %v", serverErr)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "mindmap-test", Version: "test"}, nil)
	session, clientErr := client.Connect(ctx, clientTransport, nil)
	if clientErr != nil {
		t.Fatalf("client connect: %v", clientErr)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func summaryOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestServerListsTools(t *testing.T) {
	session := connect(t)
	listed, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range listed.Tools {
		names[tool.Name] = true
		if tool.Description == "" {
			t.Fatalf("tool %s has no description", tool.Name)
		}
	}
	for _, expected := range []string{types.ToolGenerate, types.ToolFromOutline, types.ToolGetStructure, types.ToolRenderFile, types.ToolCustomize} {
		if !names[expected] {
			t.Fatalf("missing tool %s in %v", expected, names)
		}
	}
}

func TestServerCallsTools(t *testing.T) {
	session := connect(t)

	success, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      types.ToolGenerate,
		Arguments: map[string]any{"markdown_content": "# A\n\n## B"},
	})
	if err != nil {
		t.Fatalf("call generate: %v", err)
	}
	if success.IsError {
		t.Fatalf("unexpected tool error %s", summaryOf(t, success))
	}
	if summary := summaryOf(t, success); summary != "Successfully generated mindmap with 2 nodes and 2 levels of depth" {
		t.Fatalf("unexpected summary %q", summary)
	}
	structured, ok := success.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("expected structured object, got %T", success.StructuredContent)
	}
	if structured["node_count"] != float64(2) {
		t.Fatalf("unexpected node_count %v", structured["node_count"])
	}

	failure, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      types.ToolCustomize,
		Arguments: map[string]any{"markdown_content": "# A", "theme": "neon"},
	})
	if err != nil {
		t.Fatalf("call customize: %v", err)
	}
	if !failure.IsError {
		t.Fatal("expected tool error")
	}
	if failure.Meta[stdio.MetaErrorType] != string(types.ErrorKindValidation) {
		t.Fatalf("unexpected meta %v", failure.Meta)
	}
	if failure.StructuredContent != nil {
		t.Fatalf("failures carry no payload, got %v", failure.StructuredContent)
	}
}

func TestCallToolResult(t *testing.T) {
	t.Parallel()

	failure := stdio.CallToolResult(tools.Result{Summary: "Parse Error: bad", IsError: true, ErrorKind: types.ErrorKindParse})
	if !failure.IsError || failure.Meta[stdio.MetaErrorType] != "ParseError" || failure.StructuredContent != nil {
		t.Fatalf("unexpected failure mapping %+v", failure)
	}
	success := stdio.CallToolResult(tools.Result{Summary: "ok", Payload: map[string]int{"node_count": 1}})
	if success.IsError || success.Meta != nil || success.StructuredContent == nil {
		t.Fatalf("unexpected success mapping %+v", success)
	}
}
