package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/temirov/mindmap/internal/services/mcp"
	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/types"
)

func TestServerRunExposesCapabilities(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		config       mcp.Config
		expectedCaps []mcp.Capability
	}{
		{
			name: "single capability",
			config: mcp.Config{
				Capabilities: []mcp.Capability{
					{Name: types.ToolGenerate, Description: "Convert Markdown"},
				},
				Address: "127.0.0.1:0",
			},
			expectedCaps: []mcp.Capability{{Name: types.ToolGenerate, Description: "Convert Markdown"}},
		},
		{
			name:         "tool definitions",
			config:       mcp.Config{Capabilities: mcp.CapabilitiesFromDefinitions(tools.Definitions())},
			expectedCaps: mcp.CapabilitiesFromDefinitions(tools.Definitions()),
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			server := mcp.NewServer(testCase.config)
			addressCh := make(chan string, 1)
			errorCh := make(chan error, 1)

			go func() {
				errorCh <- server.Run(ctx, func(address string) {
					addressCh <- address
				})
			}()

			select {
			case address := <-addressCh:
				client := http.Client{Timeout: 2 * time.Second}
				request, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+address+"/capabilities", nil)
				if err != nil {
					t.Fatalf("new request: %v", err)
				}
				response, err := client.Do(request)
				if err != nil {
					t.Fatalf("perform request: %v", err)
				}
				defer response.Body.Close()

				if response.StatusCode != http.StatusOK {
					t.Fatalf("unexpected status: %d", response.StatusCode)
				}

				var body struct {
					Capabilities []mcp.Capability `json:"capabilities"`
				}
				if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
					t.Fatalf("decode response: %v", err)
				}

				if len(body.Capabilities) != len(testCase.expectedCaps) {
					t.Fatalf("expected %d capabilities, got %d", len(testCase.expectedCaps), len(body.Capabilities))
				}
				for index, capability := range body.Capabilities {
					expected := testCase.expectedCaps[index]
					if capability != expected {
						t.Fatalf("capability %d mismatch: got %+v, want %+v", index, capability, expected)
					}
				}
			case <-time.After(2 * time.Second):
				t.Fatalf("server did not start")
			}

			cancel()
			if err := <-errorCh; err != nil {
				t.Fatalf("server error: %v", err)
			}
		})
	}
}

func TestCommandStatusMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		result         tools.Result
		dispatchErr    error
		expectedStatus int
	}{
		{name: "success", result: tools.Result{Summary: "ok", Payload: map[string]int{"node_count": 1}}, expectedStatus: http.StatusOK},
		{name: "validation", result: tools.Result{Summary: "Error: bad", IsError: true, ErrorKind: types.ErrorKindValidation}, expectedStatus: http.StatusBadRequest},
		{name: "parse", result: tools.Result{Summary: "Parse Error: bad", IsError: true, ErrorKind: types.ErrorKindParse}, expectedStatus: http.StatusBadRequest},
		{name: "render", result: tools.Result{Summary: "Render Error: bad", IsError: true, ErrorKind: types.ErrorKindRender}, expectedStatus: http.StatusInternalServerError},
		{name: "file system", result: tools.Result{Summary: "File Error: bad", IsError: true, ErrorKind: types.ErrorKindFileSystem}, expectedStatus: http.StatusInternalServerError},
		{name: "unknown tool", result: tools.UnknownToolResult("x"), dispatchErr: tools.ErrUnknownTool, expectedStatus: http.StatusNotFound},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var receivedTool string
			var receivedArguments string
			server := mcp.NewServer(mcp.Config{
				Dispatcher: mcp.DispatcherFunc(func(_ context.Context, toolName string, arguments json.RawMessage) (tools.Result, error) {
					receivedTool = toolName
					receivedArguments = string(arguments)
					return testCase.result, testCase.dispatchErr
				}),
			})
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/commands/markmap_generate", strings.NewReader(`{"markdown_content":"# A"}`))
			server.Handler().ServeHTTP(recorder, request)

			if recorder.Code != testCase.expectedStatus {
				t.Fatalf("expected status %d, got %d", testCase.expectedStatus, recorder.Code)
			}
			if receivedTool != types.ToolGenerate || receivedArguments != `{"markdown_content":"# A"}` {
				t.Fatalf("unexpected dispatch %q %q", receivedTool, receivedArguments)
			}
			var envelope tools.Result
			if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if envelope.Summary != testCase.result.Summary || envelope.IsError != testCase.result.IsError || envelope.ErrorKind != testCase.result.ErrorKind {
				t.Fatalf("unexpected envelope %+v", envelope)
			}
		})
	}
}

func TestCommandEndToEnd(t *testing.T) {
	t.Parallel()

	service, err := tools.NewService(tools.Config{WorkingDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	server := mcp.NewServer(mcp.Config{Dispatcher: service})
	handler := server.Handler()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/commands/markmap_get_structure", strings.NewReader(`{"markdown_content":"# A\n\n## B"}`)))
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", recorder.Code, recorder.Body.String())
	}
	if !strings.Contains(recorder.Body.String(), `"node_count":2`) {
		t.Fatalf("unexpected body %s", recorder.Body.String())
	}

	unknown := httptest.NewRecorder()
	handler.ServeHTTP(unknown, httptest.NewRequest(http.MethodPost, "/commands/markmap_missing", strings.NewReader(`{}`)))
	if unknown.Code != http.StatusNotFound || !strings.Contains(unknown.Body.String(), "Unknown tool: markmap_missing") {
		t.Fatalf("unexpected unknown tool response %d %s", unknown.Code, unknown.Body.String())
	}

	metrics := httptest.NewRecorder()
	handler.ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(metrics.Body)
	if !strings.Contains(string(body), `mindmap_tool_requests_total{outcome="success",tool="markmap_get_structure"} 1`) {
		t.Fatalf("missing request counter in metrics:\n%s", body)
	}
}

func TestHealthAndMethods(t *testing.T) {
	t.Parallel()

	handler := mcp.NewServer(mcp.Config{}).Handler()

	health := httptest.NewRecorder()
	handler.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	if health.Code != http.StatusOK || strings.TrimSpace(health.Body.String()) != `{"status":"ok"}` {
		t.Fatalf("unexpected health response %d %s", health.Code, health.Body.String())
	}

	wrongMethod := httptest.NewRecorder()
	handler.ServeHTTP(wrongMethod, httptest.NewRequest(http.MethodGet, "/commands/markmap_generate", nil))
	if wrongMethod.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", wrongMethod.Code)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	handler := mcp.NewServer(mcp.Config{RateLimit: 1}).Handler()
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %d then %d", first.Code, second.Code)
	}
}

func TestUnknownToolsShareOneMetricSeries(t *testing.T) {
	t.Parallel()

	handler := mcp.NewServer(mcp.Config{}).Handler()
	for index := 0; index < 25; index++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/commands/bogus-%d", index), strings.NewReader(`{}`)))
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for bogus-%d, got %d", index, recorder.Code)
		}
	}

	metrics := httptest.NewRecorder()
	handler.ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := metrics.Body.String()
	if strings.Contains(body, "bogus-") {
		t.Fatalf("caller supplied tool names leaked into metric labels:\n%s", body)
	}
	counterSeries := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "mindmap_tool_requests_total{") {
			counterSeries++
		}
	}
	if counterSeries != 1 {
		t.Fatalf("expected one request counter series, got %d:\n%s", counterSeries, body)
	}
	if !strings.Contains(body, `mindmap_tool_requests_total{outcome="unknown_tool",tool="unknown"} 25`) {
		t.Fatalf("missing aggregated unknown tool counter:\n%s", body)
	}
}
