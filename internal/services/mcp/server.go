// Package mcp serves the mindmap tools as an HTTP command server: capability
// discovery, tool execution, health and Prometheus metrics.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/types"
)

const (
	defaultListenAddress    = "127.0.0.1:0"
	defaultShutdownDuration = 5 * time.Second
	rateLimitWindow         = time.Minute
	maxRequestBodyBytes     = 8 << 20
	headerContentType       = "Content-Type"
	mimeTypeJSON            = "application/json"
	capabilitiesPath        = "/capabilities"
	healthPath              = "/health"
	metricsPath             = "/metrics"
	rootPath                = "/"
	commandPath             = "/commands/{tool}"
	toolParameter           = "tool"
	errorFieldName          = "error"
	statusFieldName         = "status"
	statusHealthy           = "ok"

	metricsNamespace = "mindmap"
	outcomeSuccess   = "success"
	outcomeUnknown   = "unknown_tool"
	unknownToolLabel = "unknown"

	logMessageRequest   = "http request"
	logMessageListening = "command server listening"
)

// Capability describes a tool exposed by the server.
type Capability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Dispatcher runs a named tool with raw JSON arguments.
type Dispatcher interface {
	Dispatch(ctx context.Context, toolName string, arguments json.RawMessage) (tools.Result, error)
}

// DispatcherFunc adapts a function into a Dispatcher.
type DispatcherFunc func(context.Context, string, json.RawMessage) (tools.Result, error)

// Dispatch invokes the underlying function.
func (dispatcher DispatcherFunc) Dispatch(ctx context.Context, toolName string, arguments json.RawMessage) (tools.Result, error) {
	return dispatcher(ctx, toolName, arguments)
}

// Config defines runtime options for the command server. RateLimit is the
// number of requests per minute allowed per client address; zero disables it.
type Config struct {
	Address         string
	Capabilities    []Capability
	Dispatcher      Dispatcher
	RateLimit       int
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
	Registry        *prometheus.Registry
}

// Server serves capability metadata and executes tools over HTTP.
type Server struct {
	config  Config
	metrics *requestMetrics
}

// NewServer creates a new Server with defaults applied.
func NewServer(config Config) Server {
	normalized := config
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.Capabilities == nil {
		normalized.Capabilities = []Capability{}
	}
	if normalized.Dispatcher == nil {
		normalized.Dispatcher = DispatcherFunc(func(_ context.Context, toolName string, _ json.RawMessage) (tools.Result, error) {
			return tools.UnknownToolResult(toolName), tools.ErrUnknownTool
		})
	}
	if normalized.Logger == nil {
		normalized.Logger = zap.NewNop()
	}
	if normalized.Registry == nil {
		normalized.Registry = prometheus.NewRegistry()
	}
	return Server{config: normalized, metrics: newRequestMetrics(normalized.Registry)}
}

// CapabilitiesFromDefinitions lists tool definitions as capabilities.
func CapabilitiesFromDefinitions(definitions []tools.Definition) []Capability {
	capabilities := make([]Capability, 0, len(definitions))
	for _, definition := range definitions {
		capabilities = append(capabilities, Capability{Name: definition.Name, Description: definition.Description})
	}
	return capabilities
}

// Handler builds the routed HTTP handler.
func (server Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(server.requestLogger)
	if server.config.RateLimit > 0 {
		router.Use(httprate.LimitByIP(server.config.RateLimit, rateLimitWindow))
	}

	router.Get(rootPath, server.handleRoot)
	router.Get(capabilitiesPath, server.handleCapabilities)
	router.Get(healthPath, server.handleHealth)
	router.Method(http.MethodGet, metricsPath, promhttp.HandlerFor(server.config.Registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	router.Post(commandPath, server.handleCommand)
	return router
}

// Run starts the server and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	httpServer := &http.Server{Handler: server.Handler(), ReadHeaderTimeout: server.config.ShutdownTimeout}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve commands: %w", serveErr)
		}
		return nil
	})

	server.config.Logger.Info(logMessageListening, zap.String("address", actualAddress))
	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown command server: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

func (server Server) handleCapabilities(writer http.ResponseWriter, _ *http.Request) {
	payload := struct {
		Capabilities []Capability `json:"capabilities"`
	}{Capabilities: server.config.Capabilities}
	server.writeJSON(writer, http.StatusOK, payload)
}

func (server Server) handleRoot(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

func (server Server) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	server.writeJSON(writer, http.StatusOK, map[string]string{statusFieldName: statusHealthy})
}

func (server Server) handleCommand(writer http.ResponseWriter, request *http.Request) {
	toolName := chi.URLParam(request, toolParameter)
	startedAt := time.Now()

	body, readErr := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxRequestBodyBytes))
	if readErr != nil {
		server.writeJSON(writer, http.StatusBadRequest, map[string]string{errorFieldName: fmt.Sprintf("read request body: %v", readErr)})
		return
	}
	result, dispatchErr := server.config.Dispatcher.Dispatch(request.Context(), toolName, json.RawMessage(body))
	if errors.Is(dispatchErr, tools.ErrUnknownTool) {
		server.metrics.observe(unknownToolLabel, outcomeUnknown, time.Since(startedAt))
		server.writeJSON(writer, http.StatusNotFound, result)
		return
	}
	if dispatchErr != nil {
		server.metrics.observe(toolName, string(types.ErrorKindRender), time.Since(startedAt))
		server.writeJSON(writer, http.StatusInternalServerError, map[string]string{errorFieldName: dispatchErr.Error()})
		return
	}

	outcome := outcomeSuccess
	if result.IsError {
		outcome = string(result.ErrorKind)
	}
	server.metrics.observe(toolName, outcome, time.Since(startedAt))
	server.writeJSON(writer, StatusCode(result), result)
}

// StatusCode maps an envelope onto its HTTP status: input problems are client
// errors, rendering and file system problems are server errors.
func StatusCode(result tools.Result) int {
	if !result.IsError {
		return http.StatusOK
	}
	switch result.ErrorKind {
	case types.ErrorKindValidation, types.ErrorKindParse:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload any) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := map[string]string{errorFieldName: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}

func (server Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
		startedAt := time.Now()
		next.ServeHTTP(wrapped, request)
		server.config.Logger.Info(logMessageRequest,
			zap.String("method", request.Method),
			zap.String("path", request.URL.Path),
			zap.Int("status", wrapped.Status()),
			zap.Duration("duration", time.Since(startedAt)),
			zap.String("request_id", middleware.GetReqID(request.Context())),
		)
	})
}

type requestMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newRequestMetrics(registry *prometheus.Registry) *requestMetrics {
	metrics := &requestMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tool_requests_total",
			Help:      "Tool invocations by tool and outcome",
		}, []string{"tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "tool_request_duration_seconds",
			Help:      "Tool invocation latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	registry.MustRegister(metrics.requests, metrics.duration)
	return metrics
}

func (metrics *requestMetrics) observe(toolName string, outcome string, elapsed time.Duration) {
	metrics.requests.WithLabelValues(toolName, outcome).Inc()
	metrics.duration.WithLabelValues(toolName).Observe(elapsed.Seconds())
}
