// Package tools implements the mindmap tool operations: request validation,
// option and theme resolution, guardrails, parsing, rendering and result shaping.
package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/temirov/mindmap/internal/hierarchy"
	"github.com/temirov/mindmap/internal/markdown"
	"github.com/temirov/mindmap/internal/render"
	"github.com/temirov/mindmap/internal/theme"
	"github.com/temirov/mindmap/internal/tokenizer"
	"github.com/temirov/mindmap/internal/types"
)

const (
	bytesPerMebibyte = 1024 * 1024

	// DefaultMaxContentBytes caps Markdown submitted inline.
	DefaultMaxContentBytes = 1 * bytesPerMebibyte
	// DefaultMaxNodes caps the parsed tree size.
	DefaultMaxNodes = 10000
	// DefaultMaxDepth caps the parsed tree depth.
	DefaultMaxDepth = 20
	// DefaultMaxFileBytes caps files read by markmap_render_file.
	DefaultMaxFileBytes = 5 * bytesPerMebibyte

	contentTooLargeFormat = "Markdown content too large (%.2fMB). Maximum size is %sMB"
	tooManyNodesFormat    = "Too many nodes (%d). Maximum is %s nodes"
	tooDeepFormat         = "Tree too deep (%d levels). Maximum depth is %d levels"
	emptyContentMessage   = "Markdown content cannot be empty"

	logFieldTool              = "tool"
	logFieldInvocationID      = "invocation_id"
	logFieldErrorType         = "error_type"
	logMessageInvocation      = "tool invocation started"
	logMessageInvocationDone  = "tool invocation completed"
	logMessageInvocationError = "tool invocation failed"
	panicFormat               = "panic: %v"
)

// Parser is the document parser capability the operations need.
type Parser interface {
	Transform(ctx context.Context, content string) (markdown.Result, error)
	UsedAssets(features markdown.Features) markdown.Assets
}

// ParserFactory builds one parser per call.
type ParserFactory func() Parser

// RendererFactory builds one renderer per call.
type RendererFactory func() render.Renderer

// Limits are the size and shape guardrails enforced before rendering.
type Limits struct {
	MaxContentBytes int64
	MaxNodes        int
	MaxDepth        int
	MaxFileBytes    int64
}

// DefaultLimits returns the stock guardrails.
func DefaultLimits() Limits {
	return Limits{
		MaxContentBytes: DefaultMaxContentBytes,
		MaxNodes:        DefaultMaxNodes,
		MaxDepth:        DefaultMaxDepth,
		MaxFileBytes:    DefaultMaxFileBytes,
	}
}

func (limits Limits) withDefaults() Limits {
	defaults := DefaultLimits()
	if limits.MaxContentBytes <= 0 {
		limits.MaxContentBytes = defaults.MaxContentBytes
	}
	if limits.MaxNodes <= 0 {
		limits.MaxNodes = defaults.MaxNodes
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = defaults.MaxDepth
	}
	if limits.MaxFileBytes <= 0 {
		limits.MaxFileBytes = defaults.MaxFileBytes
	}
	return limits
}

// Config wires a Service. Zero fields fall back to the operating system file
// system, the process working directory, the default limits and the built-in
// goldmark parser and SVG renderer.
type Config struct {
	FileSystem       afero.Fs
	WorkingDirectory string
	Limits           Limits
	DefaultTheme     string
	Logger           *zap.Logger
	TokenCounter     tokenizer.Counter
	NewParser        ParserFactory
	NewRenderer      RendererFactory
}

// Service executes tool operations. It holds configuration only; every call
// builds its own parser, renderer and render surface.
type Service struct {
	fileSystem       afero.Fs
	workingDirectory string
	limits           Limits
	defaultTheme     theme.Theme
	logger           *zap.Logger
	tokenCounter     tokenizer.Counter
	newParser        ParserFactory
	newRenderer      RendererFactory
}

// NewService validates cfg and constructs a Service.
func NewService(cfg Config) (*Service, error) {
	workingDirectory := cfg.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}
	absoluteDirectory, absErr := filepath.Abs(workingDirectory)
	if absErr != nil {
		return nil, fmt.Errorf("resolve working directory %s: %w", workingDirectory, absErr)
	}
	defaultTheme, themeErr := theme.Parse(cfg.DefaultTheme)
	if themeErr != nil {
		return nil, themeErr
	}

	service := &Service{
		fileSystem:       cfg.FileSystem,
		workingDirectory: filepath.Clean(absoluteDirectory),
		limits:           cfg.Limits.withDefaults(),
		defaultTheme:     defaultTheme,
		logger:           cfg.Logger,
		tokenCounter:     cfg.TokenCounter,
		newParser:        cfg.NewParser,
		newRenderer:      cfg.NewRenderer,
	}
	if service.fileSystem == nil {
		service.fileSystem = afero.NewOsFs()
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	if service.newParser == nil {
		service.newParser = func() Parser { return markdown.NewTransformer() }
	}
	if service.newRenderer == nil {
		service.newRenderer = func() render.Renderer { return render.NewMarkmap() }
	}
	return service, nil
}

// WorkingDirectory returns the directory file paths are confined to.
func (service *Service) WorkingDirectory() string {
	return service.workingDirectory
}

// Limits returns the effective guardrails.
func (service *Service) Limits() Limits {
	return service.limits
}

type operationFunc func(ctx context.Context) (string, any, error)

// invoke runs operation under a fresh invocation id and converts its outcome,
// panics included, into a Result.
func (service *Service) invoke(ctx context.Context, toolName string, operation operationFunc) (result Result) {
	logger := service.logger.With(
		zap.String(logFieldTool, toolName),
		zap.String(logFieldInvocationID, uuid.NewString()),
	)
	logger.Debug(logMessageInvocation)
	defer func() {
		if recovered := recover(); recovered != nil {
			result = service.failure(logger, renderFailure(fmt.Errorf(panicFormat, recovered)))
		}
	}()

	summary, payload, err := operation(ctx)
	if err != nil {
		return service.failure(logger, err)
	}
	logger.Debug(logMessageInvocationDone)
	return Result{Summary: summary, Payload: payload}
}

func (service *Service) failure(logger *zap.Logger, err error) Result {
	toolError := classify(err)
	logger.Warn(logMessageInvocationError,
		zap.String(logFieldErrorType, string(toolError.Kind)),
		zap.Error(err),
	)
	return failureResult(toolError)
}

// parsedDocument is a parsed and normalized document plus the measurements
// taken on the raw tree.
type parsedDocument struct {
	root      *types.Node
	features  markdown.Features
	assets    markdown.Assets
	nodeCount int
	depth     int
}

func (service *Service) checkContentSize(content string) error {
	size := int64(len(content))
	if size > service.limits.MaxContentBytes {
		return validationFailure(contentTooLargeFormat,
			float64(size)/bytesPerMebibyte,
			formatMebibytes(service.limits.MaxContentBytes))
	}
	return nil
}

func (service *Service) parse(ctx context.Context, content string) (parsedDocument, error) {
	parser := service.newParser()
	result, err := parser.Transform(ctx, content)
	if err != nil {
		return parsedDocument{}, parseFailure(err)
	}
	if result.Root == nil {
		return parsedDocument{}, parseFailure(markdown.ErrEmptyContent)
	}
	return parsedDocument{
		root:      hierarchy.Normalize(result.Root),
		features:  result.Features,
		assets:    parser.UsedAssets(result.Features),
		nodeCount: hierarchy.CountNodes(result.Root),
		depth:     hierarchy.CalculateDepth(result.Root, hierarchy.RootDepth),
	}, nil
}

func (service *Service) checkShape(document parsedDocument) error {
	if document.nodeCount > service.limits.MaxNodes {
		return validationFailure(tooManyNodesFormat, document.nodeCount, groupedNumber(service.limits.MaxNodes))
	}
	if document.depth > service.limits.MaxDepth {
		return validationFailure(tooDeepFormat, document.depth, service.limits.MaxDepth)
	}
	return nil
}

// parseForRender parses content and enforces the node and depth caps.
func (service *Service) parseForRender(ctx context.Context, content string) (parsedDocument, error) {
	document, err := service.parse(ctx, content)
	if err != nil {
		return parsedDocument{}, err
	}
	if shapeErr := service.checkShape(document); shapeErr != nil {
		return parsedDocument{}, shapeErr
	}
	return document, nil
}

func (service *Service) render(ctx context.Context, document parsedDocument, options types.OptionSet) (string, error) {
	svg, err := render.RenderSVG(ctx, service.newRenderer(), options, document.root, document.assets.Styles)
	if err != nil {
		return "", renderFailure(err)
	}
	return svg, nil
}

// defaultOptions layers explicit options over the configured default theme.
func (service *Service) defaultOptions(explicit *types.OptionSet) (types.OptionSet, error) {
	resolution, err := theme.Resolve(string(service.defaultTheme), explicit, nil)
	if err != nil {
		return types.OptionSet{}, validationCause(err)
	}
	return resolution.Options, nil
}

func featureNames(features markdown.Features) []string {
	if features == nil {
		return []string{}
	}
	return features.Names()
}

func formatMebibytes(size int64) string {
	return strconv.FormatFloat(float64(size)/bytesPerMebibyte, 'f', -1, 64)
}

func groupedNumber(value int) string {
	return message.NewPrinter(language.English).Sprintf("%d", value)
}
