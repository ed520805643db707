package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/mindmap/internal/types"
)

const (
	markdownExtension     = ".md"
	markdownLongExtension = ".markdown"
	svgExtension          = ".svg"

	emptyPathMessage       = "File path cannot be empty"
	invalidExtensionFormat = "Invalid file extension '%s'. Only .md and .markdown files are supported"
	inputOutsideMessage    = "File path must be within the current working directory"
	outputOutsideMessage   = "Output path must be within the current working directory"
	fileTooLargeFormat     = "File too large (%.2fMB). Maximum size is %sMB"
	directoryPathFormat    = "%s is a directory"
	renderedSummaryFormat  = "Successfully rendered %s with %d nodes"
	renderedSavedFormat    = "Successfully rendered %s (%d nodes) and saved to %s"
	outputDirectoryMode    = 0o755
	outputFileMode         = 0o644
	bytesPerKibibyte       = 1024
	kilobyteRoundingFactor = 100
)

// RenderFile reads a Markdown file below the working directory, renders it
// and optionally writes the SVG next to it or to output_path.
func (service *Service) RenderFile(ctx context.Context, request RenderFileRequest) Result {
	return service.invoke(ctx, types.ToolRenderFile, func(ctx context.Context) (string, any, error) {
		if strings.TrimSpace(request.FilePath) == "" {
			return "", nil, validationCause(errors.New(emptyPathMessage))
		}
		extension := strings.ToLower(filepath.Ext(request.FilePath))
		if extension != markdownExtension && extension != markdownLongExtension {
			return "", nil, validationFailure(invalidExtensionFormat, extension)
		}
		inputPath, inputContained := service.containedPath(request.FilePath)
		if !inputContained {
			return "", nil, validationCause(errors.New(inputOutsideMessage))
		}

		requestedOutput := ""
		outputPath := ""
		if request.SaveOutput {
			requestedOutput = request.OutputPath
			if strings.TrimSpace(requestedOutput) == "" {
				requestedOutput = strings.TrimSuffix(request.FilePath, filepath.Ext(request.FilePath)) + svgExtension
			}
			resolvedOutput, outputContained := service.containedPath(requestedOutput)
			if !outputContained {
				return "", nil, validationCause(errors.New(outputOutsideMessage))
			}
			outputPath = resolvedOutput
		}

		options, optionsErr := service.defaultOptions(request.Options)
		if optionsErr != nil {
			return "", nil, optionsErr
		}

		fileInfo, statErr := service.fileSystem.Stat(inputPath)
		if statErr != nil {
			return "", nil, readFailure(statErr)
		}
		if fileInfo.IsDir() {
			return "", nil, readFailure(fmt.Errorf(directoryPathFormat, request.FilePath))
		}
		if fileInfo.Size() > service.limits.MaxFileBytes {
			return "", nil, validationFailure(fileTooLargeFormat,
				float64(fileInfo.Size())/bytesPerMebibyte,
				formatMebibytes(service.limits.MaxFileBytes))
		}
		contentBytes, readErr := afero.ReadFile(service.fileSystem, inputPath)
		if readErr != nil {
			return "", nil, readFailure(readErr)
		}

		document, parseErr := service.parseForRender(ctx, string(contentBytes))
		if parseErr != nil {
			return "", nil, parseErr
		}
		svg, renderErr := service.render(ctx, document, options)
		if renderErr != nil {
			return "", nil, renderErr
		}

		savedPath := ""
		if outputPath != "" {
			if mkdirErr := service.fileSystem.MkdirAll(filepath.Dir(outputPath), outputDirectoryMode); mkdirErr != nil {
				return "", nil, saveFailure(mkdirErr)
			}
			if writeErr := afero.WriteFile(service.fileSystem, outputPath, []byte(svg), outputFileMode); writeErr != nil {
				return "", nil, saveFailure(writeErr)
			}
			savedPath = requestedOutput
		}

		output := RenderFileOutput{
			SVGContent:   svg,
			FilePath:     request.FilePath,
			SavedPath:    savedPath,
			NodeCount:    document.nodeCount,
			Depth:        document.depth,
			FeaturesUsed: featureNames(document.features),
			FileSizeKB:   math.Round(float64(fileInfo.Size())/bytesPerKibibyte*kilobyteRoundingFactor) / kilobyteRoundingFactor,
		}
		if savedPath != "" {
			return fmt.Sprintf(renderedSavedFormat, request.FilePath, document.nodeCount, savedPath), output, nil
		}
		return fmt.Sprintf(renderedSummaryFormat, request.FilePath, document.nodeCount), output, nil
	})
}

// containedPath resolves candidate against the working directory and reports
// whether the result is the working directory or lies below it.
func (service *Service) containedPath(candidate string) (string, bool) {
	resolved := candidate
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(service.workingDirectory, resolved)
	}
	resolved = filepath.Clean(resolved)
	relative, err := filepath.Rel(service.workingDirectory, resolved)
	if err != nil {
		return "", false
	}
	if relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", false
	}
	return resolved, true
}
