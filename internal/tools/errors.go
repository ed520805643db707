package tools

import (
	"errors"
	"fmt"

	"github.com/temirov/mindmap/internal/types"
)

const (
	labelGeneric    = "Error"
	labelParse      = "Parse Error"
	labelRender     = "Render Error"
	labelFileRead   = "File Error"
	labelFileSave   = "Error saving file"
	unknownToolText = "Unknown tool: %s"
)

// ErrUnknownTool reports a dispatch to a tool name that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ToolError is a classified operation failure. Its Error text is the summary
// returned to the caller.
type ToolError struct {
	Kind    types.ErrorKind
	Message string
	Err     error
}

func (toolError *ToolError) Error() string {
	if toolError.Err == nil {
		return toolError.Message
	}
	return toolError.Message + ": " + toolError.Err.Error()
}

func (toolError *ToolError) Unwrap() error {
	return toolError.Err
}

func validationFailure(format string, arguments ...any) *ToolError {
	return &ToolError{Kind: types.ErrorKindValidation, Message: labelGeneric, Err: fmt.Errorf(format, arguments...)}
}

func validationCause(cause error) *ToolError {
	return &ToolError{Kind: types.ErrorKindValidation, Message: labelGeneric, Err: cause}
}

func parseFailure(cause error) *ToolError {
	return &ToolError{Kind: types.ErrorKindParse, Message: labelParse, Err: cause}
}

func renderFailure(cause error) *ToolError {
	return &ToolError{Kind: types.ErrorKindRender, Message: labelRender, Err: cause}
}

func readFailure(cause error) *ToolError {
	return &ToolError{Kind: types.ErrorKindFileSystem, Message: labelFileRead, Err: cause}
}

func saveFailure(cause error) *ToolError {
	return &ToolError{Kind: types.ErrorKindFileSystem, Message: labelFileSave, Err: cause}
}

// classify converts any error into a ToolError. Unclassified errors are
// reported as render failures.
func classify(err error) *ToolError {
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError
	}
	return &ToolError{Kind: types.ErrorKindRender, Message: labelGeneric, Err: err}
}
