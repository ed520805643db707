package tools

import "github.com/temirov/mindmap/internal/types"

// Result is the envelope every operation returns. Payload is set only on
// success and ErrorKind only on failure.
type Result struct {
	Summary   string          `json:"summary"`
	Payload   any             `json:"payload,omitempty"`
	IsError   bool            `json:"isError"`
	ErrorKind types.ErrorKind `json:"errorType,omitempty"`
}

func failureResult(toolError *ToolError) Result {
	return Result{Summary: toolError.Error(), IsError: true, ErrorKind: toolError.Kind}
}
