// Package types defines every cross-package data structure used by the mindmap tools.
package types

const (
	ToolGenerate     = "markmap_generate"
	ToolFromOutline  = "markmap_from_outline"
	ToolGetStructure = "markmap_get_structure"
	ToolRenderFile   = "markmap_render_file"
	ToolCustomize    = "markmap_customize"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatYAML = "yaml"

	ServerName    = "markmap-mcp"
	ServerVersion = "1.0.0"
)

// ErrorKind tags a failed tool result.
type ErrorKind string

const (
	// ErrorKindValidation marks malformed, missing or out-of-range input.
	ErrorKindValidation ErrorKind = "ValidationError"
	// ErrorKindParse marks a rejection by the document parser.
	ErrorKindParse ErrorKind = "ParseError"
	// ErrorKindRender marks a renderer failure or any uncategorized failure.
	ErrorKindRender ErrorKind = "RenderError"
	// ErrorKindFileSystem marks read, stat, write or mkdir failures.
	ErrorKindFileSystem ErrorKind = "FileSystemError"
)

// Node is the canonical hierarchy node produced once parsing is complete.
// Children is nil for leaves; callers treat nil and empty alike.
type Node struct {
	Content  string  `json:"content" yaml:"content"`
	Depth    int     `json:"depth" yaml:"depth"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Payload  any     `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// RawNode is the capability the normalizer needs from a parser-produced tree.
type RawNode interface {
	// ContentOrValue returns the content field, else the value field, else "".
	ContentOrValue() string
	// RawChildren returns nil when the node carries no children.
	RawChildren() []RawNode
	RawPayload() any
}

// OutlineItem is one heading of a flat outline.
type OutlineItem struct {
	Text  string `json:"text" jsonschema:"Text content of the item"`
	Level int    `json:"level" jsonschema:"Indentation/heading level (1-6)"`
}

// Statistics aggregates structural metrics computed over a canonical tree.
type Statistics struct {
	NodeCount         int
	MaxDepth          int
	HeadingsByLevel   map[int]int
	TotalCharacters   int
	AverageNodeLength int
}
