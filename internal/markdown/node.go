package markdown

import "github.com/temirov/mindmap/internal/types"

const (
	payloadTagKey   = "tag"
	payloadLinesKey = "lines"
)

// Node is the raw tree produced by the Transformer. Content holds the inline
// HTML of the block the node was built from.
type Node struct {
	Content  string         `json:"content"`
	Children []*Node        `json:"children,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// ContentOrValue returns the node's inline HTML. A nil node has none.
func (node *Node) ContentOrValue() string {
	if node == nil {
		return ""
	}
	return node.Content
}

// RawChildren exposes the non-nil children through the RawNode capability.
func (node *Node) RawChildren() []types.RawNode {
	if node == nil || len(node.Children) == 0 {
		return nil
	}
	children := make([]types.RawNode, 0, len(node.Children))
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		children = append(children, child)
	}
	if len(children) == 0 {
		return nil
	}
	return children
}

// RawPayload returns the payload, or nil when the node has none.
func (node *Node) RawPayload() any {
	if node == nil || node.Payload == nil {
		return nil
	}
	return node.Payload
}

var _ types.RawNode = (*Node)(nil)
