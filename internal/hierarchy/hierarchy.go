// Package hierarchy normalizes parser trees into canonical nodes and computes
// structural statistics over them.
package hierarchy

import (
	"math"
	"unicode/utf8"

	"github.com/temirov/mindmap/internal/types"
)

// RootDepth is the depth stamped on every normalized root.
const RootDepth = 1

// Normalize converts a raw parser tree into a canonical tree rooted at depth 1.
func Normalize(raw types.RawNode) *types.Node {
	if raw == nil {
		return nil
	}
	return normalizeAt(raw, RootDepth)
}

func normalizeAt(raw types.RawNode, depth int) *types.Node {
	node := &types.Node{
		Content: raw.ContentOrValue(),
		Depth:   depth,
		Payload: raw.RawPayload(),
	}
	rawChildren := raw.RawChildren()
	if len(rawChildren) > 0 {
		node.Children = make([]*types.Node, 0, len(rawChildren))
		for _, rawChild := range rawChildren {
			if rawChild == nil {
				continue
			}
			node.Children = append(node.Children, normalizeAt(rawChild, depth+1))
		}
	}
	return node
}

// Analyze walks the tree once and aggregates its statistics. MaxDepth and
// HeadingsByLevel use the depth already stamped on each node.
func Analyze(root *types.Node) types.Statistics {
	statistics := types.Statistics{HeadingsByLevel: map[int]int{}}
	if root == nil {
		return statistics
	}
	var visit func(node *types.Node)
	visit = func(node *types.Node) {
		statistics.NodeCount++
		if statistics.NodeCount == 1 || node.Depth > statistics.MaxDepth {
			statistics.MaxDepth = node.Depth
		}
		statistics.HeadingsByLevel[node.Depth]++
		statistics.TotalCharacters += utf8.RuneCountInString(node.Content)
		for _, child := range node.Children {
			if child != nil {
				visit(child)
			}
		}
	}
	visit(root)
	statistics.AverageNodeLength = int(math.Round(float64(statistics.TotalCharacters) / float64(statistics.NodeCount)))
	return statistics
}

// CountNodes counts the raw node and all of its descendants.
func CountNodes(raw types.RawNode) int {
	if raw == nil {
		return 0
	}
	count := 1
	for _, child := range raw.RawChildren() {
		count += CountNodes(child)
	}
	return count
}

// CalculateDepth returns startDepth for a leaf, otherwise the deepest value
// reached below it.
func CalculateDepth(raw types.RawNode, startDepth int) int {
	children := raw.RawChildren()
	if len(children) == 0 {
		return startDepth
	}
	deepest := startDepth
	for _, child := range children {
		if child == nil {
			continue
		}
		childDepth := CalculateDepth(child, startDepth+1)
		if childDepth > deepest {
			deepest = childDepth
		}
	}
	return deepest
}
