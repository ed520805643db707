package render

import (
	"strconv"

	"github.com/temirov/mindmap/internal/types"
)

const (
	lineHeightRatio = 1.2
	pathSeparator   = "."
)

// categoryPalette is the branch colour cycle used for node links and lines.
var categoryPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// placedNode is a node with its computed geometry. Y is the vertical centre.
type placedNode struct {
	node     *types.Node
	label    string
	path     string
	color    string
	x        float64
	y        float64
	width    float64
	height   float64
	children []*placedNode
}

type layoutResult struct {
	root   *placedNode
	width  float64
	height float64
}

// computeLayout places nodes left to right: x grows with depth, leaves are
// stacked top to bottom and every parent is centred on its children.
func computeLayout(root *types.Node, options Options) layoutResult {
	colorIndex := 0
	var build func(node *types.Node, path string, parentColor string, x float64) *placedNode
	build = func(node *types.Node, path string, parentColor string, x float64) *placedNode {
		label := fitLabel(plainText(node.Content), options.FontSize, options.MaxWidth)
		placed := &placedNode{
			node:   node,
			label:  label,
			path:   path,
			x:      x,
			width:  textWidth(label, options.FontSize) + float64(2*options.PaddingX),
			height: float64(options.FontSize)*lineHeightRatio + float64(2*options.PaddingY),
		}
		if parentColor == "" || node.Depth < options.ColorFreezeLevel {
			placed.color = categoryPalette[colorIndex%len(categoryPalette)]
			colorIndex++
		} else {
			placed.color = parentColor
		}
		childX := x + placed.width + float64(options.Spacing)
		for childIndex, child := range node.Children {
			if child == nil {
				continue
			}
			childPath := path + pathSeparator + strconv.Itoa(childIndex+1)
			placed.children = append(placed.children, build(child, childPath, placed.color, childX))
		}
		return placed
	}
	placedRoot := build(root, "1", "", 0)

	cursor := 0.0
	gap := float64(options.PaddingY)
	maximumX := 0.0
	var stack func(placed *placedNode)
	stack = func(placed *placedNode) {
		if right := placed.x + placed.width; right > maximumX {
			maximumX = right
		}
		if len(placed.children) == 0 {
			placed.y = cursor + placed.height/2
			cursor += placed.height + gap
			return
		}
		for _, child := range placed.children {
			stack(child)
		}
		first := placed.children[0]
		last := placed.children[len(placed.children)-1]
		placed.y = (first.y + last.y) / 2
	}
	stack(placedRoot)

	height := cursor - gap
	if height < placedRoot.height {
		height = placedRoot.height
	}
	return layoutResult{root: placedRoot, width: maximumX, height: height}
}
