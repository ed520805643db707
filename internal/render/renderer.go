// Package render lays canonical trees out as SVG mind maps inside a detached
// HTML document surface.
package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/net/html"

	"github.com/temirov/mindmap/internal/types"
)

const (
	canvasMargin   = 20
	strokeWidth    = "1.5"
	circleRadius   = "4"
	fontFamily     = "sans-serif"
	renderFailure  = "Failed to render SVG: %w"
	renderPanicFmt = "renderer panic: %v"
)

var errNilRoot = errors.New("render root is nil")

// Renderer draws a tree into a surface.
type Renderer interface {
	DeriveOptions(options types.OptionSet) Options
	Create(ctx context.Context, surface *Surface, options Options, root *types.Node) error
}

// Markmap is the built-in SVG renderer.
type Markmap struct{}

// NewMarkmap returns the built-in renderer.
func NewMarkmap() *Markmap {
	return &Markmap{}
}

// DeriveOptions normalizes a sparse option set.
func (renderer *Markmap) DeriveOptions(options types.OptionSet) Options {
	return DeriveOptions(options)
}

// Create lays the tree out and appends links and labelled nodes to the
// surface target.
func (renderer *Markmap) Create(ctx context.Context, surface *Surface, options Options, root *types.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if root == nil {
		return errNilRoot
	}
	target, targetErr := surface.Target()
	if targetErr != nil {
		return targetErr
	}

	layout := computeLayout(root, options)
	viewWidth := layout.width + 2*canvasMargin
	viewHeight := layout.height + 2*canvasMargin
	setAttribute(target, "class", "markmap")
	setAttribute(target, "viewBox", fmt.Sprintf("%s %s %s %s", formatNumber(-canvasMargin), formatNumber(-canvasMargin), formatNumber(viewWidth), formatNumber(viewHeight)))
	setAttribute(target, "data-duration", strconv.Itoa(options.Duration))
	setAttribute(target, "data-zoom", strconv.FormatBool(options.Zoom))
	setAttribute(target, "data-pan", strconv.FormatBool(options.Pan))
	setAttribute(target, "data-color-freeze-level", strconv.Itoa(options.ColorFreezeLevel))

	links := newElement("g", html.Attribute{Key: "class", Val: "markmap-links"})
	nodes := newElement("g", html.Attribute{Key: "class", Val: "markmap-nodes"})
	target.AppendChild(links)
	target.AppendChild(nodes)

	var draw func(placed *placedNode)
	draw = func(placed *placedNode) {
		nodes.AppendChild(drawNode(placed, options))
		for _, child := range placed.children {
			links.AppendChild(drawLink(placed, child))
			draw(child)
		}
	}
	draw(layout.root)
	return nil
}

func drawNode(placed *placedNode, options Options) *html.Node {
	top := placed.y - placed.height/2
	group := newElement("g",
		html.Attribute{Key: "class", Val: "markmap-node"},
		html.Attribute{Key: "data-depth", Val: strconv.Itoa(placed.node.Depth)},
		html.Attribute{Key: "data-path", Val: placed.path},
		html.Attribute{Key: "transform", Val: fmt.Sprintf("translate(%s,%s)", formatNumber(placed.x), formatNumber(top))},
	)
	group.AppendChild(newElement("line",
		html.Attribute{Key: "x1", Val: "0"},
		html.Attribute{Key: "y1", Val: formatNumber(placed.height)},
		html.Attribute{Key: "x2", Val: formatNumber(placed.width)},
		html.Attribute{Key: "y2", Val: formatNumber(placed.height)},
		html.Attribute{Key: "stroke", Val: placed.color},
		html.Attribute{Key: "stroke-width", Val: strokeWidth},
	))
	if len(placed.children) > 0 {
		group.AppendChild(newElement("circle",
			html.Attribute{Key: "cx", Val: formatNumber(placed.width)},
			html.Attribute{Key: "cy", Val: formatNumber(placed.height)},
			html.Attribute{Key: "r", Val: circleRadius},
			html.Attribute{Key: "stroke", Val: placed.color},
			html.Attribute{Key: "fill", Val: "#fff"},
		))
	}
	label := newElement("text",
		html.Attribute{Key: "x", Val: strconv.Itoa(options.PaddingX)},
		html.Attribute{Key: "y", Val: formatNumber(placed.height - float64(options.PaddingY))},
		html.Attribute{Key: "font-size", Val: strconv.Itoa(options.FontSize)},
		html.Attribute{Key: "font-family", Val: fontFamily},
	)
	label.AppendChild(&html.Node{Type: html.TextNode, Data: placed.label})
	group.AppendChild(label)
	return group
}

func drawLink(parent *placedNode, child *placedNode) *html.Node {
	startX := parent.x + parent.width
	startY := parent.y + parent.height/2
	endX := child.x
	endY := child.y + child.height/2
	middleX := (startX + endX) / 2
	path := fmt.Sprintf("M%s,%s C%s,%s %s,%s %s,%s",
		formatNumber(startX), formatNumber(startY),
		formatNumber(middleX), formatNumber(startY),
		formatNumber(middleX), formatNumber(endY),
		formatNumber(endX), formatNumber(endY),
	)
	return newElement("path",
		html.Attribute{Key: "class", Val: "markmap-link"},
		html.Attribute{Key: "d", Val: path},
		html.Attribute{Key: "fill", Val: "none"},
		html.Attribute{Key: "stroke", Val: child.color},
		html.Attribute{Key: "stroke-width", Val: strokeWidth},
	)
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
}

// RenderSVG acquires a surface, draws root into it and serializes the svg
// element. The surface is released on every path, including renderer panics.
func RenderSVG(ctx context.Context, renderer Renderer, options types.OptionSet, root *types.Node, styles []string) (svg string, err error) {
	surface, acquireErr := AcquireSurface()
	if acquireErr != nil {
		return "", fmt.Errorf(renderFailure, acquireErr)
	}
	defer surface.Release()
	defer func() {
		if recovered := recover(); recovered != nil {
			svg = ""
			err = fmt.Errorf(renderFailure, fmt.Errorf(renderPanicFmt, recovered))
		}
	}()

	if styleErr := surface.AddStyles(styles); styleErr != nil {
		return "", fmt.Errorf(renderFailure, styleErr)
	}
	if createErr := renderer.Create(ctx, surface, renderer.DeriveOptions(options), root); createErr != nil {
		return "", fmt.Errorf(renderFailure, createErr)
	}
	serialized, serializeErr := surface.OuterSVG()
	if serializeErr != nil {
		return "", fmt.Errorf(renderFailure, serializeErr)
	}
	return serialized, nil
}
