package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	surfaceTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <style>svg { width: 100%; height: 100%; }</style>
  </head>
  <body>
    <svg id="markmap" width="800" height="600"></svg>
  </body>
</html>`
	targetIdentifier = "markmap"
	svgNamespace     = "svg"
)

var (
	// ErrSurfaceReleased reports use of a surface after Release.
	ErrSurfaceReleased = errors.New("render surface already released")
	errTargetNotFound  = errors.New("SVG element not found")
)

// Surface is a detached HTML document holding the <svg id="markmap"> target a
// Renderer draws into. Acquire one per render and Release it when done.
type Surface struct {
	document *html.Node
	head     *html.Node
	target   *html.Node
}

// AcquireSurface parses a fresh document and locates its drawing target.
func AcquireSurface() (*Surface, error) {
	document, parseErr := html.Parse(strings.NewReader(surfaceTemplate))
	if parseErr != nil {
		return nil, fmt.Errorf("parse surface document: %w", parseErr)
	}
	surface := &Surface{document: document}
	var locate func(node *html.Node)
	locate = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch {
			case node.DataAtom == atom.Head:
				surface.head = node
			case node.Data == "svg" && attributeValue(node, "id") == targetIdentifier:
				surface.target = node
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			locate(child)
		}
	}
	locate(document)
	if surface.target == nil || surface.head == nil {
		return nil, errTargetNotFound
	}
	return surface, nil
}

// Target returns the svg element renderers draw into.
func (surface *Surface) Target() (*html.Node, error) {
	if surface.released() {
		return nil, ErrSurfaceReleased
	}
	return surface.target, nil
}

// AddStyles appends one <style> element to the document head holding styles.
func (surface *Surface) AddStyles(styles []string) error {
	if surface.released() {
		return ErrSurfaceReleased
	}
	if len(styles) == 0 {
		return nil
	}
	styleElement := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	styleElement.AppendChild(&html.Node{Type: html.TextNode, Data: strings.Join(styles, "\n")})
	surface.head.AppendChild(styleElement)
	return nil
}

// Styles returns the text of every <style> element in the document head.
func (surface *Surface) Styles() []string {
	if surface.released() {
		return nil
	}
	var styles []string
	for child := surface.head.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == atom.Style && child.FirstChild != nil {
			styles = append(styles, child.FirstChild.Data)
		}
	}
	return styles
}

// OuterSVG serializes the target element including its own tag.
func (surface *Surface) OuterSVG() (string, error) {
	if surface.released() {
		return "", ErrSurfaceReleased
	}
	var buffer bytes.Buffer
	if err := html.Render(&buffer, surface.target); err != nil {
		return "", fmt.Errorf("serialize svg: %w", err)
	}
	return buffer.String(), nil
}

// Release drops the document. It is safe to call more than once.
func (surface *Surface) Release() {
	if surface == nil {
		return
	}
	surface.document = nil
	surface.head = nil
	surface.target = nil
}

func (surface *Surface) released() bool {
	return surface == nil || surface.document == nil
}

func attributeValue(node *html.Node, key string) string {
	for _, attribute := range node.Attr {
		if attribute.Namespace == "" && attribute.Key == key {
			return attribute.Val
		}
	}
	return ""
}

func setAttribute(node *html.Node, key string, value string) {
	for index, attribute := range node.Attr {
		if attribute.Namespace == "" && attribute.Key == key {
			node.Attr[index].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}

func newElement(name string, attributes ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: name, Namespace: svgNamespace, Attr: attributes}
}
