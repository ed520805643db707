package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/width"
)

const (
	averageGlyphRatio = 0.6
	ellipsis          = "…"
)

// plainText extracts the visible text of an inline HTML fragment with
// whitespace collapsed.
func plainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, parseErr := html.ParseFragment(strings.NewReader(fragment), container)
	if parseErr != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	var builder strings.Builder
	var collect func(node *html.Node)
	collect = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			builder.WriteString(node.Data)
		case html.ElementNode:
			if node.DataAtom == atom.Script || node.DataAtom == atom.Style {
				return
			}
			if node.DataAtom == atom.Br {
				builder.WriteString(" ")
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	for _, node := range nodes {
		collect(node)
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}

// displayColumns counts East Asian wide and fullwidth runes as two columns.
func displayColumns(text string) int {
	columns := 0
	for _, character := range text {
		switch width.LookupRune(character).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			columns += 2
		default:
			columns++
		}
	}
	return columns
}

func textWidth(text string, fontSize int) float64 {
	return float64(displayColumns(text)) * float64(fontSize) * averageGlyphRatio
}

// fitLabel truncates text with an ellipsis until it fits maxWidth pixels.
// A maxWidth of zero disables truncation.
func fitLabel(text string, fontSize int, maxWidth int) string {
	if maxWidth <= 0 || textWidth(text, fontSize) <= float64(maxWidth) {
		return text
	}
	runes := []rune(text)
	for length := len(runes) - 1; length > 0; length-- {
		candidate := strings.TrimRight(string(runes[:length]), " ") + ellipsis
		if textWidth(candidate, fontSize) <= float64(maxWidth) {
			return candidate
		}
	}
	return ellipsis
}
