// Package markdown turns Markdown text into the raw heading/list tree consumed
// by the hierarchy normalizer, using goldmark for parsing and inline rendering.
package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extensionast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

const (
	parseFailureFormat = "Failed to parse markdown: %w"
	headingTagFormat   = "h%d"
	linesFormat        = "%d,%d"
	listItemTag        = "li"
	checkedBoxMarkup   = `<span class="markmap-checkbox">&#9745;</span> `
	uncheckedBoxMarkup = `<span class="markmap-checkbox">&#9744;</span> `
)

// ErrEmptyContent reports blank input.
var ErrEmptyContent = errors.New("Markdown content cannot be empty")

var mathPattern = regexp.MustCompile(`\$\$[^$]+\$\$|\$[^$\s](?:[^$\n]*[^$\s])?\$(?:[^0-9]|$)`)

// Result is the outcome of a Transform call.
type Result struct {
	Root        *Node
	Features    Features
	Frontmatter map[string]any
}

// Transformer parses Markdown documents into raw trees.
type Transformer struct {
	engine goldmark.Markdown
}

// NewTransformer builds a Transformer with the GitHub-flavoured extensions.
// Raw HTML is kept in node content the way markmap keeps it.
func NewTransformer() *Transformer {
	return &Transformer{engine: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)}
}

// Transform parses content into a tree rooted at a synthetic container. When
// the container has no content and exactly one child, that child becomes the root.
func (transformer *Transformer) Transform(ctx context.Context, content string) (Result, error) {
	if strings.TrimSpace(content) == "" {
		return Result{}, ErrEmptyContent
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	matter, body, hasFrontmatter, matterErr := splitFrontmatter(content)
	if matterErr != nil {
		return Result{}, fmt.Errorf(parseFailureFormat, matterErr)
	}
	features := Features{}
	if hasFrontmatter {
		features.add(FeatureFrontmatter)
	}

	source := []byte(body)
	document := transformer.engine.Parser().Parse(text.NewReader(source))
	builder := treeBuilder{
		renderer:   transformer.engine.Renderer(),
		source:     source,
		lineStarts: computeLineStarts(source),
		lineOffset: matter.lineCount,
		features:   features,
	}
	root := builder.build(document)
	if builder.err != nil {
		return Result{}, fmt.Errorf(parseFailureFormat, builder.err)
	}
	if title := matter.title(); title != "" && len(root.Children) != 1 {
		root.Content = html.EscapeString(title)
	}
	if root.Content == "" && len(root.Children) == 1 {
		root = root.Children[0]
	}
	return Result{Root: root, Features: features, Frontmatter: matter.values}, nil
}

type stackEntry struct {
	node  *Node
	level int
}

type treeBuilder struct {
	renderer   renderer.Renderer
	source     []byte
	lineStarts []int
	lineOffset int
	features   Features
	err        error
}

func (builder *treeBuilder) build(document ast.Node) *Node {
	root := &Node{}
	stack := []stackEntry{{node: root, level: 0}}
	for block := document.FirstChild(); block != nil; block = block.NextSibling() {
		switch typed := block.(type) {
		case *ast.Heading:
			for len(stack) > 1 && stack[len(stack)-1].level >= typed.Level {
				stack = stack[:len(stack)-1]
			}
			headingNode := &Node{
				Content: builder.renderInline(typed),
				Payload: builder.payload(fmt.Sprintf(headingTagFormat, typed.Level), typed),
			}
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, headingNode)
			stack = append(stack, stackEntry{node: headingNode, level: typed.Level})
		case *ast.List:
			builder.appendList(stack[len(stack)-1].node, typed)
		case *ast.ThematicBreak:
			continue
		default:
			if leaf := builder.blockNode(block); leaf != nil {
				parent := stack[len(stack)-1].node
				parent.Children = append(parent.Children, leaf)
			}
		}
	}
	return root
}

func (builder *treeBuilder) appendList(parent *Node, list *ast.List) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		itemNode := &Node{Payload: builder.payload(listItemTag, item)}
		first := true
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, isList := child.(*ast.List); isList {
				builder.appendList(itemNode, nested)
				first = false
				continue
			}
			if first && isTextual(child) {
				itemNode.Content = builder.renderInline(child)
				first = false
				continue
			}
			first = false
			if leaf := builder.blockNode(child); leaf != nil {
				itemNode.Children = append(itemNode.Children, leaf)
			}
		}
		parent.Children = append(parent.Children, itemNode)
	}
}

func (builder *treeBuilder) blockNode(block ast.Node) *Node {
	var content string
	if isTextual(block) {
		content = builder.renderInline(block)
	} else {
		if fenced, isFenced := block.(*ast.FencedCodeBlock); isFenced && len(fenced.Language(builder.source)) > 0 {
			builder.features.add(FeatureHighlight)
		}
		content = builder.renderBlock(block)
	}
	if content == "" {
		return nil
	}
	return &Node{Content: content, Payload: builder.payload(blockTag(block), block)}
}

func (builder *treeBuilder) renderInline(block ast.Node) string {
	if block.Type() == ast.TypeBlock && mathPattern.Match(builder.blockText(block)) {
		builder.features.add(FeatureMath)
	}
	var buffer bytes.Buffer
	for child := block.FirstChild(); child != nil; child = child.NextSibling() {
		if checkBox, isCheckBox := child.(*extensionast.TaskCheckBox); isCheckBox {
			builder.features.add(FeatureCheckbox)
			if checkBox.IsChecked {
				buffer.WriteString(checkedBoxMarkup)
			} else {
				buffer.WriteString(uncheckedBoxMarkup)
			}
			continue
		}
		if err := builder.renderer.Render(&buffer, builder.source, child); err != nil && builder.err == nil {
			builder.err = err
		}
	}
	return strings.TrimSpace(buffer.String())
}

func (builder *treeBuilder) renderBlock(block ast.Node) string {
	var buffer bytes.Buffer
	if err := builder.renderer.Render(&buffer, builder.source, block); err != nil && builder.err == nil {
		builder.err = err
	}
	return strings.TrimSpace(buffer.String())
}

func (builder *treeBuilder) blockText(block ast.Node) []byte {
	var buffer bytes.Buffer
	lines := block.Lines()
	for lineIndex := 0; lineIndex < lines.Len(); lineIndex++ {
		segment := lines.At(lineIndex)
		buffer.Write(segment.Value(builder.source))
	}
	return buffer.Bytes()
}

func (builder *treeBuilder) payload(tag string, node ast.Node) map[string]any {
	payload := map[string]any{payloadTagKey: tag}
	start, stop := -1, -1
	_ = ast.Walk(node, func(current ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || current.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := current.Lines()
		for lineIndex := 0; lineIndex < lines.Len(); lineIndex++ {
			segment := lines.At(lineIndex)
			if start < 0 || segment.Start < start {
				start = segment.Start
			}
			if segment.Stop > stop {
				stop = segment.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	if start >= 0 {
		firstLine := builder.lineOf(start)
		lastLine := builder.lineOf(stop - 1)
		if stop <= start {
			lastLine = firstLine
		}
		payload[payloadLinesKey] = fmt.Sprintf(linesFormat, firstLine+builder.lineOffset, lastLine+1+builder.lineOffset)
	}
	return payload
}

func (builder *treeBuilder) lineOf(offset int) int {
	return sort.SearchInts(builder.lineStarts, offset+1) - 1
}

func computeLineStarts(source []byte) []int {
	starts := []int{0}
	for index, character := range source {
		if character == '\n' {
			starts = append(starts, index+1)
		}
	}
	return starts
}

func isTextual(node ast.Node) bool {
	return node.Kind() == ast.KindParagraph || node.Kind() == ast.KindTextBlock
}

func blockTag(block ast.Node) string {
	switch block.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		return "p"
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		return "pre"
	case ast.KindBlockquote:
		return "blockquote"
	case ast.KindHTMLBlock:
		return "html"
	case extensionast.KindTable:
		return "table"
	default:
		return strings.ToLower(block.Kind().String())
	}
}
