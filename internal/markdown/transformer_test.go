package markdown_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/mindmap/internal/hierarchy"
	"github.com/temirov/mindmap/internal/markdown"
)

func contents(nodes []*markdown.Node) []string {
	values := make([]string, 0, len(nodes))
	for _, node := range nodes {
		values = append(values, node.Content)
	}
	return values
}

func TestTransformHoistsSingleTopHeading(t *testing.T) {
	t.Parallel()

	result, err := markdown.NewTransformer().Transform(context.Background(), "# A\n\n## B")
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if result.Root.Content != "A" {
		t.Fatalf("expected hoisted root A, got %q", result.Root.Content)
	}
	if got := contents(result.Root.Children); !reflect.DeepEqual(got, []string{"B"}) {
		t.Fatalf("unexpected children %v", got)
	}
	if count := hierarchy.CountNodes(result.Root); count != 2 {
		t.Fatalf("expected 2 nodes, got %d", count)
	}
	if tag := result.Root.Payload["tag"]; tag != "h1" {
		t.Fatalf("unexpected tag %v", tag)
	}
	if lines := result.Root.Children[0].Payload["lines"]; lines != "2,3" {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestTransformKeepsContainerForSiblings(t *testing.T) {
	t.Parallel()

	result, err := markdown.NewTransformer().Transform(context.Background(), "# One\n# Two\n## Two.a\n### deep\n## Two.b\n")
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if result.Root.Content != "" {
		t.Fatalf("expected synthetic root, got %q", result.Root.Content)
	}
	if got := contents(result.Root.Children); !reflect.DeepEqual(got, []string{"One", "Two"}) {
		t.Fatalf("unexpected top level %v", got)
	}
	second := result.Root.Children[1]
	if got := contents(second.Children); !reflect.DeepEqual(got, []string{"Two.a", "Two.b"}) {
		t.Fatalf("unexpected nesting %v", got)
	}
	if depth := hierarchy.CalculateDepth(result.Root, 1); depth != 4 {
		t.Fatalf("unexpected depth %d", depth)
	}
}

func TestTransformNestsListsAndBlocks(t *testing.T) {
	t.Parallel()

	document := strings.Join([]string{
		"# Plan",
		"",
		"Intro with **bold**.",
		"",
		"- first",
		"  - nested",
		"- [x] done",
		"- [ ] todo",
		"",
		"```go",
		"fmt.Println(1)",
		"```",
		"",
		"Euler: $e^{i\\pi}+1=0$",
	}, "\n")
	result, err := markdown.NewTransformer().Transform(context.Background(), document)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	root := result.Root
	if root.Content != "Plan" {
		t.Fatalf("unexpected root %q", root.Content)
	}
	if len(root.Children) != 6 {
		t.Fatalf("expected 6 children, got %v", contents(root.Children))
	}
	if root.Children[0].Content != "Intro with <strong>bold</strong>." {
		t.Fatalf("unexpected paragraph %q", root.Children[0].Content)
	}
	if root.Children[1].Content != "first" || root.Children[1].Children[0].Content != "nested" {
		t.Fatalf("unexpected list nesting %+v", root.Children[1])
	}
	if !strings.Contains(root.Children[2].Content, "&#9745;") || !strings.HasSuffix(root.Children[2].Content, "done") {
		t.Fatalf("unexpected checked item %q", root.Children[2].Content)
	}
	if !strings.Contains(root.Children[3].Content, "&#9744;") {
		t.Fatalf("unexpected unchecked item %q", root.Children[3].Content)
	}
	if !strings.HasPrefix(root.Children[4].Content, "<pre>") || root.Children[4].Payload["tag"] != "pre" {
		t.Fatalf("unexpected code block %+v", root.Children[4])
	}
	expectedFeatures := []string{markdown.FeatureCheckbox, markdown.FeatureHighlight, markdown.FeatureMath}
	if names := result.Features.Names(); !reflect.DeepEqual(names, expectedFeatures) {
		t.Fatalf("unexpected features %v", names)
	}
}

func TestTransformFrontmatter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		document     string
		expectedRoot string
		expectError  bool
	}{
		{
			name:         "title names synthetic root",
			document:     "---\ntitle: Roadmap\n---\n# Q1\n# Q2\n",
			expectedRoot: "Roadmap",
		},
		{
			name:         "single heading wins over title",
			document:     "---\ntitle: Roadmap\n---\n# Only\n",
			expectedRoot: "Only",
		},
		{
			name:        "invalid yaml",
			document:    "---\ntitle: [unclosed\n---\n# A\n",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			result, err := markdown.NewTransformer().Transform(context.Background(), testCase.document)
			if testCase.expectError {
				if err == nil || !strings.HasPrefix(err.Error(), "Failed to parse markdown") {
					t.Fatalf("expected parse failure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("transform: %v", err)
			}
			if result.Root.Content != testCase.expectedRoot {
				t.Fatalf("unexpected root %q", result.Root.Content)
			}
			if !result.Features.Has(markdown.FeatureFrontmatter) {
				t.Fatalf("frontmatter feature missing")
			}
		})
	}
}

func TestTransformKeepsRawHTML(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		document        string
		expectedContent []string
	}{
		{name: "html block", document: "<div>raw</div>", expectedContent: []string{"<div>raw</div>"}},
		{name: "inline html in heading", document: "# A <b>bold</b>", expectedContent: []string{"A <b>bold</b>"}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			result, err := markdown.NewTransformer().Transform(context.Background(), testCase.document)
			if err != nil {
				t.Fatalf("transform: %v", err)
			}
			if strings.Contains(result.Root.Content, "raw HTML omitted") {
				t.Fatalf("raw html was dropped: %q", result.Root.Content)
			}
			for _, fragment := range testCase.expectedContent {
				if !strings.Contains(result.Root.Content, fragment) {
					t.Fatalf("expected %q in root content %q", fragment, result.Root.Content)
				}
			}
		})
	}
}

func TestNodeSkipsNilChildren(t *testing.T) {
	t.Parallel()

	var missing *markdown.Node
	root := &markdown.Node{Content: "A", Children: []*markdown.Node{nil, {Content: "B", Children: []*markdown.Node{missing}}}}

	if count := hierarchy.CountNodes(root); count != 2 {
		t.Fatalf("expected 2 nodes, got %d", count)
	}
	if depth := hierarchy.CalculateDepth(root, 1); depth != 2 {
		t.Fatalf("expected depth 2, got %d", depth)
	}
	normalized := hierarchy.Normalize(root)
	if len(normalized.Children) != 1 || normalized.Children[0].Content != "B" || normalized.Children[0].Children != nil {
		t.Fatalf("unexpected normalized tree %+v", normalized)
	}
	if missing.ContentOrValue() != "" || missing.RawChildren() != nil || missing.RawPayload() != nil {
		t.Fatal("nil node must read as an empty leaf")
	}
}

func TestTransformRejectsBlankContent(t *testing.T) {
	t.Parallel()

	_, err := markdown.NewTransformer().Transform(context.Background(), " \n\t ")
	if !errors.Is(err, markdown.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestUsedAssets(t *testing.T) {
	t.Parallel()

	transformer := markdown.NewTransformer()
	none := transformer.UsedAssets(markdown.Features{})
	if len(none.Styles) != 0 || len(none.Scripts) != 0 {
		t.Fatalf("expected no assets, got %+v", none)
	}
	math := transformer.UsedAssets(markdown.Features{markdown.FeatureMath: {}})
	if len(math.Styles) != 1 || len(math.Scripts) != 1 {
		t.Fatalf("unexpected math assets %+v", math)
	}
}
