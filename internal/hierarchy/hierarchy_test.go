package hierarchy_test

import (
	"fmt"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/temirov/mindmap/internal/hierarchy"
	"github.com/temirov/mindmap/internal/types"
)

type rawTestNode struct {
	content  string
	value    string
	children []types.RawNode
	payload  any
}

func (node *rawTestNode) ContentOrValue() string {
	if node.content != "" {
		return node.content
	}
	return node.value
}

func (node *rawTestNode) RawChildren() []types.RawNode {
	return node.children
}

func (node *rawTestNode) RawPayload() any {
	return node.payload
}

func raw(content string, children ...types.RawNode) *rawTestNode {
	return &rawTestNode{content: content, children: children}
}

func randomRawTree(generator *rand.Rand, depth int, maximumDepth int) *rawTestNode {
	node := raw(fmt.Sprintf("node-%d-%d", depth, generator.Intn(1000)))
	if depth >= maximumDepth {
		return node
	}
	childCount := generator.Intn(4)
	for index := 0; index < childCount; index++ {
		node.children = append(node.children, randomRawTree(generator, depth+1, maximumDepth))
	}
	return node
}

func TestNormalizeStampsDepthAndFallbacks(t *testing.T) {
	t.Parallel()

	payload := map[string]any{"tag": "h1"}
	source := &rawTestNode{
		content: "root",
		payload: payload,
		children: []types.RawNode{
			&rawTestNode{value: "from value"},
			&rawTestNode{children: []types.RawNode{raw("grandchild")}},
		},
	}

	root := hierarchy.Normalize(source)
	if root.Depth != 1 || root.Content != "root" {
		t.Fatalf("unexpected root %+v", root)
	}
	if fmt.Sprint(root.Payload) != fmt.Sprint(payload) {
		t.Fatalf("payload not copied: %v", root.Payload)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected two children, got %d", len(root.Children))
	}
	if root.Children[0].Content != "from value" || root.Children[0].Depth != 2 {
		t.Fatalf("unexpected first child %+v", root.Children[0])
	}
	if root.Children[0].Children != nil {
		t.Fatalf("leaf children must be nil")
	}
	if root.Children[1].Content != "" {
		t.Fatalf("expected empty content fallback, got %q", root.Children[1].Content)
	}
	if root.Children[1].Children[0].Depth != 3 {
		t.Fatalf("grandchild depth %d", root.Children[1].Children[0].Depth)
	}
}

func TestAnalyzeSingleNode(t *testing.T) {
	t.Parallel()

	statistics := hierarchy.Analyze(&types.Node{Content: "héllo", Depth: 3})
	if statistics.NodeCount != 1 || statistics.MaxDepth != 3 {
		t.Fatalf("unexpected statistics %+v", statistics)
	}
	if statistics.TotalCharacters != 5 || statistics.AverageNodeLength != 5 {
		t.Fatalf("character count must use runes: %+v", statistics)
	}
	if statistics.HeadingsByLevel[3] != 1 {
		t.Fatalf("unexpected headings %v", statistics.HeadingsByLevel)
	}
}

func TestAnalyzeUsesStampedDepth(t *testing.T) {
	t.Parallel()

	tree := &types.Node{
		Content: "ab",
		Depth:   4,
		Children: []*types.Node{
			{Content: "cde", Depth: 5},
			{Content: "f", Depth: 5, Children: []*types.Node{{Content: "", Depth: 6}}},
		},
	}
	statistics := hierarchy.Analyze(tree)
	if statistics.NodeCount != 4 || statistics.MaxDepth != 6 {
		t.Fatalf("unexpected statistics %+v", statistics)
	}
	expectedLevels := map[int]int{4: 1, 5: 2, 6: 1}
	for level, count := range expectedLevels {
		if statistics.HeadingsByLevel[level] != count {
			t.Fatalf("level %d: got %d want %d", level, statistics.HeadingsByLevel[level], count)
		}
	}
	if statistics.TotalCharacters != 6 {
		t.Fatalf("total characters %d", statistics.TotalCharacters)
	}
	if statistics.AverageNodeLength != 2 {
		t.Fatalf("average %d", statistics.AverageNodeLength)
	}
}

func TestAnalyzeRoundsAverage(t *testing.T) {
	t.Parallel()

	tree := &types.Node{Content: "abc", Depth: 1, Children: []*types.Node{{Content: "", Depth: 2}}}
	if average := hierarchy.Analyze(tree).AverageNodeLength; average != 2 {
		t.Fatalf("expected 1.5 to round to 2, got %d", average)
	}
}

func TestAnalyzeRecursionIdentities(t *testing.T) {
	t.Parallel()

	generator := rand.New(rand.NewSource(42))
	for iteration := 0; iteration < 50; iteration++ {
		tree := hierarchy.Normalize(randomRawTree(generator, 1, 6))
		statistics := hierarchy.Analyze(tree)

		childCount := 0
		childCharacters := 0
		for _, child := range tree.Children {
			childStatistics := hierarchy.Analyze(child)
			childCount += childStatistics.NodeCount
			childCharacters += childStatistics.TotalCharacters
		}
		if statistics.NodeCount != 1+childCount {
			t.Fatalf("iteration %d: node count %d != 1 + %d", iteration, statistics.NodeCount, childCount)
		}
		if statistics.TotalCharacters != utf8.RuneCountInString(tree.Content)+childCharacters {
			t.Fatalf("iteration %d: characters mismatch", iteration)
		}

		maximum := 0
		var walk func(node *types.Node)
		walk = func(node *types.Node) {
			if node.Depth > maximum {
				maximum = node.Depth
			}
			for _, child := range node.Children {
				walk(child)
			}
		}
		walk(tree)
		if statistics.MaxDepth != maximum {
			t.Fatalf("iteration %d: max depth %d want %d", iteration, statistics.MaxDepth, maximum)
		}
	}
}

func TestRawCountersAgreeWithAnalytics(t *testing.T) {
	t.Parallel()

	generator := rand.New(rand.NewSource(7))
	for iteration := 0; iteration < 50; iteration++ {
		source := randomRawTree(generator, 1, 8)
		statistics := hierarchy.Analyze(hierarchy.Normalize(source))
		if count := hierarchy.CountNodes(source); count != statistics.NodeCount {
			t.Fatalf("iteration %d: CountNodes %d != NodeCount %d", iteration, count, statistics.NodeCount)
		}
		if depth := hierarchy.CalculateDepth(source, 1); depth != statistics.MaxDepth-hierarchy.RootDepth+1 {
			t.Fatalf("iteration %d: CalculateDepth %d != MaxDepth %d", iteration, depth, statistics.MaxDepth)
		}
	}
}

func TestCalculateDepthHonoursStartDepth(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		tree       *rawTestNode
		startDepth int
		expected   int
	}{
		{name: "leaf", tree: raw("x"), startDepth: 1, expected: 1},
		{name: "leaf with offset", tree: raw("x"), startDepth: 3, expected: 3},
		{name: "uneven branches", tree: raw("r", raw("a"), raw("b", raw("c", raw("d")))), startDepth: 1, expected: 4},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if depth := hierarchy.CalculateDepth(testCase.tree, testCase.startDepth); depth != testCase.expected {
				t.Fatalf("got %d want %d", depth, testCase.expected)
			}
		})
	}
}
