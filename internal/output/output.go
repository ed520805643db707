// Package output renders tool payloads for the command line in JSON, YAML or a
// raw tree layout.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/mindmap/internal/tools"
	"github.com/temirov/mindmap/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	emptyContentLabel     = "(empty)"
	statisticsLineFormat  = "Nodes: %d | Max depth: %d | Characters: %d | Average length: %d\n"
	headingsLinePrefix    = "Nodes by level:"
	headingsEntryFormat   = " %d=%d"
	featuresLinePrefix    = "Features: "
	tokensLineFormat      = "Tokens: %d\n"
	noFeaturesLabel       = "(none)"
	unsupportedFormatText = "unsupported output format %q"
)

// RenderJSON marshals value as indented JSON.
func RenderJSON(value any) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderYAML marshals value as YAML.
func RenderYAML(value any) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeErr := encoder.Encode(value); encodeErr != nil {
		return "", encodeErr
	}
	if closeErr := encoder.Close(); closeErr != nil {
		return "", closeErr
	}
	return buffer.String(), nil
}

// RenderStructure formats a structure payload in the requested format.
func RenderStructure(format string, structure tools.StructureOutput) (string, error) {
	switch format {
	case types.FormatJSON:
		return RenderJSON(structure)
	case types.FormatYAML:
		return RenderYAML(structure)
	case types.FormatRaw:
		var buffer bytes.Buffer
		WriteStructureRaw(&buffer, structure)
		return buffer.String(), nil
	default:
		return "", fmt.Errorf(unsupportedFormatText, format)
	}
}

// WriteStructureRaw writes the hierarchy as a connector tree followed by the
// statistics block.
func WriteStructureRaw(writer io.Writer, structure tools.StructureOutput) {
	WriteTreeRaw(writer, structure.Hierarchy)
	fmt.Fprintln(writer)
	statistics := structure.Statistics
	fmt.Fprintf(writer, statisticsLineFormat, structure.NodeCount, structure.MaxDepth, statistics.TotalCharacters, statistics.AverageNodeLength)

	levels := make([]int, 0, len(statistics.HeadingsByLevel))
	for level := range statistics.HeadingsByLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	fmt.Fprint(writer, headingsLinePrefix)
	for _, level := range levels {
		fmt.Fprintf(writer, headingsEntryFormat, level, statistics.HeadingsByLevel[level])
	}
	fmt.Fprintln(writer)

	features := noFeaturesLabel
	if len(structure.FeaturesDetected) > 0 {
		features = strings.Join(structure.FeaturesDetected, ", ")
	}
	fmt.Fprintln(writer, featuresLinePrefix+features)
	if statistics.TotalTokens != nil {
		fmt.Fprintf(writer, tokensLineFormat, *statistics.TotalTokens)
	}
}

// WriteTreeRaw renders a node tree with box-drawing connectors.
func WriteTreeRaw(writer io.Writer, root *types.Node) {
	renderTreeNode(writer, root, "", true, true)
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.Node, prefix string, isRoot bool, isLast bool) {
	if node == nil {
		return
	}
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	fmt.Fprintf(writer, "%s%s\n", linePrefix, nodeLabel(node))
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1)
	}
}

func nodeLabel(node *types.Node) string {
	label := strings.Join(strings.Fields(node.Content), " ")
	if label == "" {
		return emptyContentLabel
	}
	return label
}
