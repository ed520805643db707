package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	frontmatterDelimiter = "---"
	frontmatterTitleKey  = "title"
)

// frontmatter is the leading YAML block of a document.
type frontmatter struct {
	values    map[string]any
	lineCount int
}

func (matter frontmatter) title() string {
	if matter.values == nil {
		return ""
	}
	title, _ := matter.values[frontmatterTitleKey].(string)
	return strings.TrimSpace(title)
}

// splitFrontmatter separates a leading "---" delimited YAML block from the
// body. Documents without a closed block are returned unchanged.
func splitFrontmatter(document string) (frontmatter, string, bool, error) {
	normalized := strings.ReplaceAll(document, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return frontmatter{}, document, false, nil
	}
	closingIndex := -1
	for lineIndex := 1; lineIndex < len(lines); lineIndex++ {
		if strings.TrimSpace(lines[lineIndex]) == frontmatterDelimiter {
			closingIndex = lineIndex
			break
		}
	}
	if closingIndex < 0 {
		return frontmatter{}, document, false, nil
	}
	values := map[string]any{}
	block := strings.Join(lines[1:closingIndex], "\n")
	if strings.TrimSpace(block) != "" {
		if err := yaml.Unmarshal([]byte(block), &values); err != nil {
			return frontmatter{}, "", false, fmt.Errorf("frontmatter: %w", err)
		}
	}
	body := strings.Join(lines[closingIndex+1:], "\n")
	return frontmatter{values: values, lineCount: closingIndex + 1}, body, true, nil
}
