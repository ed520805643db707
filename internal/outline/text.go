package outline

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/mindmap/internal/types"
)

const (
	levelSeparator      = "\t"
	spacesPerIndent     = 2
	unrecognizedFormat  = "line %d: expected \"<level><TAB><text>\" or a \"- \" bullet"
	invalidLevelFormat  = "line %d: level %q is not a number"
	scanOutlineFailure  = "scan outline: %w"
	bulletMarkers       = "-*+"
	bulletMarkerSpacing = " "
)

// ParseText reads a plain-text outline. Each non-blank line is either
// "<level>\t<text>" or a "- ", "* " or "+ " bullet whose indentation (two
// spaces or one tab per level) gives its level. Levels are not range checked
// here; Validate reports them with the item index.
func ParseText(text string) ([]types.OutlineItem, error) {
	var items []types.OutlineItem
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), len(text)+1)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), " \r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		item, parseErr := parseLine(line, lineNumber)
		if parseErr != nil {
			return nil, parseErr
		}
		items = append(items, item)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf(scanOutlineFailure, scanErr)
	}
	return items, nil
}

func parseLine(line string, lineNumber int) (types.OutlineItem, error) {
	if levelText, itemText, found := strings.Cut(line, levelSeparator); found {
		trimmedLevel := strings.TrimSpace(levelText)
		if trimmedLevel != "" && !strings.ContainsAny(trimmedLevel[:1], bulletMarkers) {
			level, convertErr := strconv.Atoi(trimmedLevel)
			if convertErr != nil {
				return types.OutlineItem{}, fmt.Errorf(invalidLevelFormat, lineNumber, trimmedLevel)
			}
			return types.OutlineItem{Text: strings.TrimSpace(itemText), Level: level}, nil
		}
	}

	indentWidth := 0
	for index, character := range line {
		switch character {
		case ' ':
			indentWidth++
		case '\t':
			indentWidth += spacesPerIndent
		default:
			return parseBullet(line[index:], indentWidth, lineNumber)
		}
	}
	return types.OutlineItem{}, fmt.Errorf(unrecognizedFormat, lineNumber)
}

func parseBullet(body string, indentWidth int, lineNumber int) (types.OutlineItem, error) {
	if len(body) < 2 || !strings.ContainsRune(bulletMarkers, rune(body[0])) || !strings.HasPrefix(body[1:], bulletMarkerSpacing) {
		return types.OutlineItem{}, fmt.Errorf(unrecognizedFormat, lineNumber)
	}
	return types.OutlineItem{
		Text:  strings.TrimSpace(body[2:]),
		Level: indentWidth/spacesPerIndent + minimumLevel,
	}, nil
}
