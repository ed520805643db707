// Package outline converts flat (text, level) outlines into heading documents.
package outline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/mindmap/internal/types"
)

const (
	headingMarker   = "#"
	blockSeparator  = "\n\n"
	minimumLevel    = 1
	maximumLevel    = 6
	emptyTextFormat = "Outline item %d has empty text"
	badLevelFormat  = "Outline item %d has invalid level (must be 1-6)"
)

// ErrEmptyOutline reports an outline without items.
var ErrEmptyOutline = errors.New("Outline items cannot be empty")

// ItemError describes an invalid outline item. Index is 1-based.
type ItemError struct {
	Index  int
	format string
}

func (itemError ItemError) Error() string {
	return fmt.Sprintf(itemError.format, itemError.Index)
}

// Validate checks every item without building the document.
func Validate(items []types.OutlineItem) error {
	if len(items) == 0 {
		return ErrEmptyOutline
	}
	for itemIndex, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			return ItemError{Index: itemIndex + 1, format: emptyTextFormat}
		}
		if item.Level < minimumLevel || item.Level > maximumLevel {
			return ItemError{Index: itemIndex + 1, format: badLevelFormat}
		}
	}
	return nil
}

// Assemble maps each item to a heading of its level and joins them with blank
// lines. Level jumps are kept as-is; no intermediate headings are synthesized.
func Assemble(items []types.OutlineItem) (string, error) {
	if validationError := Validate(items); validationError != nil {
		return "", validationError
	}
	headings := make([]string, 0, len(items))
	for _, item := range items {
		headings = append(headings, strings.Repeat(headingMarker, item.Level)+" "+item.Text)
	}
	return strings.Join(headings, blockSeparator), nil
}
