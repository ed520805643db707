// Package theme resolves named themes, explicit options and colour lists into
// the final option set and palette used for rendering.
package theme

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/temirov/mindmap/internal/types"
)

// Theme is one of the built-in visual styles.
type Theme string

const (
	Default  Theme = "default"
	Dark     Theme = "dark"
	Colorful Theme = "colorful"
	Minimal  Theme = "minimal"

	invalidThemeFormat = "Invalid theme '%s'. Valid themes: %s"
	invalidColorFormat = "Invalid hex color at index %d: '%s'. Use format #RRGGBB"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type definition struct {
	options types.OptionSet
	palette []string
}

var definitions = map[Theme]definition{
	Default: {
		options: types.OptionSet{
			ColorFreezeLevel: types.IntPointer(6),
			Duration:         types.IntPointer(500),
			MaxWidth:         types.IntPointer(0),
			Zoom:             types.BoolPointer(true),
			Pan:              types.BoolPointer(true),
		},
		palette: []string{"#4285f4", "#ea4335", "#fbbc04", "#34a853", "#ff6d01", "#46bdc6"},
	},
	Dark: {
		options: types.OptionSet{
			ColorFreezeLevel: types.IntPointer(4),
			Duration:         types.IntPointer(400),
			MaxWidth:         types.IntPointer(300),
			Zoom:             types.BoolPointer(true),
			Pan:              types.BoolPointer(true),
		},
		palette: []string{"#bb86fc", "#03dac6", "#cf6679", "#3700b3", "#018786", "#b00020"},
	},
	Colorful: {
		options: types.OptionSet{
			ColorFreezeLevel: types.IntPointer(2),
			Duration:         types.IntPointer(600),
			MaxWidth:         types.IntPointer(0),
			Zoom:             types.BoolPointer(true),
			Pan:              types.BoolPointer(true),
		},
		palette: []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8", "#F7DC6F"},
	},
	Minimal: {
		options: types.OptionSet{
			ColorFreezeLevel: types.IntPointer(8),
			Duration:         types.IntPointer(300),
			MaxWidth:         types.IntPointer(200),
			Zoom:             types.BoolPointer(false),
			Pan:              types.BoolPointer(false),
		},
		palette: []string{"#333333", "#666666", "#999999", "#CCCCCC", "#555555", "#777777"},
	},
}

// All lists the themes in presentation order.
func All() []Theme {
	return []Theme{Default, Dark, Colorful, Minimal}
}

// Names lists the theme names in presentation order.
func Names() []string {
	themes := All()
	names := make([]string, 0, len(themes))
	for _, theme := range themes {
		names = append(names, string(theme))
	}
	return names
}

// ValidationError reports an unknown theme or a malformed colour.
type ValidationError struct {
	Message string
}

func (validationError ValidationError) Error() string {
	return validationError.Message
}

// Parse maps a theme name onto the enumeration. An empty name selects Default.
func Parse(name string) (Theme, error) {
	if name == "" {
		return Default, nil
	}
	candidate := Theme(name)
	if _, known := definitions[candidate]; !known {
		return "", ValidationError{Message: fmt.Sprintf(invalidThemeFormat, name, strings.Join(Names(), ", "))}
	}
	return candidate, nil
}

// Options returns a copy of the theme's complete option set.
func (theme Theme) Options() types.OptionSet {
	return types.OptionSet{}.Merge(definitions[theme].options)
}

// Palette returns a copy of the theme's six colours.
func (theme Theme) Palette() []string {
	return append([]string{}, definitions[theme].palette...)
}

// Palette returns the palette of the named theme, falling back to Default.
func Palette(name string) []string {
	theme, err := Parse(name)
	if err != nil {
		theme = Default
	}
	return theme.Palette()
}

// ValidateColors checks every colour against the #RRGGBB pattern.
func ValidateColors(colors []string) error {
	for colorIndex, color := range colors {
		if !hexColorPattern.MatchString(color) {
			return ValidationError{Message: fmt.Sprintf(invalidColorFormat, colorIndex, color)}
		}
	}
	return nil
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Theme   Theme
	Options types.OptionSet
	Colors  []string
}

// Resolve layers the default theme, the named theme and the explicit options
// key by key, and picks explicit colours over the theme palette.
func Resolve(name string, explicit *types.OptionSet, colors []string) (Resolution, error) {
	theme, parseErr := Parse(name)
	if parseErr != nil {
		return Resolution{}, parseErr
	}
	if colors != nil {
		if colorErr := ValidateColors(colors); colorErr != nil {
			return Resolution{}, colorErr
		}
	}
	merged := Default.Options().Merge(theme.Options())
	if explicit != nil {
		merged = merged.Merge(*explicit)
	}
	resolvedColors := theme.Palette()
	if colors != nil {
		resolvedColors = append([]string{}, colors...)
	}
	return Resolution{Theme: theme, Options: merged, Colors: resolvedColors}, nil
}
