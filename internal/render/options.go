package render

import "github.com/temirov/mindmap/internal/types"

const (
	defaultColorFreezeLevel = 6
	defaultDuration         = 500
	defaultMaxWidth         = 0
	defaultFontSize         = 16
	defaultSpacing          = 80
	defaultPaddingX         = 8
	defaultPaddingY         = 5
)

// Options is the complete, normalized set of layout parameters.
type Options struct {
	ColorFreezeLevel int
	Duration         int
	MaxWidth         int
	Zoom             bool
	Pan              bool
	FontSize         int
	Spacing          int
	PaddingX         int
	PaddingY         int
}

// DeriveOptions fills every absent knob with the renderer default.
func DeriveOptions(options types.OptionSet) Options {
	derived := Options{
		ColorFreezeLevel: defaultColorFreezeLevel,
		Duration:         defaultDuration,
		MaxWidth:         defaultMaxWidth,
		Zoom:             true,
		Pan:              true,
		FontSize:         defaultFontSize,
		Spacing:          defaultSpacing,
		PaddingX:         defaultPaddingX,
		PaddingY:         defaultPaddingY,
	}
	if options.ColorFreezeLevel != nil {
		derived.ColorFreezeLevel = *options.ColorFreezeLevel
	}
	if options.Duration != nil {
		derived.Duration = *options.Duration
	}
	if options.MaxWidth != nil && *options.MaxWidth >= 0 {
		derived.MaxWidth = *options.MaxWidth
	}
	if options.Zoom != nil {
		derived.Zoom = *options.Zoom
	}
	if options.Pan != nil {
		derived.Pan = *options.Pan
	}
	if options.FontSize != nil && *options.FontSize > 0 {
		derived.FontSize = *options.FontSize
	}
	if options.Spacing != nil && *options.Spacing >= 0 {
		derived.Spacing = *options.Spacing
	}
	if options.PaddingX != nil && *options.PaddingX >= 0 {
		derived.PaddingX = *options.PaddingX
	}
	if options.PaddingY != nil && *options.PaddingY >= 0 {
		derived.PaddingY = *options.PaddingY
	}
	return derived
}
