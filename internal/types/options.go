package types

const (
	OptionColorFreezeLevel = "colorFreezeLevel"
	OptionDuration         = "duration"
	OptionMaxWidth         = "maxWidth"
	OptionZoom             = "zoom"
	OptionPan              = "pan"
	OptionFontSize         = "fontSize"
	OptionSpacing          = "spacing"
	OptionPaddingX         = "paddingX"
	OptionPaddingY         = "paddingY"
)

// OptionSet is a sparse record of rendering knobs. A nil field means
// "use the active theme's value".
type OptionSet struct {
	ColorFreezeLevel *int  `json:"colorFreezeLevel,omitempty" yaml:"colorFreezeLevel,omitempty" mapstructure:"colorFreezeLevel" jsonschema:"Freeze colors at this level (default: 6)"`
	Duration         *int  `json:"duration,omitempty" yaml:"duration,omitempty" mapstructure:"duration" jsonschema:"Animation duration in ms (default: 500)"`
	MaxWidth         *int  `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty" mapstructure:"maxWidth" jsonschema:"Maximum width of node text (default: 0 for unlimited)"`
	Zoom             *bool `json:"zoom,omitempty" yaml:"zoom,omitempty" mapstructure:"zoom" jsonschema:"Enable zoom interaction (default: true)"`
	Pan              *bool `json:"pan,omitempty" yaml:"pan,omitempty" mapstructure:"pan" jsonschema:"Enable pan interaction (default: true)"`
	FontSize         *int  `json:"fontSize,omitempty" yaml:"fontSize,omitempty" mapstructure:"fontSize" jsonschema:"Base font size in pixels"`
	Spacing          *int  `json:"spacing,omitempty" yaml:"spacing,omitempty" mapstructure:"spacing" jsonschema:"Spacing between nodes"`
	PaddingX         *int  `json:"paddingX,omitempty" yaml:"paddingX,omitempty" mapstructure:"paddingX" jsonschema:"Horizontal padding"`
	PaddingY         *int  `json:"paddingY,omitempty" yaml:"paddingY,omitempty" mapstructure:"paddingY" jsonschema:"Vertical padding"`
}

// Merge overlays override onto the receiver key by key and returns the result.
func (options OptionSet) Merge(override OptionSet) OptionSet {
	result := options
	if override.ColorFreezeLevel != nil {
		result.ColorFreezeLevel = cloneInt(override.ColorFreezeLevel)
	}
	if override.Duration != nil {
		result.Duration = cloneInt(override.Duration)
	}
	if override.MaxWidth != nil {
		result.MaxWidth = cloneInt(override.MaxWidth)
	}
	if override.Zoom != nil {
		result.Zoom = cloneBool(override.Zoom)
	}
	if override.Pan != nil {
		result.Pan = cloneBool(override.Pan)
	}
	if override.FontSize != nil {
		result.FontSize = cloneInt(override.FontSize)
	}
	if override.Spacing != nil {
		result.Spacing = cloneInt(override.Spacing)
	}
	if override.PaddingX != nil {
		result.PaddingX = cloneInt(override.PaddingX)
	}
	if override.PaddingY != nil {
		result.PaddingY = cloneInt(override.PaddingY)
	}
	return result
}

// SetKeys lists the option names that are present, in declaration order.
func (options OptionSet) SetKeys() []string {
	keys := []string{}
	if options.ColorFreezeLevel != nil {
		keys = append(keys, OptionColorFreezeLevel)
	}
	if options.Duration != nil {
		keys = append(keys, OptionDuration)
	}
	if options.MaxWidth != nil {
		keys = append(keys, OptionMaxWidth)
	}
	if options.Zoom != nil {
		keys = append(keys, OptionZoom)
	}
	if options.Pan != nil {
		keys = append(keys, OptionPan)
	}
	if options.FontSize != nil {
		keys = append(keys, OptionFontSize)
	}
	if options.Spacing != nil {
		keys = append(keys, OptionSpacing)
	}
	if options.PaddingX != nil {
		keys = append(keys, OptionPaddingX)
	}
	if options.PaddingY != nil {
		keys = append(keys, OptionPaddingY)
	}
	return keys
}

// IntPointer returns a pointer to a copy of value.
func IntPointer(value int) *int {
	return &value
}

// BoolPointer returns a pointer to a copy of value.
func BoolPointer(value bool) *bool {
	return &value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
