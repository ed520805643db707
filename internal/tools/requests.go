package tools

import "github.com/temirov/mindmap/internal/types"

// GenerateRequest is the input of markmap_generate.
type GenerateRequest struct {
	MarkdownContent string           `json:"markdown_content" jsonschema:"Markdown text to convert to mindmap"`
	Options         *types.OptionSet `json:"options,omitempty" jsonschema:"Markmap rendering options"`
}

// GenerateOutput is the payload of a successful markmap_generate call.
type GenerateOutput struct {
	SVGContent   string   `json:"svg_content" yaml:"svg_content"`
	NodeCount    int      `json:"node_count" yaml:"node_count"`
	Depth        int      `json:"depth" yaml:"depth"`
	FeaturesUsed []string `json:"features_used" yaml:"features_used"`
}

// FromOutlineRequest is the input of markmap_from_outline.
type FromOutlineRequest struct {
	OutlineItems []types.OutlineItem `json:"outline_items" jsonschema:"Array of outline items with text and level"`
	Options      *types.OptionSet    `json:"options,omitempty" jsonschema:"Markmap rendering options"`
}

// FromOutlineOutput is the payload of a successful markmap_from_outline call.
type FromOutlineOutput struct {
	SVGContent        string   `json:"svg_content" yaml:"svg_content"`
	MarkdownGenerated string   `json:"markdown_generated" yaml:"markdown_generated"`
	NodeCount         int      `json:"node_count" yaml:"node_count"`
	Depth             int      `json:"depth" yaml:"depth"`
	FeaturesUsed      []string `json:"features_used" yaml:"features_used"`
}

// GetStructureRequest is the input of markmap_get_structure.
type GetStructureRequest struct {
	MarkdownContent string `json:"markdown_content" jsonschema:"Markdown text to analyze"`
	IncludeContent  *bool  `json:"include_content,omitempty" jsonschema:"Include full text content in hierarchy (default: true)"`
	CountTokens     bool   `json:"count_tokens,omitempty" jsonschema:"Estimate the token count of the document"`
}

// StructureStatistics is the statistics block of a structure payload.
type StructureStatistics struct {
	HeadingsByLevel   map[int]int `json:"headings_by_level" yaml:"headings_by_level"`
	TotalCharacters   int         `json:"total_characters" yaml:"total_characters"`
	AverageNodeLength int         `json:"average_node_length" yaml:"average_node_length"`
	TotalTokens       *int        `json:"total_tokens,omitempty" yaml:"total_tokens,omitempty"`
}

// StructureOutput is the payload of a successful markmap_get_structure call.
type StructureOutput struct {
	Hierarchy        *types.Node         `json:"hierarchy" yaml:"hierarchy"`
	NodeCount        int                 `json:"node_count" yaml:"node_count"`
	MaxDepth         int                 `json:"max_depth" yaml:"max_depth"`
	FeaturesDetected []string            `json:"features_detected" yaml:"features_detected"`
	Statistics       StructureStatistics `json:"statistics" yaml:"statistics"`
}

// RenderFileRequest is the input of markmap_render_file.
type RenderFileRequest struct {
	FilePath   string           `json:"file_path" jsonschema:"Path to Markdown file (.md or .markdown)"`
	Options    *types.OptionSet `json:"options,omitempty" jsonschema:"Markmap rendering options"`
	SaveOutput bool             `json:"save_output,omitempty" jsonschema:"Save SVG to file (default: false)"`
	OutputPath string           `json:"output_path,omitempty" jsonschema:"Output file path (defaults to the input path with an .svg extension)"`
}

// RenderFileOutput is the payload of a successful markmap_render_file call.
type RenderFileOutput struct {
	SVGContent   string   `json:"svg_content" yaml:"svg_content"`
	FilePath     string   `json:"file_path" yaml:"file_path"`
	SavedPath    string   `json:"saved_path,omitempty" yaml:"saved_path,omitempty"`
	NodeCount    int      `json:"node_count" yaml:"node_count"`
	Depth        int      `json:"depth" yaml:"depth"`
	FeaturesUsed []string `json:"features_used" yaml:"features_used"`
	FileSizeKB   float64  `json:"file_size_kb" yaml:"file_size_kb"`
}

// CustomizeRequest is the input of markmap_customize.
type CustomizeRequest struct {
	MarkdownContent string           `json:"markdown_content" jsonschema:"Markdown text to convert"`
	Theme           string           `json:"theme,omitempty" jsonschema:"Color theme to apply: default, dark, colorful or minimal"`
	ColorScheme     []string         `json:"color_scheme,omitempty" jsonschema:"Custom color palette as #RRGGBB hex colors"`
	Options         *types.OptionSet `json:"options,omitempty" jsonschema:"Additional markmap options"`
}

// CustomizationSummary records which customizations a customize call applied.
type CustomizationSummary struct {
	Theme         string   `json:"theme" yaml:"theme"`
	CustomColors  bool     `json:"custom_colors" yaml:"custom_colors"`
	CustomOptions []string `json:"custom_options" yaml:"custom_options"`
}

// CustomizeOutput is the payload of a successful markmap_customize call.
type CustomizeOutput struct {
	SVGContent           string               `json:"svg_content" yaml:"svg_content"`
	ThemeApplied         string               `json:"theme_applied" yaml:"theme_applied"`
	ColorsUsed           []string             `json:"colors_used" yaml:"colors_used"`
	NodeCount            int                  `json:"node_count" yaml:"node_count"`
	CustomizationSummary CustomizationSummary `json:"customization_summary" yaml:"customization_summary"`
}
