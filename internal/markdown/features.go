package markdown

import "sort"

const (
	// FeatureHighlight marks fenced code blocks with a language.
	FeatureHighlight = "hljs"
	// FeatureMath marks inline or display TeX math.
	FeatureMath = "katex"
	// FeatureCheckbox marks task list items.
	FeatureCheckbox = "checkbox"
	// FeatureFrontmatter marks a leading YAML block.
	FeatureFrontmatter = "frontmatter"

	highlightStylesheet = `@import url("https://cdn.jsdelivr.net/npm/highlight.js@11.8.0/styles/default.min.css");`
	mathStylesheet      = `@import url("https://cdn.jsdelivr.net/npm/katex@0.16.8/dist/katex.min.css");`
	mathScript          = "https://cdn.jsdelivr.net/npm/katex@0.16.8/dist/katex.min.js"
	checkboxStylesheet  = ".markmap-checkbox{font-family:monospace;margin-right:0.25em}"
)

// Features is the set of constructs detected in a document.
type Features map[string]struct{}

func (features Features) add(name string) {
	features[name] = struct{}{}
}

// Has reports whether the feature was detected.
func (features Features) Has(name string) bool {
	_, found := features[name]
	return found
}

// Names returns the detected features in lexical order.
func (features Features) Names() []string {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assets lists the extra styles and scripts the detected features need.
type Assets struct {
	Styles  []string
	Scripts []string
}

// UsedAssets maps detected features onto the assets a renderer should load.
func (transformer *Transformer) UsedAssets(features Features) Assets {
	var assets Assets
	if features.Has(FeatureHighlight) {
		assets.Styles = append(assets.Styles, highlightStylesheet)
	}
	if features.Has(FeatureMath) {
		assets.Styles = append(assets.Styles, mathStylesheet)
		assets.Scripts = append(assets.Scripts, mathScript)
	}
	if features.Has(FeatureCheckbox) {
		assets.Styles = append(assets.Styles, checkboxStylesheet)
	}
	return assets
}
