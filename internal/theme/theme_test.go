package theme_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/temirov/mindmap/internal/theme"
	"github.com/temirov/mindmap/internal/types"
)

func TestResolveLayersOptions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		theme    string
		explicit *types.OptionSet
		expected types.OptionSet
	}{
		{
			name:  "empty name uses default",
			theme: "",
			expected: types.OptionSet{
				ColorFreezeLevel: types.IntPointer(6),
				Duration:         types.IntPointer(500),
				MaxWidth:         types.IntPointer(0),
				Zoom:             types.BoolPointer(true),
				Pan:              types.BoolPointer(true),
			},
		},
		{
			name:     "explicit overrides minimal",
			theme:    "minimal",
			explicit: &types.OptionSet{Duration: types.IntPointer(50), FontSize: types.IntPointer(12)},
			expected: types.OptionSet{
				ColorFreezeLevel: types.IntPointer(8),
				Duration:         types.IntPointer(50),
				MaxWidth:         types.IntPointer(200),
				Zoom:             types.BoolPointer(false),
				Pan:              types.BoolPointer(false),
				FontSize:         types.IntPointer(12),
			},
		},
		{
			name:     "explicit false survives",
			theme:    "dark",
			explicit: &types.OptionSet{Zoom: types.BoolPointer(false)},
			expected: types.OptionSet{
				ColorFreezeLevel: types.IntPointer(4),
				Duration:         types.IntPointer(400),
				MaxWidth:         types.IntPointer(300),
				Zoom:             types.BoolPointer(false),
				Pan:              types.BoolPointer(true),
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			resolution, err := theme.Resolve(testCase.theme, testCase.explicit, nil)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if !reflect.DeepEqual(resolution.Options, testCase.expected) {
				t.Fatalf("unexpected options %+v", resolution.Options)
			}
		})
	}
}

func TestResolveMatchesKeyByKeyOverride(t *testing.T) {
	t.Parallel()

	explicit := types.OptionSet{MaxWidth: types.IntPointer(10), PaddingY: types.IntPointer(3)}
	for _, candidate := range theme.All() {
		resolution, err := theme.Resolve(string(candidate), &explicit, nil)
		if err != nil {
			t.Fatalf("resolve %s: %v", candidate, err)
		}
		expected := theme.Default.Options().Merge(candidate.Options()).Merge(explicit)
		if !reflect.DeepEqual(resolution.Options, expected) {
			t.Fatalf("%s: got %+v want %+v", candidate, resolution.Options, expected)
		}
		if !reflect.DeepEqual(resolution.Colors, candidate.Palette()) {
			t.Fatalf("%s: palette mismatch", candidate)
		}
	}
}

func TestResolveColors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		colors      []string
		expectError bool
	}{
		{name: "mixed case hex", colors: []string{"#1A2b3C"}},
		{name: "five digits", colors: []string{"#12345"}, expectError: true},
		{name: "missing hash", colors: []string{"123456"}, expectError: true},
		{name: "non hex", colors: []string{"#GGHHII"}, expectError: true},
		{name: "second invalid", colors: []string{"#000000", "#1234567"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			resolution, err := theme.Resolve("colorful", nil, testCase.colors)
			if testCase.expectError {
				var validationError theme.ValidationError
				if !errors.As(err, &validationError) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if !reflect.DeepEqual(resolution.Colors, testCase.colors) {
				t.Fatalf("explicit colors not used: %v", resolution.Colors)
			}
		})
	}
}

func TestResolveRejectsUnknownTheme(t *testing.T) {
	t.Parallel()

	_, err := theme.Resolve("neon", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	expected := "Invalid theme 'neon'. Valid themes: default, dark, colorful, minimal"
	if err.Error() != expected {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestPaletteFallsBackToDefault(t *testing.T) {
	t.Parallel()

	if palette := theme.Palette("unknown"); !reflect.DeepEqual(palette, theme.Default.Palette()) {
		t.Fatalf("unexpected palette %v", palette)
	}
	if len(theme.Palette("dark")) != 6 {
		t.Fatalf("palette must hold six colours")
	}
}
