package tokenizer

import (
	"testing"
)

type testCounter struct {
	calls int
}

func (*testCounter) Name() string { return "stub" }

func (counter *testCounter) CountString(input string) (int, error) {
	counter.calls++
	return len([]rune(input)), nil
}

func TestCountText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		text          string
		expected      int
		expectError   bool
		expectedCalls int
	}{
		{name: "text", text: "héllo", expected: 5, expectedCalls: 1},
		{name: "empty", text: "", expected: 0},
		{name: "invalid utf8", text: string([]byte{0xff, 0xfe}), expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			counter := &testCounter{}
			tokens, err := CountText(counter, testCase.text)
			if testCase.expectError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CountText error: %v", err)
			}
			if tokens != testCase.expected {
				t.Fatalf("expected %d tokens, got %d", testCase.expected, tokens)
			}
			if counter.calls != testCase.expectedCalls {
				t.Fatalf("expected %d counter calls, got %d", testCase.expectedCalls, counter.calls)
			}
		})
	}
}

func TestCountTextNilCounter(t *testing.T) {
	t.Parallel()

	if _, err := CountText(nil, "text"); err == nil {
		t.Fatal("expected error for nil counter")
	}
}

func TestIsOpenAIModel(t *testing.T) {
	t.Parallel()

	for model, expected := range map[string]bool{"gpt-4o": true, "text-embedding-3-small": true, "claude-3": false, "": false} {
		if got := isOpenAIModel(model); got != expected {
			t.Fatalf("isOpenAIModel(%q) = %v", model, got)
		}
	}
}

func TestLazyCounterBuildsOnce(t *testing.T) {
	t.Parallel()

	builds := 0
	stub := &testCounter{}
	counter := &lazyCounter{
		config: Config{Model: "gpt-4"},
		build: func(Config) (Counter, string, error) {
			builds++
			return stub, "gpt-4", nil
		},
	}
	if counter.Name() != "gpt-4" {
		t.Fatalf("unexpected name %q", counter.Name())
	}
	for range 3 {
		if _, err := counter.CountString("abc"); err != nil {
			t.Fatalf("CountString error: %v", err)
		}
	}
	if builds != 1 || stub.calls != 3 {
		t.Fatalf("expected one build and three counts, got %d and %d", builds, stub.calls)
	}
}

func TestLazyCounterReportsBuildFailure(t *testing.T) {
	t.Parallel()

	counter := &lazyCounter{build: func(Config) (Counter, string, error) {
		return nil, "", errNilEncoding
	}}
	if counter.Name() != DefaultModel {
		t.Fatalf("expected default model name, got %q", counter.Name())
	}
	if _, err := counter.CountString("abc"); err == nil {
		t.Fatal("expected build failure to surface")
	}
}
