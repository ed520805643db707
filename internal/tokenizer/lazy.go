package tokenizer

import (
	"strings"
	"sync"
)

type counterBuilder func(Config) (Counter, string, error)

// lazyCounter builds its encoding on the first count.
type lazyCounter struct {
	config  Config
	build   counterBuilder
	once    sync.Once
	counter Counter
	err     error
}

// NewLazyCounter returns a Counter that builds its tiktoken encoding on first use.
func NewLazyCounter(cfg Config) Counter {
	return &lazyCounter{config: cfg, build: NewCounter}
}

// Name reports the configured model.
func (counter *lazyCounter) Name() string {
	if model := strings.TrimSpace(counter.config.Model); model != "" {
		return model
	}
	return DefaultModel
}

// CountString loads the encoding once and counts input with it.
func (counter *lazyCounter) CountString(input string) (int, error) {
	counter.once.Do(func() {
		counter.counter, _, counter.err = counter.build(counter.config)
	})
	if counter.err != nil {
		return 0, counter.err
	}
	return counter.counter.CountString(input)
}
