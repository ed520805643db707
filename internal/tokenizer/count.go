package tokenizer

import (
	"errors"
	"unicode/utf8"
)

var (
	errNilCounter  = errors.New("nil tokenizer counter")
	errInvalidUTF8 = errors.New("text is not valid UTF-8")
)

// CountText estimates the tokens of text with counter. Blank text counts as
// zero without consulting the counter.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	if len(text) == 0 {
		return 0, nil
	}
	if !utf8.ValidString(text) {
		return 0, errInvalidUTF8
	}
	return counter.CountString(text)
}
