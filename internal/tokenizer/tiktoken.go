package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var errNilEncoding = errors.New("nil tiktoken encoding")

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// Name reports the model or encoding backing the counter.
func (counter openAICounter) Name() string {
	return counter.name
}

// CountString encodes input and returns the number of token ids, special
// tokens included as ordinary text.
func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoding
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
