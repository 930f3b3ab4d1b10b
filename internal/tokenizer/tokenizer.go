// Package tokenizer counts tokens the same way the embedding and chunking
// layers budget them. Token counts are an approximation used for sizing,
// not an exact contract, so construction never fails: unknown encodings
// fall back to a general-purpose one.
package tokenizer

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// FallbackEncoding is used when the configured encoding or model is unknown.
const FallbackEncoding = "cl100k_base"

// Counter counts tokens in a text. Implementations must be deterministic
// and side-effect free.
type Counter interface {
	Count(text string) int
}

// TiktokenCounter counts tokens using a tiktoken BPE encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewCounter returns a counter for the named tiktoken encoding
// (e.g. "cl100k_base"). Unknown encodings fall back to FallbackEncoding.
func NewCounter(encoding string) *TiktokenCounter {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		tke, _ = tiktoken.GetEncoding(FallbackEncoding)
		encoding = FallbackEncoding
	}
	return &TiktokenCounter{encoding: tke, name: encoding}
}

// NewCounterForModel returns a counter matching the tokenizer of the given
// model name (e.g. "gpt-4o-mini"). Unknown models fall back to FallbackEncoding.
func NewCounterForModel(model string) *TiktokenCounter {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return NewCounter(FallbackEncoding)
	}
	return &TiktokenCounter{encoding: tke, name: model}
}

// Count returns the number of BPE tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// Name returns the encoding or model name the counter was built from.
func (c *TiktokenCounter) Name() string { return c.name }

// WordCounter counts whitespace-separated words. It is a cheap offline
// approximation used in tests and when no BPE data is available.
type WordCounter struct{}

func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}
