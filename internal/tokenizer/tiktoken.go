package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// EncodingCL100kBase is the default encoding for prompt budgets.
const EncodingCL100kBase = "cl100k_base"

// TikToken counts tokens with the pkoukk/tiktoken-go BPE encodings.
//
// Loading an encoding fetches its rank file on first use unless
// TIKTOKEN_CACHE_DIR points at a populated cache.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a counter for the named encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// Count returns the number of BPE tokens in text. Special-token markup
// such as <|im_start|> is counted as ordinary text.
func (t *TikToken) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Truncate returns the decoded first limit tokens of text.
func (t *TikToken) Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return t.encoding.Decode(tokens[:limit])
}

// Name returns the encoding or model name.
func (t *TikToken) Name() string {
	return t.name
}

// NewCounter returns a TikToken counter for encodingName, or WordCounter
// if the encoding cannot be loaded. The error is returned alongside the
// fallback so callers can log it.
func NewCounter(encodingName string) (Counter, error) {
	tok, err := NewTikToken(encodingName)
	if err != nil {
		return WordCounter{}, err
	}
	return tok, nil
}
