package tokenizer

import (
	"strings"
	"unicode"
)

// Counter measures text in model tokens.
type Counter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Truncate returns the longest prefix of text with at most limit tokens.
	Truncate(text string, limit int) string

	// Name identifies the encoding.
	Name() string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role specifies the message role ("system", "user", "assistant").
	Role string

	// Content is the message text.
	Content string
}

// ChatTemplate formats messages for conversational models.
type ChatTemplate interface {
	// Apply formats a sequence of messages into a prompt string.
	Apply(messages []ChatMessage) string

	// Name returns the template name (e.g., "ChatML").
	Name() string
}

// WordCounter approximates tokens as runs of letters and digits or runs
// of other non-space characters. It needs no encoding data and
// over-counts slightly for English.
type WordCounter struct{}

// Count returns the number of pieces in text.
func (WordCounter) Count(text string) int {
	return len(pieces(text))
}

// Truncate keeps the first limit pieces of text.
func (WordCounter) Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	p := pieces(text)
	if len(p) <= limit {
		return text
	}
	return strings.TrimRightFunc(text[:p[limit][0]], unicode.IsSpace)
}

// Name returns "words".
func (WordCounter) Name() string {
	return "words"
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// pieces returns [start, end) byte offsets of each piece.
func pieces(text string) [][2]int {
	var out [][2]int
	start := -1
	inWord := false
	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			if start >= 0 {
				out = append(out, [2]int{start, i})
				start = -1
			}
		case start < 0:
			start, inWord = i, isWordRune(r)
		case isWordRune(r) != inWord:
			out = append(out, [2]int{start, i})
			start, inWord = i, isWordRune(r)
		}
	}
	if start >= 0 {
		out = append(out, [2]int{start, len(text)})
	}
	return out
}
