package tokenizer

import (
	"strings"
)

// ChatMLTemplate implements the ChatML format used by OpenAI-style and
// Qwen/DeepSeek models.
//
// Format: <|im_start|>role\ncontent<|im_end|>.
type ChatMLTemplate struct{}

// NewChatMLTemplate creates a new ChatML template.
func NewChatMLTemplate() *ChatMLTemplate {
	return &ChatMLTemplate{}
}

// Apply formats messages in ChatML format and opens an assistant turn.
func (t *ChatMLTemplate) Apply(messages []ChatMessage) string {
	var sb strings.Builder

	for _, msg := range messages {
		sb.WriteString("<|im_start|>")
		sb.WriteString(msg.Role)
		sb.WriteString("\n")
		sb.WriteString(msg.Content)
		sb.WriteString("<|im_end|>\n")
	}

	sb.WriteString("<|im_start|>assistant\n")

	return sb.String()
}

// Name returns the template name.
func (t *ChatMLTemplate) Name() string {
	return "ChatML"
}

// FitMessages shortens the content of the last message until the rendered
// prompt fits within limit tokens. Earlier messages are never touched. It
// returns the messages unchanged if they already fit or limit <= 0.
//
// The longest fitting prefix is found by binary search over the content's
// token budget, so the prompt is rendered and counted O(log limit) times.
func FitMessages(template ChatTemplate, counter Counter, messages []ChatMessage, limit int) []ChatMessage {
	if limit <= 0 || len(messages) == 0 || counter.Count(template.Apply(messages)) <= limit {
		return messages
	}

	out := append([]ChatMessage(nil), messages...)
	last := &out[len(out)-1]
	content := last.Content

	// Upper bound on tokens left for the last message's content.
	last.Content = ""
	budget := limit - counter.Count(template.Apply(out))

	// Truncate grows monotonically with its limit, so "fits" is true for a
	// prefix of [1, budget].
	best := ""
	lo, hi := 1, budget
	for lo <= hi {
		mid := lo + (hi-lo)/2
		last.Content = counter.Truncate(content, mid)
		if counter.Count(template.Apply(out)) <= limit {
			best = last.Content
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	last.Content = best
	return out
}
