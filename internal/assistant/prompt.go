package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/born-ml/convscope/internal/tokenizer"
	"github.com/born-ml/convscope/internal/vision"
)

const (
	explainSystem = "You are a computer-vision tutor. Explain what a 3x3 convolution kernel " +
		"does to an image in two or three short sentences for a beginner. " +
		"Mention which features it highlights or suppresses."

	suggestSystem = "You design 3x3 convolution kernels. Reply with a single JSON object and " +
		"nothing else, shaped as {\"kernel\": [[a,b,c],[d,e,f],[g,h,i]], \"explanation\": \"...\"}. " +
		"Use plain decimal numbers."
)

func explainMessages(kernel vision.Kernel) []tokenizer.ChatMessage {
	return []tokenizer.ChatMessage{
		{Role: "system", Content: explainSystem},
		{Role: "user", Content: "Explain this kernel:\n" + kernel.String()},
	}
}

func suggestMessages(description string) []tokenizer.ChatMessage {
	return []tokenizer.ChatMessage{
		{Role: "system", Content: suggestSystem},
		{Role: "user", Content: strings.TrimSpace(description)},
	}
}

type suggestionPayload struct {
	Kernel      [][]float64 `json:"kernel"`
	Explanation string      `json:"explanation"`
}

// parseSuggestion extracts the first JSON object from a model answer.
// Models often wrap JSON in prose or code fences, so the text between the
// first '{' and the last '}' is decoded.
func parseSuggestion(text string) (Suggestion, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Suggestion{}, fmt.Errorf("%w: no JSON object in response", ErrUnavailable)
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return Suggestion{}, fmt.Errorf("%w: malformed suggestion: %v", ErrUnavailable, err)
	}

	kernel, err := vision.NewKernel(payload.Kernel)
	if err != nil {
		return Suggestion{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return Suggestion{
		Kernel:      kernel,
		Explanation: strings.TrimSpace(payload.Explanation),
	}, nil
}
