// Package tokenizer formats and measures prompts sent to the kernel
// assistant.
//
// It provides:
//   - Counter: token counting used to keep prompts within a budget
//   - TikToken: BPE counting backed by tiktoken (cl100k_base by default)
//   - WordCounter: an offline approximation when no encoding is available
//   - ChatMLTemplate: <|im_start|>role\ncontent<|im_end|> prompt formatting
//
// Example usage:
//
//	// Falls back to WordCounter when the encoding cannot be loaded.
//	counter, _ := tokenizer.NewCounter("cl100k_base")
//
//	prompt := tokenizer.NewChatMLTemplate().Apply([]tokenizer.ChatMessage{
//	    {Role: "system", Content: "You explain convolution kernels."},
//	    {Role: "user", Content: "What does a Sobel kernel do?"},
//	})
//	n := counter.Count(prompt)
package tokenizer
