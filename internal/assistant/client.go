package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/convscope/internal/tokenizer"
	"github.com/born-ml/convscope/internal/vision"
)

// Config configures the HTTP assistant client.
type Config struct {
	// Endpoint is the base URL of an Ollama-compatible server,
	// e.g. http://localhost:11434. Empty disables the assistant.
	Endpoint string

	// Model is the model name sent with each request.
	Model string

	// APIKey, if set, is sent as a bearer token.
	APIKey string

	// Timeout bounds each request.
	Timeout time.Duration

	// MaxPromptTokens caps the rendered prompt; the user's text is
	// truncated to fit. Zero means no limit.
	MaxPromptTokens int
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCounter sets the token counter used for the prompt budget.
func WithCounter(counter tokenizer.Counter) Option {
	return func(c *Client) { c.counter = counter }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client talks to an Ollama-style /api/generate endpoint.
type Client struct {
	cfg      Config
	http     *http.Client
	counter  tokenizer.Counter
	template tokenizer.ChatTemplate
	logger   *slog.Logger
}

// New returns a Client for cfg, or Disabled if no endpoint is configured.
func New(cfg Config, opts ...Option) Assistant {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return Disabled{Reason: "no endpoint configured"}
	}
	return NewClient(cfg, opts...)
}

// NewClient creates a Client. Requests fail with ErrUnavailable if
// cfg.Endpoint is empty.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	c := &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		counter:  tokenizer.WordCounter{},
		template: tokenizer.NewChatMLTemplate(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Explain asks the model to describe the kernel.
func (c *Client) Explain(ctx context.Context, kernel vision.Kernel) (string, error) {
	text, err := c.generate(ctx, "explain", explainMessages(kernel))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Suggest asks the model for a kernel matching description.
func (c *Client) Suggest(ctx context.Context, description string) (Suggestion, error) {
	if strings.TrimSpace(description) == "" {
		return Suggestion{}, &vision.ConfigError{Field: "description", Details: "empty", Err: vision.ErrInvalidShape}
	}
	text, err := c.generate(ctx, "suggest", suggestMessages(description))
	if err != nil {
		return Suggestion{}, err
	}
	return parseSuggestion(text)
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Raw    bool   `json:"raw"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) generate(ctx context.Context, op string, messages []tokenizer.ChatMessage) (string, error) {
	if strings.TrimSpace(c.cfg.Endpoint) == "" {
		return "", fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
	}

	messages = tokenizer.FitMessages(c.template, c.counter, messages, c.cfg.MaxPromptTokens)
	prompt := c.template.Apply(messages)

	body, err := json.Marshal(generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Raw:    true,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("assistant: encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	log := c.logger.With(
		slog.String("op", op),
		slog.String("request_id", requestID),
		slog.String("model", c.cfg.Model),
	)
	log.Debug("assistant request", slog.Int("prompt_tokens", c.counter.Count(prompt)))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("assistant request failed", slog.Any("err", err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("assistant returned error status", slog.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, out.Error)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	log.Debug("assistant answered", slog.Duration("elapsed", time.Since(start)))
	return out.Response, nil
}
