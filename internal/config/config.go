// Package config loads the YAML configuration shared by the command-line
// tools.
//
// Example file:
//
//	kernel:
//	  preset: sobel-horizontal
//	options:
//	  relu: false
//	  normalize: true
//	pooling: max
//	patch: {x: 120, y: 80}
//	assistant:
//	  endpoint: http://localhost:11434
//	  model: qwen2.5:0.5b
//	  api_key_env: CONVSCOPE_API_KEY
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/convscope/internal/assistant"
	"github.com/born-ml/convscope/internal/imageio"
	"github.com/born-ml/convscope/internal/preview"
	"github.com/born-ml/convscope/internal/tokenizer"
	"github.com/born-ml/convscope/internal/vision"
)

// Config is the full tool configuration.
type Config struct {
	Kernel       KernelConfig             `yaml:"kernel"`
	Options      vision.ProcessingOptions `yaml:"options"`
	Pooling      string                   `yaml:"pooling"`
	Patch        PatchConfig              `yaml:"patch"`
	MaxImageSide int                      `yaml:"max_image_side"`
	LogLevel     string                   `yaml:"log_level"`
	Preview      PreviewConfig            `yaml:"preview"`
	Assistant    AssistantConfig          `yaml:"assistant"`
}

// KernelConfig selects a kernel by preset name or explicit values.
// Values take precedence when both are set.
type KernelConfig struct {
	Preset string      `yaml:"preset"`
	Values [][]float64 `yaml:"values"`
}

// PatchConfig is the top-left corner of the inspected 4x4 patch.
type PatchConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// PreviewConfig tunes the asynchronous preview.
type PreviewConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Workers  int           `yaml:"workers"`
}

// AssistantConfig configures the optional text-generation service.
type AssistantConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	Model           string        `yaml:"model"`
	APIKeyEnv       string        `yaml:"api_key_env"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxPromptTokens int           `yaml:"max_prompt_tokens"`
	Encoding        string        `yaml:"encoding"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Kernel:       KernelConfig{Preset: "identity"},
		Options:      vision.ProcessingOptions{UseReLU: true},
		Pooling:      string(vision.PoolMax),
		MaxImageSide: imageio.DefaultMaxSide,
		LogLevel:     "info",
		Preview: PreviewConfig{
			Debounce: preview.DefaultDebounce,
		},
		Assistant: AssistantConfig{
			Model:           "qwen2.5:0.5b",
			APIKeyEnv:       "CONVSCOPE_API_KEY",
			Timeout:         20 * time.Second,
			MaxPromptTokens: 512,
			Encoding:        tokenizer.EncodingCL100kBase,
		},
	}
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path. An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field that has a closed set of values.
func (c Config) Validate() error {
	if _, err := c.KernelValue(); err != nil {
		return err
	}
	if _, err := c.PoolingMode(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MaxImageSide < 0 {
		return &vision.ConfigError{Field: "max_image_side", Details: fmt.Sprintf("%d is negative", c.MaxImageSide), Err: vision.ErrOutOfRange}
	}
	if c.Patch.X < 0 || c.Patch.Y < 0 {
		return &vision.ConfigError{Field: "patch", Details: fmt.Sprintf("(%d,%d) is negative", c.Patch.X, c.Patch.Y), Err: vision.ErrOutOfRange}
	}
	if c.Preview.Debounce < 0 || c.Preview.Workers < 0 {
		return &vision.ConfigError{Field: "preview", Details: "debounce and workers must not be negative", Err: vision.ErrOutOfRange}
	}
	return nil
}

// KernelValue resolves the configured kernel.
func (c Config) KernelValue() (vision.Kernel, error) {
	if len(c.Kernel.Values) > 0 {
		return vision.NewKernel(c.Kernel.Values)
	}
	p, err := vision.LookupPreset(c.Kernel.Preset)
	if err != nil {
		return vision.Kernel{}, err
	}
	return p.Kernel, nil
}

// PoolingMode resolves the configured pooling mode.
func (c Config) PoolingMode() (vision.PoolingMode, error) {
	return vision.ParsePoolingMode(c.Pooling)
}

// Level resolves the configured log level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, &vision.ConfigError{Field: "log_level", Details: err.Error(), Err: vision.ErrOutOfRange}
	}
	return level, nil
}

// AssistantClientConfig builds the assistant client settings, reading the
// API key from the configured environment variable.
func (c Config) AssistantClientConfig() assistant.Config {
	var key string
	if c.Assistant.APIKeyEnv != "" {
		key = os.Getenv(c.Assistant.APIKeyEnv)
	}
	return assistant.Config{
		Endpoint:        c.Assistant.Endpoint,
		Model:           c.Assistant.Model,
		APIKey:          key,
		Timeout:         c.Assistant.Timeout,
		MaxPromptTokens: c.Assistant.MaxPromptTokens,
	}
}
