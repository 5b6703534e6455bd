package vision

import (
	"fmt"
	"strings"
)

// ProcessingOptions controls post-processing in the convolution engine.
type ProcessingOptions struct {
	UseGrayscale bool `yaml:"grayscale"`
	UseReLU      bool `yaml:"relu"`
	Normalize    bool `yaml:"normalize"`
}

// PoolingMode selects how the 2x2 feature map is reduced to one value.
type PoolingMode string

// Supported pooling modes.
const (
	PoolMax     PoolingMode = "max"
	PoolAverage PoolingMode = "average"
)

// ParsePoolingMode validates a pooling mode name.
//
// Unrecognized names are rejected with a ConfigError wrapping
// ErrUnknownPooling; there is no default.
func ParsePoolingMode(s string) (PoolingMode, error) {
	mode := PoolingMode(strings.ToLower(strings.TrimSpace(s)))
	if err := mode.Validate(); err != nil {
		return "", err
	}
	return mode, nil
}

// Validate reports whether m is a supported mode.
func (m PoolingMode) Validate() error {
	switch m {
	case PoolMax, PoolAverage:
		return nil
	default:
		return &ConfigError{
			Field:   "pooling",
			Details: fmt.Sprintf("%q (want %q or %q)", string(m), PoolMax, PoolAverage),
			Err:     ErrUnknownPooling,
		}
	}
}
