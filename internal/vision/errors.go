package vision

import (
	"errors"
	"fmt"
)

// Configuration errors. Every ConfigError wraps one of these.
var (
	ErrInvalidShape   = errors.New("invalid shape")
	ErrUnknownPooling = errors.New("unknown pooling mode")
	ErrOutOfRange     = errors.New("value out of range")
)

// ConfigError reports a malformed kernel, patch, image or mode.
// It is fatal to the single call that produced it.
type ConfigError struct {
	Field   string // What was being validated (e.g., "kernel", "patch", "pooling")
	Details string // Human-readable description
	Err     error  // One of the sentinel errors above
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Details)
}

// Unwrap returns the sentinel error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(field string, sentinel error, format string, args ...any) *ConfigError {
	return &ConfigError{
		Field:   field,
		Details: fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}
