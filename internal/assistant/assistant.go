// Package assistant defines the optional text-generation collaborator that
// explains kernels and proposes kernels from free-text descriptions.
//
// The numeric core never calls it. Every failure, including a missing
// endpoint, wraps ErrUnavailable so callers can fall back to a fixed
// message and keep working without assistance.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/born-ml/convscope/internal/vision"
)

// ErrUnavailable reports that the assistant is not configured, could not
// be reached, or returned an empty or malformed answer.
var ErrUnavailable = errors.New("assistant unavailable")

// Suggestion is a kernel proposed for a description, with its rationale.
type Suggestion struct {
	Kernel      vision.Kernel
	Explanation string
}

// Assistant is the text-generation capability.
type Assistant interface {
	// Explain describes in plain language what a kernel does.
	Explain(ctx context.Context, kernel vision.Kernel) (string, error)

	// Suggest proposes a kernel matching a free-text description.
	Suggest(ctx context.Context, description string) (Suggestion, error)
}

// Disabled is an Assistant that is never available.
type Disabled struct {
	Reason string
}

// Explain always fails with ErrUnavailable.
func (d Disabled) Explain(context.Context, vision.Kernel) (string, error) {
	return "", d.err()
}

// Suggest always fails with ErrUnavailable.
func (d Disabled) Suggest(context.Context, string) (Suggestion, error) {
	return Suggestion{}, d.err()
}

func (d Disabled) err() error {
	if d.Reason == "" {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, d.Reason)
}

// FallbackMessage returns the text shown in place of an assistant answer.
func FallbackMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The assistant took too long to answer. The kernel preview still works; try again later."
	case errors.Is(err, ErrUnavailable):
		return "AI assistance is unavailable right now. You can still edit the kernel by hand and inspect every stage."
	default:
		return "Something went wrong while asking the assistant: " + err.Error()
	}
}
