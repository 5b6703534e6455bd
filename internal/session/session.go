// Package session ties the numeric core to its collaborators: it owns the
// current State, recomputes previews asynchronously, inspects the selected
// patch and asks the optional assistant for help.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/born-ml/convscope/internal/assistant"
	"github.com/born-ml/convscope/internal/nn"
	"github.com/born-ml/convscope/internal/preview"
	"github.com/born-ml/convscope/internal/vision"
)

// Inspection is the forward pass of the currently selected patch.
type Inspection struct {
	Patch  vision.Patch
	Result nn.Result
}

// Session holds one image and the state the user is editing.
// Its methods are safe for concurrent use.
type Session struct {
	image     vision.ImageBuffer
	pipeline  *nn.Pipeline
	preview   *preview.Scheduler
	assistant assistant.Assistant
	logger    *slog.Logger

	mu    sync.RWMutex
	state State
}

// New creates a session for image. A nil assistant behaves as
// assistant.Disabled; a nil logger uses slog.Default().
func New(image vision.ImageBuffer, initial State, sched *preview.Scheduler, asst assistant.Assistant, logger *slog.Logger) (*Session, error) {
	if err := image.Validate(); err != nil {
		return nil, err
	}
	if asst == nil {
		asst = assistant.Disabled{Reason: "not configured"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		image:     image,
		pipeline:  nn.NewPipeline(),
		preview:   sched,
		assistant: asst,
		logger:    logger,
		state:     initial,
	}, nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update replaces the state with fn(current) and schedules a preview of
// the new state. It returns the preview sequence number.
//
// The swap and the submit happen under one lock, so sequence numbers
// follow the order of state changes and the latest preview always
// reflects State().
func (s *Session) Update(fn func(State) State) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.state)
	return s.submitLocked()
}

// Refresh schedules a preview of the current state.
func (s *Session) Refresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitLocked()
}

// submitLocked hands the current state to the scheduler. s.mu must be held.
func (s *Session) submitLocked() uint64 {
	if s.preview == nil {
		return 0
	}
	return s.preview.Submit(preview.Request{
		Image:   s.image,
		Kernel:  s.state.Kernel,
		Options: s.state.Options,
	})
}

// LatestPreview returns the sequence number of the most recently
// scheduled preview, or 0 without a scheduler.
func (s *Session) LatestPreview() uint64 {
	if s.preview == nil {
		return 0
	}
	return s.preview.Latest()
}

// Previews delivers finished previews, or nil without a scheduler.
func (s *Session) Previews() <-chan preview.Result {
	if s.preview == nil {
		return nil
	}
	return s.preview.Results()
}

// Inspect runs the forward pass on the 4x4 patch at the state's patch
// position. The ReLU flag is shared with the image options.
func (s *Session) Inspect() (Inspection, error) {
	state := s.State()

	patch, err := vision.ExtractPatch(s.image, state.PatchX, state.PatchY)
	if err != nil {
		return Inspection{}, err
	}
	res, err := s.pipeline.Forward(patch, state.Kernel, state.Options.UseReLU, state.Pooling)
	if err != nil {
		return Inspection{}, err
	}
	return Inspection{Patch: patch, Result: res}, nil
}

// Explain asks the assistant about the current kernel. When the assistant
// fails it returns the fallback message and ok == false.
func (s *Session) Explain(ctx context.Context) (text string, ok bool) {
	text, err := s.assistant.Explain(ctx, s.State().Kernel)
	if err != nil {
		s.logger.Info("kernel explanation unavailable", slog.Any("err", err))
		return assistant.FallbackMessage(err), false
	}
	return text, true
}

// Suggest asks the assistant for a kernel matching description and, on
// success, applies it. It returns the explanation or a fallback message.
func (s *Session) Suggest(ctx context.Context, description string) (text string, ok bool) {
	suggestion, err := s.assistant.Suggest(ctx, description)
	if err != nil {
		s.logger.Info("kernel suggestion unavailable", slog.Any("err", err))
		return assistant.FallbackMessage(err), false
	}
	s.Update(func(st State) State { return st.WithKernel(suggestion.Kernel) })
	return suggestion.Explanation, true
}

// Close stops the preview scheduler.
func (s *Session) Close() {
	if s.preview != nil {
		s.preview.Close()
	}
}
