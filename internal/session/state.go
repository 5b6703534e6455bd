package session

import (
	"github.com/born-ml/convscope/internal/vision"
)

// State is the user-controlled configuration of an inspection session.
// It is a value: the With methods return modified copies.
type State struct {
	Kernel  vision.Kernel
	Options vision.ProcessingOptions
	Pooling vision.PoolingMode
	PatchX  int
	PatchY  int
}

// DefaultState starts from the identity kernel, ReLU on, max pooling.
func DefaultState() State {
	return State{
		Kernel:  vision.Kernel{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}},
		Options: vision.ProcessingOptions{UseReLU: true},
		Pooling: vision.PoolMax,
	}
}

// WithKernel returns a copy using kernel k.
func (s State) WithKernel(k vision.Kernel) State {
	s.Kernel = k
	return s
}

// WithOptions returns a copy using opts.
func (s State) WithOptions(opts vision.ProcessingOptions) State {
	s.Options = opts
	return s
}

// WithPooling returns a copy using mode. The mode is validated when the
// patch is inspected.
func (s State) WithPooling(mode vision.PoolingMode) State {
	s.Pooling = mode
	return s
}

// WithPatch returns a copy inspecting the patch at (x, y).
func (s State) WithPatch(x, y int) State {
	s.PatchX, s.PatchY = x, y
	return s
}
