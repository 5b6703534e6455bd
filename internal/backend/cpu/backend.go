// Package cpu implements the full-image convolution engine on the CPU.
package cpu

import (
	"github.com/born-ml/convscope/internal/parallel"
)

// CPUBackend convolves RGBA image buffers with 3x3 kernels.
//
// It holds no per-call state and is safe for concurrent use.
type CPUBackend struct {
	parallel parallel.Config
}

// New creates a new CPU backend using all available cores.
func New() *CPUBackend {
	return &CPUBackend{
		parallel: parallel.DefaultConfig(),
	}
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Parallel returns the parallelism settings in use.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}
