// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/convscope/internal/backend/cpu"
	"github.com/born-ml/convscope/internal/parallel"
)

// Backend represents the CPU convolution engine.
//
// Rows are convolved in parallel; the output is identical to a sequential
// run.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how rows are split across goroutines.
type ParallelConfig = parallel.Config

// New creates a new CPU backend using every available core.
//
// Example:
//
//	import (
//	    "github.com/born-ml/convscope/backend/cpu"
//	    "github.com/born-ml/convscope/vision"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    sharpen, _ := vision.LookupPreset("sharpen")
//	    out := backend.Convolve(img, sharpen.Kernel, vision.ProcessingOptions{UseReLU: true})
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig returns the settings used by New.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}
