// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go convolution engine.
//
// # Overview
//
// The backend convolves an RGBA image with a 3x3 kernel:
//   - Zero padding at the borders, output has the input's dimensions
//   - Kernel weights are used as given, never normalized
//   - ReLU, or absolute value when ReLU is off
//   - Optional grayscale (mean of R, G, B)
//   - Optional joint min/max normalization to [0, 255]
//   - Alpha is always 255
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convscope/backend/cpu"
//	    "github.com/born-ml/convscope/vision"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    edge, _ := vision.LookupPreset("edge-detect")
//	    out := backend.Convolve(img, edge.Kernel, vision.ProcessingOptions{
//	        UseGrayscale: true,
//	        Normalize:    true,
//	    })
//	}
//
// # Performance
//
// Rows are split into chunks processed by a bounded set of goroutines.
// Small images are convolved on the calling goroutine.
package cpu
