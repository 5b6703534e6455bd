// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the fixed patch-level forward pass.
//
// # Overview
//
// A 4x4 grayscale patch flows through these stages:
//   - Conv2D: 2x2 valid convolution with a 3x3 kernel
//   - Activation: ReLU, or the raw signed value
//   - Pooling: max or average over the feature map
//   - Flatten: four features derived from the pooled value
//   - Linear: fixed 4x4 dense layer with bias
//   - Softmax: temperature 100, reported in percent
//
// Every intermediate value is kept in the Result so callers can show the
// whole computation, not only the prediction.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convscope/nn"
//	    "github.com/born-ml/convscope/vision"
//	)
//
//	func main() {
//	    blur, _ := vision.LookupPreset("box-blur")
//	    res, err := nn.Forward(vision.UniformPatch(128), blur.Kernel, true, vision.PoolMax)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Label(), res.Probabilities)
//	}
//
// The computation is deterministic: the dense weights are constants and
// there is no training.
package nn
