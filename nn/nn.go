// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/convscope/internal/nn"
	"github.com/born-ml/convscope/internal/vision"
)

// Sizes and constants of the forward pass.
const (
	FeatureMapSize     = nn.FeatureMapSize
	FlattenSize        = nn.FlattenSize
	NumClasses         = nn.NumClasses
	SoftmaxTemperature = nn.SoftmaxTemperature
)

// ClassLabels names the four output classes in order.
var ClassLabels = nn.ClassLabels

// Result holds every intermediate value of one forward pass.
type Result = nn.Result

// FeatureMap is the 2x2 convolution output before and after activation.
type FeatureMap = nn.FeatureMap

// Pipeline runs the forward pass with a given dense layer.
type Pipeline = nn.Pipeline

// Linear is the dense layer mapping flattened features to class logits.
type Linear = nn.Linear

// NewPipeline creates a pipeline with the built-in dense weights.
func NewPipeline() *Pipeline {
	return nn.NewPipeline()
}

// NewLinear creates a dense layer from a [in][out] weight matrix and bias.
//
// Example:
//
//	layer, err := nn.NewLinear([][]float64{{1, 0}, {0, 1}}, []float64{0, 0})
func NewLinear(weight [][]float64, bias []float64) (*Linear, error) {
	return nn.NewLinear(weight, bias)
}

// Forward runs the full pipeline on patch with the built-in dense weights.
//
// Returns an error wrapping vision.ErrUnknownPooling if mode is not one of
// the supported pooling modes.
func Forward(patch vision.Patch, kernel vision.Kernel, useReLU bool, mode vision.PoolingMode) (Result, error) {
	return nn.Forward(patch, kernel, useReLU, mode)
}

// Conv2DValid convolves the patch with kernel without padding.
func Conv2DValid(patch vision.Patch, kernel vision.Kernel) [FeatureMapSize][FeatureMapSize]float64 {
	return nn.Conv2DValid(patch, kernel)
}

// Pool reduces a feature map to one value.
func Pool(fm FeatureMap, mode vision.PoolingMode) (float64, error) {
	return nn.Pool(fm, mode)
}

// Flatten expands a pooled value into the four dense-layer inputs.
func Flatten(p float64) [FlattenSize]float64 {
	return nn.Flatten(p)
}

// Softmax converts logits to percentages at the given temperature.
func Softmax(logits []float64, temperature float64) []float64 {
	return nn.Softmax(logits, temperature)
}
