// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vision provides the value types shared by the convolution engine
// and the patch forward pass: kernels, RGBA image buffers, 4x4 patches and
// processing options.
//
// Example:
//
//	k, err := vision.ParseKernel("-1 -2 -1  0 0 0  1 2 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	img := vision.NewImageBuffer(640, 480)
//	patch, err := vision.ExtractPatch(img, 10, 20)
package vision

import (
	"image"

	"github.com/born-ml/convscope/internal/vision"
)

// Kernel is a 3x3 weight matrix indexed as [row][col].
type Kernel = vision.Kernel

// KernelSize is the side length of a kernel.
const KernelSize = vision.KernelSize

// Preset is a named kernel from the built-in library.
type Preset = vision.Preset

// Presets is the built-in kernel library, in display order.
var Presets = vision.Presets

// ImageBuffer is a decoded RGBA pixel buffer.
type ImageBuffer = vision.ImageBuffer

// Patch is a 4x4 grayscale receptive field.
type Patch = vision.Patch

// PatchSize is the side length of a patch.
const PatchSize = vision.PatchSize

// ProcessingOptions controls post-processing in the convolution engine.
type ProcessingOptions = vision.ProcessingOptions

// PoolingMode selects how the feature map is reduced.
type PoolingMode = vision.PoolingMode

// Supported pooling modes.
const (
	PoolMax     = vision.PoolMax
	PoolAverage = vision.PoolAverage
)

// ConfigError describes an invalid input or configuration value.
type ConfigError = vision.ConfigError

// Sentinel errors wrapped by ConfigError.
var (
	ErrInvalidShape   = vision.ErrInvalidShape
	ErrUnknownPooling = vision.ErrUnknownPooling
	ErrOutOfRange     = vision.ErrOutOfRange
)

// NewKernel builds a Kernel from exactly three rows of three finite values.
func NewKernel(rows [][]float64) (Kernel, error) {
	return vision.NewKernel(rows)
}

// ParseKernel reads nine numbers separated by spaces, commas or semicolons.
// Fractions such as "1/9" are accepted.
func ParseKernel(s string) (Kernel, error) {
	return vision.ParseKernel(s)
}

// LookupPreset finds a preset by slug or display name.
func LookupPreset(name string) (Preset, error) {
	return vision.LookupPreset(name)
}

// NewImageBuffer allocates a zeroed buffer.
func NewImageBuffer(width, height int) ImageBuffer {
	return vision.NewImageBuffer(width, height)
}

// FromImage converts any image.Image into an ImageBuffer.
func FromImage(img image.Image) ImageBuffer {
	return vision.FromImage(img)
}

// NewPatch builds a Patch from 4 rows of 4 values in [0, 255].
func NewPatch(rows [][]int) (Patch, error) {
	return vision.NewPatch(rows)
}

// UniformPatch returns a patch with every cell set to v.
func UniformPatch(v uint8) Patch {
	return vision.UniformPatch(v)
}

// ExtractPatch reads the grayscale 4x4 patch whose top-left corner is
// (x, y), clamped to the image.
func ExtractPatch(img ImageBuffer, x, y int) (Patch, error) {
	return vision.ExtractPatch(img, x, y)
}

// ParsePoolingMode validates a pooling mode name.
func ParsePoolingMode(s string) (PoolingMode, error) {
	return vision.ParsePoolingMode(s)
}
