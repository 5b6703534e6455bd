// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convscope/nn"
	"github.com/born-ml/convscope/vision"
)

func TestForward_PublicAPI(t *testing.T) {
	blur, err := vision.LookupPreset("box-blur")
	require.NoError(t, err)

	res, err := nn.Forward(vision.UniformPatch(128), blur.Kernel, true, vision.PoolMax)
	require.NoError(t, err)

	for i, want := range []float64{128, 127, 192, 64} {
		assert.InDelta(t, want, res.Flatten[i], 1e-9)
	}
	assert.Equal(t, "Edge", res.Label())

	var sum float64
	for _, p := range res.Probabilities {
		sum += p
	}
	assert.InDelta(t, 100.0, sum, 1e-9)

	_, err = nn.Forward(vision.UniformPatch(0), blur.Kernel, true, "median")
	assert.ErrorIs(t, err, vision.ErrUnknownPooling)
}

func TestNewLinear_Public(t *testing.T) {
	_, err := nn.NewLinear([][]float64{{1}}, []float64{0, 0})
	assert.Error(t, err)
}
