// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/convscope/backend/cpu"
	"github.com/born-ml/convscope/vision"
)

func TestBackend_PublicConvolve(t *testing.T) {
	img := vision.NewImageBuffer(3, 3)
	img.Set(1, 1, 90, 90, 90, 255)

	identity, err := vision.LookupPreset("identity")
	if err != nil {
		t.Fatal(err)
	}

	seq := cpu.NewWithConfig(cpu.DefaultParallelConfig().WithWorkers(1))
	out := seq.Convolve(img, identity.Kernel, vision.ProcessingOptions{UseReLU: true})

	r, g, b, a := out.At(1, 1)
	assert.Equal(t, [4]uint8{90, 90, 90, 255}, [4]uint8{r, g, b, a})
	r, _, _, a = out.At(0, 0)
	assert.Equal(t, uint8(0), r)
	assert.Equal(t, uint8(255), a)

	assert.Equal(t, out, cpu.New().Convolve(img, identity.Kernel, vision.ProcessingOptions{UseReLU: true}))
	assert.Equal(t, "CPU", seq.Name())
}
