package cpu

import (
	"math/rand"
	"testing"

	"github.com/born-ml/convscope/internal/parallel"
	"github.com/born-ml/convscope/internal/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	identity = vision.Kernel{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}
	sobelH   = vision.Kernel{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// randomImage builds a deterministic opaque image.
func randomImage(w, h int, seed int64) vision.ImageBuffer {
	rng := rand.New(rand.NewSource(seed))
	img := vision.NewImageBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255)
		}
	}
	return img
}

func grayImage(w, h int, value func(x, y int) uint8) vision.ImageBuffer {
	img := vision.NewImageBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := value(x, y)
			img.Set(x, y, v, v, v, 255)
		}
	}
	return img
}

// TestConvolve_IdentityReproducesImage tests that the identity kernel is a no-op.
func TestConvolve_IdentityReproducesImage(t *testing.T) {
	backend := New()
	img := randomImage(17, 11, 1)

	out := backend.Convolve(img, identity, vision.ProcessingOptions{UseReLU: true})

	assert.Equal(t, img.Width, out.Width)
	assert.Equal(t, img.Height, out.Height)
	assert.Equal(t, img.Pix, out.Pix)
}

// TestConvolve_PreservesDimensions tests output size for several kernels and shapes.
func TestConvolve_PreservesDimensions(t *testing.T) {
	backend := New()
	sizes := [][2]int{{0, 0}, {0, 5}, {1, 1}, {2, 7}, {9, 4}}

	for _, preset := range vision.Presets {
		for _, size := range sizes {
			img := randomImage(size[0], size[1], 7)
			out := backend.Convolve(img, preset.Kernel, vision.ProcessingOptions{Normalize: true})
			require.NoError(t, out.Validate())
			assert.Equal(t, size[0], out.Width, preset.Slug)
			assert.Equal(t, size[1], out.Height, preset.Slug)
		}
	}
}

// TestConvolve_ZeroPadding tests that out-of-bounds neighbours contribute zero.
func TestConvolve_ZeroPadding(t *testing.T) {
	backend := New()
	ones := vision.Kernel{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	img := grayImage(3, 3, func(_, _ int) uint8 { return 10 })

	out := backend.Convolve(img, ones, vision.ProcessingOptions{UseReLU: true})

	// Corner sees 4 pixels, edge 6, centre 9.
	expected := [3][3]uint8{
		{40, 60, 40},
		{60, 90, 60},
		{40, 60, 40},
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			r, g, b, a := out.At(x, y)
			assert.Equal(t, expected[y][x], r, "(%d,%d)", x, y)
			assert.Equal(t, r, g)
			assert.Equal(t, r, b)
			assert.Equal(t, uint8(255), a)
		}
	}
}

// TestConvolve_NoWeightNormalization tests that raw sums saturate instead of being rescaled.
func TestConvolve_NoWeightNormalization(t *testing.T) {
	backend := New()
	ones := vision.Kernel{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	img := grayImage(3, 3, func(_, _ int) uint8 { return 100 })

	out := backend.Convolve(img, ones, vision.ProcessingOptions{UseReLU: true})

	r, _, _, _ := out.At(1, 1)
	assert.Equal(t, uint8(255), r)
}

// TestConvolve_SobelHorizontalEdge tests the edge band and the |raw| branch.
func TestConvolve_SobelHorizontalEdge(t *testing.T) {
	backend := New()
	// Rows 0-2 black, rows 3-5 white.
	img := grayImage(6, 6, func(_, y int) uint8 {
		if y < 3 {
			return 0
		}
		return 255
	})

	abs := backend.Convolve(img, sobelH, vision.ProcessingOptions{UseReLU: false})
	relu := backend.Convolve(img, sobelH, vision.ProcessingOptions{UseReLU: true})

	// Row 5 has raw -1020 (white above, zero padding below).
	wantAbs := []uint8{0, 0, 255, 255, 0, 255}
	wantReLU := []uint8{0, 0, 255, 255, 0, 0}
	for x := 0; x < 6; x++ {
		for y := 0; y < 6; y++ {
			r, _, _, _ := abs.At(x, y)
			assert.Equal(t, wantAbs[y], r, "abs (%d,%d)", x, y)
			r, _, _, _ = relu.At(x, y)
			assert.Equal(t, wantReLU[y], r, "relu (%d,%d)", x, y)
		}
	}
}

// TestConvolve_ActivationBranches tests |raw| versus max(0, raw) on an unsaturated value.
func TestConvolve_ActivationBranches(t *testing.T) {
	backend := New()
	negate := vision.Kernel{{0, 0, 0}, {0, -1, 0}, {0, 0, 0}}
	img := vision.NewImageBuffer(1, 1)
	img.Set(0, 0, 30, 70, 200, 255)

	out := backend.Convolve(img, negate, vision.ProcessingOptions{UseReLU: false})
	r, g, b, _ := out.At(0, 0)
	assert.Equal(t, [3]uint8{30, 70, 200}, [3]uint8{r, g, b})

	out = backend.Convolve(img, negate, vision.ProcessingOptions{UseReLU: true})
	r, g, b, _ = out.At(0, 0)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

// TestConvolve_Grayscale tests the three-way channel mean.
func TestConvolve_Grayscale(t *testing.T) {
	backend := New()
	img := vision.NewImageBuffer(1, 1)
	img.Set(0, 0, 30, 60, 91, 17)

	out := backend.Convolve(img, identity, vision.ProcessingOptions{UseReLU: true, UseGrayscale: true})

	r, g, b, a := out.At(0, 0)
	// (30 + 60 + 91) / 3 = 60.33, not the perceptual luminance.
	assert.Equal(t, [4]uint8{60, 60, 60, 255}, [4]uint8{r, g, b, a})
}

// TestConvolve_Normalize tests joint min/max rescaling across channels.
func TestConvolve_Normalize(t *testing.T) {
	backend := New()

	t.Run("gray ramp", func(t *testing.T) {
		img := grayImage(3, 1, func(x, _ int) uint8 { return uint8(50 * (x + 1)) })
		out := backend.Convolve(img, identity, vision.ProcessingOptions{UseReLU: true, Normalize: true})

		got := make([]uint8, 3)
		for x := range got {
			got[x], _, _, _ = out.At(x, 0)
		}
		// 127.5 rounds half to even.
		assert.Equal(t, []uint8{0, 128, 255}, got)
	})

	t.Run("joint channels", func(t *testing.T) {
		img := vision.NewImageBuffer(2, 1)
		img.Set(0, 0, 10, 20, 30, 255)
		img.Set(1, 0, 40, 50, 60, 255)
		out := backend.Convolve(img, identity, vision.ProcessingOptions{UseReLU: true, Normalize: true})

		r0, g0, b0, _ := out.At(0, 0)
		r1, g1, b1, _ := out.At(1, 0)
		assert.Equal(t, [3]uint8{0, 51, 102}, [3]uint8{r0, g0, b0})
		assert.Equal(t, [3]uint8{153, 204, 255}, [3]uint8{r1, g1, b1})
	})

	t.Run("full range", func(t *testing.T) {
		img := randomImage(23, 19, 3)
		blur, err := vision.LookupPreset("gaussian-blur")
		require.NoError(t, err)
		out := backend.Convolve(img, blur.Kernel, vision.ProcessingOptions{Normalize: true})

		lo, hi := uint8(255), uint8(0)
		for i := 0; i < len(out.Pix); i += 4 {
			for c := 0; c < 3; c++ {
				lo = min(lo, out.Pix[i+c])
				hi = max(hi, out.Pix[i+c])
			}
		}
		assert.Equal(t, uint8(0), lo)
		assert.Equal(t, uint8(255), hi)
	})

	t.Run("flat output unchanged", func(t *testing.T) {
		img := grayImage(4, 4, func(_, _ int) uint8 { return 100 })
		out := backend.Convolve(img, identity, vision.ProcessingOptions{UseReLU: true, Normalize: true})
		assert.Equal(t, img.Pix, out.Pix)
	})
}

// TestConvolve_ParallelMatchesSequential tests that chunking does not change results.
func TestConvolve_ParallelMatchesSequential(t *testing.T) {
	img := randomImage(64, 57, 11)
	seq := NewWithConfig(parallel.Config{Enabled: false})
	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 5, MinChunkSize: 2})

	for _, preset := range vision.Presets {
		for _, opts := range []vision.ProcessingOptions{
			{},
			{UseReLU: true, UseGrayscale: true},
			{UseReLU: true, Normalize: true},
			{UseGrayscale: true, Normalize: true},
		} {
			want := seq.Convolve(img, preset.Kernel, opts)
			got := par.Convolve(img, preset.Kernel, opts)
			assert.Equal(t, want.Pix, got.Pix, "%s %+v", preset.Slug, opts)
		}
	}
}

// TestConvolve_DoesNotMutateInput tests that the source buffer is untouched.
func TestConvolve_DoesNotMutateInput(t *testing.T) {
	img := randomImage(8, 8, 5)
	before := img.Clone()

	New().Convolve(img, sobelH, vision.ProcessingOptions{Normalize: true})

	assert.Equal(t, before.Pix, img.Pix)
}

func TestConvolve_PanicsOnMalformedBuffer(t *testing.T) {
	bad := vision.ImageBuffer{Width: 2, Height: 2, Pix: make([]uint8, 5)}
	assert.Panics(t, func() {
		New().Convolve(bad, identity, vision.ProcessingOptions{})
	})
}

func TestClampUint8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-3, 0},
		{0, 0},
		{0.5, 0},
		{1.5, 2},
		{127.5, 128},
		{254.4, 254},
		{255, 255},
		{1020, 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampUint8(tt.in), "%v", tt.in)
	}
}

func BenchmarkConvolve(b *testing.B) {
	backend := New()
	img := randomImage(400, 400, 1)
	opts := vision.ProcessingOptions{UseReLU: true, Normalize: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.Convolve(img, sobelH, opts)
	}
}
