package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/convscope/internal/parallel"
	"github.com/born-ml/convscope/internal/vision"
)

// Convolve applies a 3x3 kernel to every pixel of img and returns a new
// buffer of the same dimensions.
//
// For each output pixel and each of R, G, B independently:
//  1. sum = Σ kernel[ky+1][kx+1] * input[y+ky][x+kx] over ky, kx in -1..1,
//     with out-of-bounds neighbours contributing zero (zero padding).
//     The sum is not divided by the kernel weight sum.
//  2. opts.UseReLU clamps negatives to 0; otherwise the absolute value is
//     taken. The no-ReLU path is a transform, not a pass-through.
//  3. opts.UseGrayscale replaces R, G, B with their arithmetic mean.
//  4. Alpha is written as 255.
//
// Values are stored as saturated 8-bit integers (rounded half to even).
// If opts.Normalize is set, a second pass rescales all R, G, B values
// jointly from [min, max] to [0, 255]; a flat output is left unchanged.
//
// A zero-sized image yields a zero-sized output. Convolve panics if
// img.Pix does not match img.Width*img.Height*4.
func (cpu *CPUBackend) Convolve(img vision.ImageBuffer, kernel vision.Kernel, opts vision.ProcessingOptions) vision.ImageBuffer {
	if err := img.Validate(); err != nil {
		panic(fmt.Sprintf("convolve: %v", err))
	}

	out := vision.NewImageBuffer(img.Width, img.Height)
	if out.Empty() {
		return out
	}

	// Per-chunk channel extremes for the normalization pass.
	numChunks := parallel.NumChunks(img.Height, cpu.parallel)
	mins := make([]uint8, numChunks)
	maxs := make([]uint8, numChunks)

	parallel.ForRange(img.Height, func(chunk, start, end int) {
		mins[chunk], maxs[chunk] = convolveRows(out, img, &kernel, opts, start, end)
	}, cpu.parallel)

	if !opts.Normalize {
		return out
	}

	lo, hi := mins[0], maxs[0]
	for i := 1; i < numChunks; i++ {
		lo = min(lo, mins[i])
		hi = max(hi, maxs[i])
	}
	if hi > lo {
		parallel.ForRange(img.Height, func(_, start, end int) {
			normalizeRows(out, start, end, float64(lo), float64(hi))
		}, cpu.parallel)
	}

	return out
}

// convolveRows fills output rows [start, end) and returns the smallest and
// largest stored R, G, B values.
func convolveRows(out, img vision.ImageBuffer, kernel *vision.Kernel, opts vision.ProcessingOptions, start, end int) (lo, hi uint8) {
	W, H := img.Width, img.Height
	in := img.Pix
	lo, hi = 255, 0

	var acc [3]float64
	for y := start; y < end; y++ {
		for x := 0; x < W; x++ {
			acc = [3]float64{}
			for ky := -1; ky <= 1; ky++ {
				sy := y + ky
				if sy < 0 || sy >= H {
					continue
				}
				for kx := -1; kx <= 1; kx++ {
					sx := x + kx
					if sx < 0 || sx >= W {
						continue
					}
					weight := kernel[ky+1][kx+1]
					idx := (sy*W + sx) * vision.Channels
					acc[0] += weight * float64(in[idx])
					acc[1] += weight * float64(in[idx+1])
					acc[2] += weight * float64(in[idx+2])
				}
			}

			for c := range acc {
				if opts.UseReLU {
					acc[c] = math.Max(0, acc[c])
				} else {
					acc[c] = math.Abs(acc[c])
				}
			}
			if opts.UseGrayscale {
				mean := (acc[0] + acc[1] + acc[2]) / 3
				acc = [3]float64{mean, mean, mean}
			}

			idx := (y*W + x) * vision.Channels
			for c, v := range acc {
				b := clampUint8(v)
				out.Pix[idx+c] = b
				lo = min(lo, b)
				hi = max(hi, b)
			}
			out.Pix[idx+3] = 255
		}
	}
	return lo, hi
}

// normalizeRows rescales R, G, B of rows [start, end) from [lo, hi] to [0, 255].
func normalizeRows(out vision.ImageBuffer, start, end int, lo, hi float64) {
	span := hi - lo
	for y := start; y < end; y++ {
		row := out.Pix[y*out.Width*vision.Channels : (y+1)*out.Width*vision.Channels]
		for i := 0; i < len(row); i += vision.Channels {
			for c := 0; c < 3; c++ {
				row[i+c] = clampUint8(((float64(row[i+c]) - lo) / span) * 255)
			}
		}
	}
}

// clampUint8 saturates v to [0, 255] and rounds half to even, matching
// 8-bit clamped channel storage.
func clampUint8(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.RoundToEven(v))
	}
}
