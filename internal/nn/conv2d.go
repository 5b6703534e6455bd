package nn

import (
	"github.com/born-ml/convscope/internal/vision"
)

// FeatureMapSize is the side of the valid convolution of a 4x4 patch with
// a 3x3 kernel.
const FeatureMapSize = vision.PatchSize - vision.KernelSize + 1

// FeatureMap holds the 2x2 convolution output before and after activation.
type FeatureMap struct {
	Raw       [FeatureMapSize][FeatureMapSize]float64
	Activated [FeatureMapSize][FeatureMapSize]float64
}

// Values returns the activated values in row-major order.
func (f FeatureMap) Values() []float64 {
	out := make([]float64, 0, FeatureMapSize*FeatureMapSize)
	for y := 0; y < FeatureMapSize; y++ {
		out = append(out, f.Activated[y][:]...)
	}
	return out
}

// Conv2DValid convolves the patch with the kernel without padding:
//
//	raw[y][x] = Σ_{ky,kx in 0..2} patch[y+ky][x+kx] * kernel[ky][kx]
//
// The 4x4 patch and 3x3 kernel give exactly a 2x2 output, so no index
// ever leaves the patch.
func Conv2DValid(patch vision.Patch, kernel vision.Kernel) [FeatureMapSize][FeatureMapSize]float64 {
	var raw [FeatureMapSize][FeatureMapSize]float64
	for y := 0; y < FeatureMapSize; y++ {
		for x := 0; x < FeatureMapSize; x++ {
			sum := 0.0
			for ky := 0; ky < vision.KernelSize; ky++ {
				for kx := 0; kx < vision.KernelSize; kx++ {
					sum += float64(patch[y+ky][x+kx]) * kernel[ky][kx]
				}
			}
			raw[y][x] = sum
		}
	}
	return raw
}
