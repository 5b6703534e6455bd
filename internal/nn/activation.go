package nn

import "math"

// ReLU applies f(x) = max(0, x).
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Activate builds the feature map from raw convolution values.
//
// With useReLU the values go through ReLU; otherwise the raw signed
// values pass through unchanged. Unlike the full-image engine, the
// non-ReLU path keeps the sign.
func Activate(raw [FeatureMapSize][FeatureMapSize]float64, useReLU bool) FeatureMap {
	fm := FeatureMap{Raw: raw}
	for y := 0; y < FeatureMapSize; y++ {
		for x := 0; x < FeatureMapSize; x++ {
			if useReLU {
				fm.Activated[y][x] = ReLU(raw[y][x])
			} else {
				fm.Activated[y][x] = raw[y][x]
			}
		}
	}
	return fm
}
