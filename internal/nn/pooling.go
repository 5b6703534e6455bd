package nn

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/convscope/internal/vision"
)

// Pool reduces the activated feature map to a single value.
//
// PoolMax takes the maximum of the four values, PoolAverage their mean.
// Any other mode returns a ConfigError wrapping vision.ErrUnknownPooling;
// there is no fallback mode.
func Pool(fm FeatureMap, mode vision.PoolingMode) (float64, error) {
	if err := mode.Validate(); err != nil {
		return 0, err
	}

	values := fm.Values()
	if mode == vision.PoolMax {
		return floats.Max(values), nil
	}
	return floats.Sum(values) / float64(len(values)), nil
}
