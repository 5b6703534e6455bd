// Package nn implements the miniature forward pass used to explain a
// single 4x4 receptive field: convolution, activation, pooling, flatten,
// a fixed dense layer and a temperature-scaled softmax.
package nn

import (
	"github.com/born-ml/convscope/internal/vision"
)

// Result exposes every intermediate value of one forward pass.
type Result struct {
	FeatureMap    FeatureMap
	Pooled        float64
	Flatten       [FlattenSize]float64
	Logits        [NumClasses]float64
	Probabilities [NumClasses]float64 // Percentages summing to 100
}

// Predicted returns the index of the most probable class. Ties go to the
// lowest index.
func (r Result) Predicted() int {
	best := 0
	for c := 1; c < NumClasses; c++ {
		if r.Probabilities[c] > r.Probabilities[best] {
			best = c
		}
	}
	return best
}

// Label returns the name of the predicted class.
func (r Result) Label() string {
	return ClassLabels[r.Predicted()]
}

// Pipeline runs the patch forward pass. It holds only the fixed dense
// layer and is safe for concurrent use.
type Pipeline struct {
	dense *Linear
}

// NewPipeline creates a pipeline with the built-in dense parameters.
func NewPipeline() *Pipeline {
	return &Pipeline{dense: DefaultLinear()}
}

// Forward runs patch → 2x2 feature map → pooled value → flatten vector →
// logits → probabilities.
//
// The only failure is an unrecognized pooling mode, reported as a
// vision.ConfigError before any computation.
func (p *Pipeline) Forward(patch vision.Patch, kernel vision.Kernel, useReLU bool, mode vision.PoolingMode) (Result, error) {
	if err := mode.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	res.FeatureMap = Activate(Conv2DValid(patch, kernel), useReLU)

	pooled, err := Pool(res.FeatureMap, mode)
	if err != nil {
		return Result{}, err
	}
	res.Pooled = pooled
	res.Flatten = Flatten(pooled)

	logits := p.dense.Forward(res.Flatten[:])
	copy(res.Logits[:], logits)
	copy(res.Probabilities[:], Softmax(logits, SoftmaxTemperature))

	return res, nil
}

var defaultPipeline = NewPipeline()

// Forward runs the forward pass with the built-in pipeline.
func Forward(patch vision.Patch, kernel vision.Kernel, useReLU bool, mode vision.PoolingMode) (Result, error) {
	return defaultPipeline.Forward(patch, kernel, useReLU, mode)
}
