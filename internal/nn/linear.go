package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NumClasses is the number of output classes of the toy classifier.
const NumClasses = 4

// ClassLabels names the four output classes, indexed like the logits.
var ClassLabels = [NumClasses]string{"Edge", "Texture", "Flat", "Corner"}

// Fixed, illustrative dense parameters. weight[i][c] connects flatten
// index i to class c. They are not learned and never mutated.
var (
	denseWeights = [FlattenSize][NumClasses]float64{
		{0.5, -0.3, 0.2, 0.1},
		{-0.2, 0.4, 0.1, -0.3},
		{0.3, 0.1, -0.4, 0.2},
		{0.1, -0.2, 0.3, 0.4},
	}
	denseBias = [NumClasses]float64{0.1, -0.1, 0.05, 0.0}
)

// Linear is a fully connected layer with fixed parameters.
//
// Performs: logits[c] = bias[c] + Σ_i x[i] * weight[i][c]
//
// The weight matrix is stored as [in_features, out_features], so the
// forward pass multiplies by its transpose.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *mat.Dense    // [in_features, out_features]
	bias        *mat.VecDense // [out_features]
}

// NewLinear creates a Linear layer from weight rows (one per input
// feature) and a bias vector (one per output feature).
func NewLinear(weight [][]float64, bias []float64) (*Linear, error) {
	if len(weight) == 0 || len(weight[0]) == 0 {
		return nil, fmt.Errorf("linear: empty weight matrix")
	}
	in, out := len(weight), len(weight[0])
	if len(bias) != out {
		return nil, fmt.Errorf("linear: bias has %d entries, want %d", len(bias), out)
	}

	data := make([]float64, 0, in*out)
	for i, row := range weight {
		if len(row) != out {
			return nil, fmt.Errorf("linear: weight row %d has %d entries, want %d", i, len(row), out)
		}
		data = append(data, row...)
	}

	return &Linear{
		inFeatures:  in,
		outFeatures: out,
		weight:      mat.NewDense(in, out, data),
		bias:        mat.NewVecDense(out, append([]float64(nil), bias...)),
	}, nil
}

// DefaultLinear returns the fixed 4x4 classifier layer.
func DefaultLinear() *Linear {
	weight := make([][]float64, FlattenSize)
	for i := range weight {
		weight[i] = denseWeights[i][:]
	}
	l, err := NewLinear(weight, denseBias[:])
	if err != nil {
		panic(fmt.Sprintf("linear: invalid built-in parameters: %v", err))
	}
	return l
}

// Forward computes bias + weightᵀ · x.
//
// Panics if len(x) != InFeatures().
func (l *Linear) Forward(x []float64) []float64 {
	if len(x) != l.inFeatures {
		panic(fmt.Sprintf("linear: expected %d inputs, got %d", l.inFeatures, len(x)))
	}

	var y mat.VecDense
	y.MulVec(l.weight.T(), mat.NewVecDense(len(x), append([]float64(nil), x...)))
	y.AddVec(&y, l.bias)

	out := make([]float64, l.outFeatures)
	for c := range out {
		out[c] = y.AtVec(c)
	}
	return out
}

// Weight returns weight[i][c].
func (l *Linear) Weight(i, c int) float64 {
	return l.weight.At(i, c)
}

// Bias returns bias[c].
func (l *Linear) Bias(c int) float64 {
	return l.bias.AtVec(c)
}

// InFeatures returns the input size.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output size.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
