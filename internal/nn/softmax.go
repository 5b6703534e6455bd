package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SoftmaxTemperature divides the shifted logits before exponentiation so
// the illustrative logits do not saturate the distribution.
const SoftmaxTemperature = 100.0

// Softmax converts logits into percentages that sum to 100.
//
// Numerically stable form:
//
//	m = max(logits)
//	e[c] = exp((logits[c] - m) / temperature)
//	p[c] = 100 * e[c] / Σ e
//
// The largest logit always maps to exp(0) = 1, so the sum is at least 1
// and every entry lies in [0, 100].
func Softmax(logits []float64, temperature float64) []float64 {
	if len(logits) == 0 {
		return nil
	}

	m := floats.Max(logits)
	e := make([]float64, len(logits))
	for i, l := range logits {
		e[i] = math.Exp((l - m) / temperature)
	}

	sum := floats.Sum(e)
	for i := range e {
		e[i] = 100 * e[i] / sum
	}
	return e
}
