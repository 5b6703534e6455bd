package nn

import "math"

// FlattenSize is the length of the flatten vector.
const FlattenSize = 4

// Flatten derives four values from the pooled scalar p:
//
//	[p, |255 - p|, (1.5p) mod 255, p / 2]
//
// These stand in for the other channels a real network would carry. They
// are fixed formulas, not learned, and mod follows the sign of the
// dividend.
func Flatten(p float64) [FlattenSize]float64 {
	return [FlattenSize]float64{
		p,
		math.Abs(255 - p),
		math.Mod(p*1.5, 255),
		p / 2,
	}
}
