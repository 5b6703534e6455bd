// Package vision defines the value types shared by the convolution engine
// and the patch forward pipeline: kernels, patches, image buffers and
// processing options.
package vision

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KernelSize is the side length of every kernel.
const KernelSize = 3

// Kernel is a 3x3 convolution kernel indexed as [row][col].
//
// Values are unconstrained: fractional, negative and non-normalized
// kernels are all valid.
type Kernel [KernelSize][KernelSize]float64

// NewKernel builds a Kernel from a row-major slice of rows.
//
// Returns a ConfigError wrapping ErrInvalidShape if rows is not exactly 3x3,
// or ErrOutOfRange if any value is NaN or infinite.
func NewKernel(rows [][]float64) (Kernel, error) {
	var k Kernel
	if len(rows) != KernelSize {
		return k, configErrorf("kernel", ErrInvalidShape, "expected %d rows, got %d", KernelSize, len(rows))
	}
	for r, row := range rows {
		if len(row) != KernelSize {
			return k, configErrorf("kernel", ErrInvalidShape, "row %d: expected %d values, got %d", r, KernelSize, len(row))
		}
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return k, configErrorf("kernel", ErrOutOfRange, "value at [%d][%d] is not finite", r, c)
			}
			k[r][c] = v
		}
	}
	return k, nil
}

// ParseKernel parses nine comma- or whitespace-separated numbers in
// row-major order. Fractions like "1/9" are accepted.
func ParseKernel(s string) (Kernel, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) != KernelSize*KernelSize {
		return Kernel{}, configErrorf("kernel", ErrInvalidShape, "expected %d values, got %d", KernelSize*KernelSize, len(fields))
	}

	rows := make([][]float64, KernelSize)
	for r := range rows {
		rows[r] = make([]float64, KernelSize)
		for c := range rows[r] {
			v, err := parseNumber(fields[r*KernelSize+c])
			if err != nil {
				return Kernel{}, &ConfigError{Field: "kernel", Details: err.Error(), Err: ErrOutOfRange}
			}
			rows[r][c] = v
		}
	}
	return NewKernel(rows)
}

func parseNumber(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("division by zero in %q", s)
		}
		return n / d, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Rows returns the kernel as a freshly allocated slice of rows.
func (k Kernel) Rows() [][]float64 {
	rows := make([][]float64, KernelSize)
	for r := range rows {
		rows[r] = append([]float64(nil), k[r][:]...)
	}
	return rows
}

// Sum returns the sum of all nine weights.
func (k Kernel) Sum() float64 {
	var sum float64
	for r := 0; r < KernelSize; r++ {
		for c := 0; c < KernelSize; c++ {
			sum += k[r][c]
		}
	}
	return sum
}

// String formats the kernel as three bracketed rows.
func (k Kernel) String() string {
	var sb strings.Builder
	for r := 0; r < KernelSize; r++ {
		if r > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("[")
		for c := 0; c < KernelSize; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(k[r][c], 'g', 4, 64))
		}
		sb.WriteString("]")
	}
	return sb.String()
}
