package vision

import "math"

// PatchSize is the side length of a receptive-field patch.
const PatchSize = 4

// Patch is a 4x4 grayscale receptive field indexed as [row][col].
type Patch [PatchSize][PatchSize]uint8

// NewPatch builds a Patch from rows of integers.
//
// Returns a ConfigError if rows is not exactly 4x4 or any value lies
// outside [0, 255].
func NewPatch(rows [][]int) (Patch, error) {
	var p Patch
	if len(rows) != PatchSize {
		return p, configErrorf("patch", ErrInvalidShape, "expected %d rows, got %d", PatchSize, len(rows))
	}
	for r, row := range rows {
		if len(row) != PatchSize {
			return p, configErrorf("patch", ErrInvalidShape, "row %d: expected %d values, got %d", r, PatchSize, len(row))
		}
		for c, v := range row {
			if v < 0 || v > 255 {
				return p, configErrorf("patch", ErrOutOfRange, "value %d at [%d][%d] outside [0,255]", v, r, c)
			}
			p[r][c] = uint8(v)
		}
	}
	return p, nil
}

// UniformPatch returns a patch with every cell set to v.
func UniformPatch(v uint8) Patch {
	var p Patch
	for r := range p {
		for c := range p[r] {
			p[r][c] = v
		}
	}
	return p
}

// ExtractPatch reads the 4x4 region whose top-left corner is (x, y) and
// converts it to grayscale by averaging R, G and B.
//
// The origin is clamped so the region lies inside the image. Images
// smaller than 4x4 yield a ConfigError.
func ExtractPatch(img ImageBuffer, x, y int) (Patch, error) {
	var p Patch
	if err := img.Validate(); err != nil {
		return p, err
	}
	if img.Width < PatchSize || img.Height < PatchSize {
		return p, configErrorf("image", ErrInvalidShape, "%dx%d is smaller than a %dx%d patch", img.Width, img.Height, PatchSize, PatchSize)
	}

	x = min(max(x, 0), img.Width-PatchSize)
	y = min(max(y, 0), img.Height-PatchSize)

	for r := 0; r < PatchSize; r++ {
		for c := 0; c < PatchSize; c++ {
			red, green, blue, _ := img.At(x+c, y+r)
			mean := (float64(red) + float64(green) + float64(blue)) / 3
			p[r][c] = uint8(math.Round(mean))
		}
	}
	return p, nil
}
