package vision

import (
	"image"
	"image/color"
)

// Channels is the number of bytes per pixel (R, G, B, A).
const Channels = 4

// ImageBuffer is a decoded RGBA pixel buffer.
//
// Pix holds Width*Height*4 bytes in row-major order, matching the layout
// of image.RGBA with a stride of Width*4.
type ImageBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImageBuffer allocates a zeroed (transparent black) buffer.
// Negative dimensions are treated as zero.
func NewImageBuffer(width, height int) ImageBuffer {
	width = max(width, 0)
	height = max(height, 0)
	return ImageBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// Validate checks that the pixel slice matches the declared dimensions.
func (b ImageBuffer) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return configErrorf("image", ErrInvalidShape, "negative dimensions %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * Channels; len(b.Pix) != want {
		return configErrorf("image", ErrInvalidShape, "%dx%d needs %d bytes, got %d", b.Width, b.Height, want, len(b.Pix))
	}
	return nil
}

// Empty reports whether the buffer has no pixels.
func (b ImageBuffer) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

// Offset returns the index of the red byte of pixel (x, y).
func (b ImageBuffer) Offset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// At returns the RGBA bytes of pixel (x, y).
func (b ImageBuffer) At(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set writes the RGBA bytes of pixel (x, y).
func (b ImageBuffer) Set(x, y int, r, g, bl, a uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Clone returns a deep copy.
func (b ImageBuffer) Clone() ImageBuffer {
	return ImageBuffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    append([]uint8(nil), b.Pix...),
	}
}

// FromImage converts any image.Image into a non-premultiplied RGBA buffer.
func FromImage(img image.Image) ImageBuffer {
	bounds := img.Bounds()
	buf := NewImageBuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			buf.Set(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return buf
}

// ToRGBA wraps a copy of the buffer as an *image.NRGBA.
func (b ImageBuffer) ToRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}
