// Package imageio loads, scales and saves images for the command-line
// tools. The numeric core only ever sees the decoded vision.ImageBuffer.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"  // Registers GIF format
	_ "image/jpeg" // Registers JPEG format
	"image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // Registers BMP format
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Registers WebP format

	"github.com/born-ml/convscope/internal/vision"
)

// DefaultMaxSide bounds the longest image side so a full-image
// convolution stays interactive.
const DefaultMaxSide = 400

// Decode reads an image in any registered format and scales it down so
// neither side exceeds maxSide (maxSide <= 0 disables scaling). It returns
// the buffer and the format name.
func Decode(r io.Reader, maxSide int) (vision.ImageBuffer, string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return vision.ImageBuffer{}, "", fmt.Errorf("decode image: %w", err)
	}
	return vision.FromImage(Fit(src, maxSide)), format, nil
}

// Load opens and decodes the image at path.
func Load(path string, maxSide int) (vision.ImageBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return vision.ImageBuffer{}, err
	}
	defer f.Close()

	buf, _, err := Decode(f, maxSide)
	if err != nil {
		return vision.ImageBuffer{}, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Fit scales src with Catmull-Rom so its longest side is at most maxSide,
// preserving aspect ratio. Images that already fit are returned as is.
func Fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	scale := float64(maxSide) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale+0.5))
	dh := max(1, int(float64(h)*scale+0.5))

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Rect, src, b, draw.Src, nil)
	return dst
}

// Encode writes buf as PNG.
func Encode(w io.Writer, buf vision.ImageBuffer) error {
	return png.Encode(w, buf.ToRGBA())
}

// Save writes buf as a PNG file at path.
func Save(path string, buf vision.ImageBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
