package imageio

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/born-ml/convscope/internal/vision"
)

// Heatmap endpoints: weak response to strong response.
var (
	heatCold = colorful.Color{R: 0.05, G: 0.05, B: 0.35}
	heatWarm = colorful.Color{R: 1.0, G: 0.85, B: 0.1}
)

// Heatmap colours each pixel of a convolution output by its feature
// strength, the mean of R, G and B. Blending happens in Lab space so equal
// strength steps look evenly spaced. Alpha is copied from buf.
func Heatmap(buf vision.ImageBuffer) vision.ImageBuffer {
	out := vision.NewImageBuffer(buf.Width, buf.Height)

	// Strength only takes 256 values, so precompute the palette.
	var palette [256][3]uint8
	for i := range palette {
		c := heatCold.BlendLab(heatWarm, float64(i)/255).Clamped()
		palette[i][0], palette[i][1], palette[i][2] = c.RGB255()
	}

	for i := 0; i < len(buf.Pix); i += vision.Channels {
		strength := (int(buf.Pix[i]) + int(buf.Pix[i+1]) + int(buf.Pix[i+2])) / 3
		p := palette[strength]
		out.Pix[i] = p[0]
		out.Pix[i+1] = p[1]
		out.Pix[i+2] = p[2]
		out.Pix[i+3] = buf.Pix[i+3]
	}
	return out
}
