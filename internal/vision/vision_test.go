package vision

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKernel(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]float64
		wantErr error
	}{
		{
			name: "valid",
			rows: [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
		},
		{
			name:    "too few rows",
			rows:    [][]float64{{1, 2, 3}, {4, 5, 6}},
			wantErr: ErrInvalidShape,
		},
		{
			name:    "short row",
			rows:    [][]float64{{1, 2, 3}, {4, 5}, {7, 8, 9}},
			wantErr: ErrInvalidShape,
		},
		{
			name:    "nan",
			rows:    [][]float64{{1, 2, 3}, {4, math.NaN(), 6}, {7, 8, 9}},
			wantErr: ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKernel(tt.rows)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				var cfgErr *ConfigError
				assert.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, "kernel", cfgErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 5.0, k[1][1])
			assert.Equal(t, tt.rows, k.Rows())
		})
	}
}

func TestParseKernel(t *testing.T) {
	k, err := ParseKernel("1/9,1/9,1/9; 1/9 1/9 1/9, 1/9,1/9,1/9")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, k.Sum(), 1e-12)

	k, err = ParseKernel("-1 -2 -1 0 0 0 1 2 1")
	require.NoError(t, err)
	assert.Equal(t, Kernel{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}, k)

	_, err = ParseKernel("1 2 3")
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = ParseKernel("1 2 3 4 x 6 7 8 9")
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = ParseKernel("1 2 3 4 1/0 6 7 8 9")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestKernelString(t *testing.T) {
	k := Kernel{{0, 0, 0}, {0, 1, 0}, {0, 0, -0.5}}
	assert.Equal(t, "[0, 0, 0]\n[0, 1, 0]\n[0, 0, -0.5]", k.String())
}

func TestLookupPreset(t *testing.T) {
	p, err := LookupPreset("Sobel Horizontal")
	require.NoError(t, err)
	assert.Equal(t, Kernel{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}, p.Kernel)

	p, err = LookupPreset(" BOX-BLUR ")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.Kernel.Sum(), 1e-12)

	_, err = LookupPreset("does-not-exist")
	assert.ErrorIs(t, err, ErrOutOfRange)

	seen := make(map[string]bool)
	for _, preset := range Presets {
		assert.False(t, seen[preset.Slug], "duplicate slug %s", preset.Slug)
		seen[preset.Slug] = true
		assert.NotEmpty(t, preset.Description)
	}
}

func TestParsePoolingMode(t *testing.T) {
	mode, err := ParsePoolingMode("MAX")
	require.NoError(t, err)
	assert.Equal(t, PoolMax, mode)

	mode, err = ParsePoolingMode("average")
	require.NoError(t, err)
	assert.Equal(t, PoolAverage, mode)

	for _, bad := range []string{"", "min", "avg", "mean"} {
		_, err := ParsePoolingMode(bad)
		assert.ErrorIs(t, err, ErrUnknownPooling, bad)
	}
}

func TestImageBuffer(t *testing.T) {
	buf := NewImageBuffer(3, 2)
	require.NoError(t, buf.Validate())
	assert.Len(t, buf.Pix, 3*2*4)

	buf.Set(2, 1, 10, 20, 30, 40)
	r, g, b, a := buf.At(2, 1)
	assert.Equal(t, [4]uint8{10, 20, 30, 40}, [4]uint8{r, g, b, a})

	clone := buf.Clone()
	clone.Set(2, 1, 0, 0, 0, 0)
	r, _, _, _ = buf.At(2, 1)
	assert.Equal(t, uint8(10), r)

	bad := ImageBuffer{Width: 2, Height: 2, Pix: make([]uint8, 3)}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidShape)

	empty := NewImageBuffer(-1, 5)
	assert.True(t, empty.Empty())
	assert.NoError(t, empty.Validate())
}

func TestFromImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetNRGBA(6, 5, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	buf := FromImage(src)
	assert.Equal(t, 2, buf.Width)
	assert.Equal(t, 1, buf.Height)
	r, g, b, _ := buf.At(1, 0)
	assert.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{r, g, b})

	out := buf.ToRGBA()
	assert.Equal(t, buf.Pix, out.Pix)
}

func TestExtractPatch(t *testing.T) {
	buf := NewImageBuffer(6, 5)
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			v := uint8(10*y + x)
			buf.Set(x, y, v, v+1, v+2, 255)
		}
	}

	p, err := ExtractPatch(buf, 1, 0)
	require.NoError(t, err)
	// Mean of (v, v+1, v+2) is v+1.
	assert.Equal(t, uint8(2), p[0][0])
	assert.Equal(t, uint8(35), p[3][3])

	// Origin is clamped so the patch fits.
	p, err = ExtractPatch(buf, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, uint8(10*1+2+1), p[0][0])
	assert.Equal(t, uint8(10*4+5+1), p[3][3])

	_, err = ExtractPatch(NewImageBuffer(3, 8), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestNewPatch(t *testing.T) {
	rows := [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9, 10, 11}, {12, 13, 14, 255}}
	p, err := NewPatch(rows)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), p[3][3])

	_, err = NewPatch(rows[:3])
	assert.ErrorIs(t, err, ErrInvalidShape)

	rows[1][2] = 256
	_, err = NewPatch(rows)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.Equal(t, uint8(7), UniformPatch(7)[2][1])
}
