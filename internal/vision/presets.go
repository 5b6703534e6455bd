package vision

import (
	"fmt"
	"strings"
)

// Preset is a named kernel from the built-in library.
type Preset struct {
	Slug        string
	Name        string
	Description string
	Kernel      Kernel
}

const ninth = 1.0 / 9.0

// Presets is the built-in kernel library, in display order.
var Presets = []Preset{
	{
		Slug:        "identity",
		Name:        "Identity",
		Description: "Leaves the image unchanged.",
		Kernel:      Kernel{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}},
	},
	{
		Slug:        "box-blur",
		Name:        "Box Blur",
		Description: "Averages each pixel with its eight neighbours.",
		Kernel:      Kernel{{ninth, ninth, ninth}, {ninth, ninth, ninth}, {ninth, ninth, ninth}},
	},
	{
		Slug:        "gaussian-blur",
		Name:        "Gaussian Blur",
		Description: "Weighted blur that favours the centre pixel.",
		Kernel:      Kernel{{1.0 / 16, 2.0 / 16, 1.0 / 16}, {2.0 / 16, 4.0 / 16, 2.0 / 16}, {1.0 / 16, 2.0 / 16, 1.0 / 16}},
	},
	{
		Slug:        "sharpen",
		Name:        "Sharpen",
		Description: "Boosts the centre pixel against its direct neighbours.",
		Kernel:      Kernel{{0, -1, 0}, {-1, 5, -1}, {0, -1, 0}},
	},
	{
		Slug:        "edge-detect",
		Name:        "Edge Detect",
		Description: "Laplacian-style outline of intensity changes in every direction.",
		Kernel:      Kernel{{-1, -1, -1}, {-1, 8, -1}, {-1, -1, -1}},
	},
	{
		Slug:        "sobel-horizontal",
		Name:        "Sobel Horizontal",
		Description: "Responds to horizontal edges (vertical intensity gradient).",
		Kernel:      Kernel{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}},
	},
	{
		Slug:        "sobel-vertical",
		Name:        "Sobel Vertical",
		Description: "Responds to vertical edges (horizontal intensity gradient).",
		Kernel:      Kernel{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}},
	},
	{
		Slug:        "emboss",
		Name:        "Emboss",
		Description: "Directional relief effect from top-left to bottom-right.",
		Kernel:      Kernel{{-2, -1, 0}, {-1, 1, 1}, {0, 1, 2}},
	},
}

// LookupPreset finds a preset by slug or display name, case-insensitively.
func LookupPreset(name string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets {
		if p.Slug == key || strings.ToLower(p.Name) == key {
			return p, nil
		}
	}
	return Preset{}, &ConfigError{
		Field:   "kernel",
		Details: fmt.Sprintf("no preset named %q", name),
		Err:     ErrOutOfRange,
	}
}
