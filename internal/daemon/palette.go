package daemon

import (
	"image/color"

	"github.com/1broseidon/deskrain/internal/rain"
)

// Palette holds the color key and one color per glyph tier.
type Palette struct {
	Key     color.RGBA
	Leading color.RGBA
	Near    color.RGBA
	Dim     color.RGBA
}

// DefaultPalette is grey rain on a black key.
func DefaultPalette() Palette {
	return Palette{
		Key:     color.RGBA{A: 255},
		Leading: color.RGBA{R: 200, G: 200, B: 200, A: 255},
		Near:    color.RGBA{R: 150, G: 150, B: 150, A: 255},
		Dim:     color.RGBA{R: 50, G: 50, B: 50, A: 255},
	}
}

// Color returns the color for a tier.
func (p Palette) Color(t rain.Tier) color.RGBA {
	switch t {
	case rain.Leading:
		return p.Leading
	case rain.Near:
		return p.Near
	default:
		return p.Dim
	}
}
