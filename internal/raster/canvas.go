// Package raster draws glyph frames into an in-memory RGBA buffer for the
// pixel backends and derives the color-key shape from it.
package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas is a frame buffer sized to the surface.
type Canvas struct {
	img    *image.RGBA
	face   font.Face
	ascent int
	src    *image.Uniform
	buf    [4]byte
}

// NewCanvas allocates a width x height frame buffer.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	face := basicfont.Face7x13
	return &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		face:   face,
		ascent: face.Metrics().Ascent.Ceil(),
		src:    image.NewUniform(color.RGBA{}),
	}
}

// Image exposes the underlying buffer.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the buffer rectangle, always anchored at (0,0).
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Rect
}

// Clear fills the whole buffer with col.
func (c *Canvas) Clear(col color.RGBA) {
	pix := c.img.Pix
	if len(pix) == 0 {
		return
	}
	c.buf = [4]byte{col.R, col.G, col.B, col.A}
	copy(pix, c.buf[:])
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}

// DrawGlyph renders g with its cell's top-left corner at (x, y).
func (c *Canvas) DrawGlyph(x, y int, g rune, col color.RGBA) {
	c.src.C = col
	d := font.Drawer{
		Dst:  c.img,
		Src:  c.src,
		Face: c.face,
		Dot:  fixed.P(x, y+c.ascent),
	}
	d.DrawString(string(g))
}

// CopyBGRA writes the buffer into dst in BGRA order, the layout used by
// both X11 ZPixmap images and Windows DIB sections. dst must hold at least
// 4*width*height bytes.
func (c *Canvas) CopyBGRA(dst []byte) {
	src := c.img.Pix
	n := len(src)
	if len(dst) < n {
		n = len(dst) &^ 3
	}
	for i := 0; i < n; i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}
