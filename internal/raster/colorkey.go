package raster

import (
	"image"
	"image/color"
)

// KeyRuns returns the horizontal runs of pixels that do not match key, one
// rectangle per run, top to bottom and left to right. The union of the runs
// is the opaque part of the frame under color-key transparency. Only RGB is
// compared.
func KeyRuns(img *image.RGBA, key color.RGBA) []image.Rectangle {
	return AppendKeyRuns(nil, img, key)
}

// AppendKeyRuns is KeyRuns appending to dst, so callers can reuse a buffer
// across frames.
func AppendKeyRuns(dst []image.Rectangle, img *image.RGBA, key color.RGBA) []image.Rectangle {
	b := img.Rect
	width := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		start := -1
		for x := 0; x < width; x++ {
			i := 4 * x
			keyed := row[i] == key.R && row[i+1] == key.G && row[i+2] == key.B
			switch {
			case !keyed && start < 0:
				start = x
			case keyed && start >= 0:
				dst = append(dst, image.Rect(b.Min.X+start, y, b.Min.X+x, y+1))
				start = -1
			}
		}
		if start >= 0 {
			dst = append(dst, image.Rect(b.Min.X+start, y, b.Min.X+width, y+1))
		}
	}
	return dst
}
