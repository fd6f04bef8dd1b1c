//go:build linux

package platform

import (
	"image"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
)

func TestToXRects(t *testing.T) {
	runs := []image.Rectangle{
		image.Rect(0, 0, 7, 1),
		image.Rect(16, 3, 23, 4),
	}
	got := toXRects(nil, runs)
	assert.Equal(t, []xproto.Rectangle{
		{X: 0, Y: 0, Width: 7, Height: 1},
		{X: 16, Y: 3, Width: 7, Height: 1},
	}, got)

	reused := toXRects(got[:0], runs[:1])
	assert.Len(t, reused, 1)
}
