package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1broseidon/deskrain/internal/platform"
)

func TestFormatRect(t *testing.T) {
	assert.Equal(t, "3840x1080-1920+0", formatRect(platform.Rect{X: -1920, Width: 3840, Height: 1080}))
	assert.Equal(t, "1920x1080+0+0", formatRect(platform.Rect{Width: 1920, Height: 1080}))
}
