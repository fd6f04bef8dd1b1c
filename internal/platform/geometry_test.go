package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	displays []Display
	err      error
}

func (b *stubBackend) Name() string                      { return "stub" }
func (b *stubBackend) Displays() ([]Display, error)      { return b.displays, b.err }
func (b *stubBackend) OpenSurface(Rect) (Surface, error) { return nil, ErrUnsupportedBackend }
func (b *stubBackend) Close() error                      { return nil }

func TestUnion(t *testing.T) {
	tests := []struct {
		name  string
		rects []Rect
		want  Rect
		ok    bool
	}{
		{
			name:  "monitor left of primary",
			rects: []Rect{{0, 0, 1920, 1080}, {-1920, 0, 1920, 1080}},
			want:  Rect{-1920, 0, 3840, 1080},
			ok:    true,
		},
		{
			name:  "single",
			rects: []Rect{{0, 0, 2560, 1440}},
			want:  Rect{0, 0, 2560, 1440},
			ok:    true,
		},
		{
			name:  "stacked and offset",
			rects: []Rect{{0, 0, 1920, 1080}, {320, -1440, 2560, 1440}, {1920, 200, 1080, 1920}},
			want:  Rect{0, -1440, 3000, 3560},
			ok:    true,
		},
		{
			name:  "empty rects ignored",
			rects: []Rect{{0, 0, 0, 0}, {100, 100, 800, 600}, {-5000, -5000, 0, 10}},
			want:  Rect{100, 100, 800, 600},
			ok:    true,
		},
		{
			name: "nothing",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Union(tt.rects)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveVirtualDesktop(t *testing.T) {
	b := &stubBackend{displays: []Display{
		{ID: 0, Name: "A", Bounds: Rect{0, 0, 1920, 1080}, Primary: true},
		{ID: 1, Name: "B", Bounds: Rect{-1920, 0, 1920, 1080}},
	}}

	got, err := ResolveVirtualDesktop(b)
	require.NoError(t, err)
	assert.Equal(t, Rect{X: -1920, Y: 0, Width: 3840, Height: 1080}, got)
}

func TestResolveVirtualDesktop_Errors(t *testing.T) {
	boom := errors.New("boom")
	_, err := ResolveVirtualDesktop(&stubBackend{err: boom})
	require.ErrorIs(t, err, boom)

	_, err = ResolveVirtualDesktop(&stubBackend{})
	require.ErrorIs(t, err, ErrNoDisplays)
}
