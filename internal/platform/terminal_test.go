package platform

import (
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimBackend(t *testing.T, exitKey string) (*TerminalBackend, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	b, err := newTerminalBackend(screen, Options{CellSize: 16, ExitKey: exitKey})
	require.NoError(t, err)
	screen.SetSize(10, 5)
	t.Cleanup(func() { _ = b.Close() })
	return b, screen
}

func TestTerminalBackend_Displays(t *testing.T) {
	b, _ := newSimBackend(t, "")

	displays, err := b.Displays()
	require.NoError(t, err)
	require.Len(t, displays, 1)
	assert.Equal(t, Rect{Width: 160, Height: 80}, displays[0].Bounds)
	assert.True(t, displays[0].Primary)

	bounds, err := ResolveVirtualDesktop(b)
	require.NoError(t, err)
	assert.Equal(t, Rect{Width: 160, Height: 80}, bounds)
}

func TestTerminalSurface_DrawsGlyphsInCells(t *testing.T) {
	b, screen := newSimBackend(t, "")
	s, err := b.OpenSurface(Rect{Width: 160, Height: 80})
	require.NoError(t, err)

	key := color.RGBA{A: 255}
	leading := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	require.NoError(t, s.EnableTransparency(key))

	s.Clear(key)
	s.DrawGlyph(32, 16, 'A', leading)
	require.NoError(t, s.Present())

	mainc, _, style, _ := screen.GetContent(2, 1)
	assert.Equal(t, 'A', mainc)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(200, 200, 200), fg)
	assert.Equal(t, tcell.ColorDefault, bg, "key color must map to the terminal background")

	mainc, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, ' ', mainc)
}

func TestTerminalSurface_OpaqueClearWithoutKey(t *testing.T) {
	b, screen := newSimBackend(t, "")
	s, err := b.OpenSurface(Rect{Width: 160, Height: 80})
	require.NoError(t, err)

	s.Clear(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	require.NoError(t, s.Present())

	_, _, style, _ := screen.GetContent(4, 4)
	_, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(10, 20, 30), bg)
}

func TestTerminalSurface_AttributesAreNoOps(t *testing.T) {
	b, _ := newSimBackend(t, "")
	s, err := b.OpenSurface(Rect{Width: 160, Height: 80})
	require.NoError(t, err)

	assert.NoError(t, s.EnableClickThrough())
	assert.NoError(t, s.PinToBottom())
	assert.Empty(t, s.Events())
	assert.NoError(t, s.Close())
}

func TestTerminalSurface_ExitKeys(t *testing.T) {
	tests := []struct {
		name    string
		exitKey string
		key     tcell.Key
		r       rune
		exits   bool
	}{
		{"escape", "Escape", tcell.KeyEscape, 0, true},
		{"ctrl-c", "Escape", tcell.KeyCtrlC, 0, true},
		{"configured rune", "q", tcell.KeyRune, 'q', true},
		{"other rune", "q", tcell.KeyRune, 'x', false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, screen := newSimBackend(t, tt.exitKey)
			s, err := b.OpenSurface(Rect{Width: 160, Height: 80})
			require.NoError(t, err)

			screen.InjectKey(tt.key, tt.r, tcell.ModNone)

			if !tt.exits {
				time.Sleep(50 * time.Millisecond)
				assert.Empty(t, s.Events())
				return
			}
			var got []Event
			assert.Eventually(t, func() bool {
				got = append(got, s.Events()...)
				return len(got) > 0
			}, time.Second, 5*time.Millisecond)
			require.NotEmpty(t, got)
			assert.Equal(t, EventExitKey, got[0].Kind)
		})
	}
}
