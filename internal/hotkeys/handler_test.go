package hotkeys

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
)

func TestMaskCombinations(t *testing.T) {
	assert.Equal(t, []uint16{0}, maskCombinations(nil))
	assert.Equal(t, []uint16{0, 2}, maskCombinations([]uint16{2}))
	assert.Equal(t, []uint16{0, 2, 16, 18}, maskCombinations([]uint16{2, 16}))
	assert.Len(t, maskCombinations([]uint16{2, 16, 128}), 8)
}

func TestGrabMatches(t *testing.T) {
	ignore := maskCombinations([]uint16{xproto.ModMaskLock, xproto.ModMask2})
	g := grab{mods: 0, keycodes: []xproto.Keycode{9}}

	assert.True(t, g.matches(9, 0, ignore))
	assert.True(t, g.matches(9, xproto.ModMaskLock|xproto.ModMask2, ignore))
	assert.True(t, g.matches(9, xproto.KeyButMaskButton1, ignore))
	assert.False(t, g.matches(10, 0, ignore))
	assert.False(t, g.matches(9, xproto.ModMaskShift, ignore))

	super := grab{mods: xproto.ModMask4, keycodes: []xproto.Keycode{24, 25}}
	assert.True(t, super.matches(25, xproto.ModMask4|xproto.ModMaskLock, ignore))
	assert.False(t, super.matches(24, 0, ignore))
}
