package rain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, width, height int) *State {
	t.Helper()
	return New(DefaultParams(width, height), WithRand(rand.New(rand.NewPCG(1, 2))))
}

func TestNew_ColumnCountAndStartingDrops(t *testing.T) {
	s := newTestState(t, 1920, 1080)

	require.Equal(t, 120, s.Len())
	require.Equal(t, 67, s.Capacity())
	for i := 0; i < s.Len(); i++ {
		c := s.Column(i)
		assert.GreaterOrEqual(t, c.Drop, -67)
		assert.LessOrEqual(t, c.Drop, 0)
		assert.Empty(t, c.History())
	}
}

func TestStep_HistoryNeverExceedsCapacity(t *testing.T) {
	s := newTestState(t, 640, 320)
	for frame := 0; frame < 500; frame++ {
		s.Step()
		for i := 0; i < s.Len(); i++ {
			require.LessOrEqual(t, len(s.Column(i).History()), s.Capacity(), "frame %d column %d", frame, i)
		}
	}
}

func TestStep_DropAdvancesByOneUntilReset(t *testing.T) {
	s := newTestState(t, 16, 320)
	c := s.Column(0)
	c.Drop = -30

	for frame := 0; frame < 400; frame++ {
		before := c.Drop
		s.Step()
		if before+1 > 25 {
			assert.GreaterOrEqual(t, c.Drop, -30)
			assert.LessOrEqual(t, c.Drop, -5)
			assert.Empty(t, c.History())
			continue
		}
		require.Equal(t, before+1, c.Drop, "frame %d", frame)
	}
}

func TestStep_GlyphsArePrintableASCII(t *testing.T) {
	s := newTestState(t, 320, 320)
	for frame := 0; frame < 200; frame++ {
		s.Step()
		for i := 0; i < s.Len(); i++ {
			for _, g := range s.Column(i).History() {
				require.GreaterOrEqual(t, g, rune(MinGlyph))
				require.LessOrEqual(t, g, rune(MaxGlyph))
			}
		}
	}
}

func TestStep_ColumnEntersScreenAfterTenUpdates(t *testing.T) {
	s := newTestState(t, 16, 320)
	require.Equal(t, 20, s.Capacity())

	c := s.Column(0)
	c.Drop = -10
	for n := 0; n < 10; n++ {
		s.Step()
	}
	require.Equal(t, 0, c.Drop)
	require.Empty(t, c.History())

	s.Step()
	require.Equal(t, 1, c.Drop)
	require.Len(t, c.History(), 1)
}

func TestStep_FullHistoryEvictsOldest(t *testing.T) {
	s := newTestState(t, 16, 320)
	c := s.Column(0)
	c.Drop = 0
	for n := 0; n < 20; n++ {
		s.Step()
	}
	require.Len(t, c.History(), 20)

	second := c.History()[1]
	last := c.History()[19]
	s.Step()

	require.Len(t, c.History(), 20)
	assert.Equal(t, second, c.History()[0])
	assert.Equal(t, last, c.History()[18])
}

func TestStep_ResetThreshold(t *testing.T) {
	s := newTestState(t, 16, 320)
	c := s.Column(0)

	assert.False(t, s.fallen(21))
	assert.False(t, s.fallen(25))
	assert.True(t, s.fallen(26))

	c.Drop = 21
	s.Step()
	require.Equal(t, 22, c.Drop)
	require.NotEmpty(t, c.History())

	c.Drop = 25
	s.Step()
	assert.GreaterOrEqual(t, c.Drop, -30)
	assert.LessOrEqual(t, c.Drop, -5)
	assert.Empty(t, c.History())
}

func TestStep_SkipsColumnsPastRightEdge(t *testing.T) {
	s := newTestState(t, 64, 320)
	require.True(t, s.Visible(s.Len()-1))
	assert.False(t, s.Visible(5))
	assert.False(t, s.Visible(-1))
}

func TestNew_DegenerateScreen(t *testing.T) {
	s := New(DefaultParams(8, 8))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Capacity())
	s.Step()
}

func TestParams_ResetRangeDefaultsAndOrdering(t *testing.T) {
	p := Params{Width: 16, Height: 320}.withDefaults()
	assert.Equal(t, DefaultCellSize, p.CellSize)
	assert.Equal(t, DefaultResetMin, p.ResetMin)
	assert.Equal(t, DefaultResetMax, p.ResetMax)

	p = Params{ResetMin: -5, ResetMax: -30}.withDefaults()
	assert.Equal(t, -30, p.ResetMin)
	assert.Equal(t, -5, p.ResetMax)
}
