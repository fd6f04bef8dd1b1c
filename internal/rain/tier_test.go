package rain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierAt_Split(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		leading int
		near    int
		dim     int
	}{
		{name: "single", n: 1, leading: 1},
		{name: "three", n: 3, leading: 1, near: 2},
		{name: "five", n: 5, leading: 1, near: 4},
		{name: "six", n: 6, leading: 1, near: 4, dim: 1},
		{name: "full", n: 20, leading: 1, near: 4, dim: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := map[Tier]int{}
			for j := 0; j < tt.n; j++ {
				counts[TierAt(j, tt.n, DefaultNearLookback)]++
			}
			assert.Equal(t, tt.leading, counts[Leading])
			assert.Equal(t, tt.near, counts[Near])
			assert.Equal(t, tt.dim, counts[Dim])
		})
	}
}

func TestTierAt_Positions(t *testing.T) {
	assert.Equal(t, Leading, TierAt(9, 10, 4))
	for j := 5; j <= 8; j++ {
		assert.Equal(t, Near, TierAt(j, 10, 4), "j=%d", j)
	}
	for j := 0; j <= 4; j++ {
		assert.Equal(t, Dim, TierAt(j, 10, 4), "j=%d", j)
	}
}

func TestCells_RowsAndClipping(t *testing.T) {
	s := newTestState(t, 16, 320)
	c := s.Column(0)
	c.Drop = 0
	for n := 0; n < 3; n++ {
		s.Step()
	}
	require.Equal(t, 3, c.Drop)

	cells := s.Cells(nil, 0)
	require.Len(t, cells, 3)
	for j, cell := range cells {
		assert.Equal(t, j, cell.Row)
		assert.Equal(t, c.History()[j], cell.Glyph)
	}
	assert.Equal(t, Leading, cells[2].Tier)
	assert.Equal(t, Near, cells[0].Tier)

	// A column hanging past the bottom only yields its on-screen rows.
	c.Drop = 23
	cells = s.Cells(cells[:0], 0)
	for _, cell := range cells {
		assert.Less(t, cell.Row, s.Capacity())
		assert.GreaterOrEqual(t, cell.Row, 0)
	}
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "leading", Leading.String())
	assert.Equal(t, "near", Near.String())
	assert.Equal(t, "dim", Dim.String())
}
