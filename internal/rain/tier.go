package rain

// Tier is the brightness class of a glyph, derived from its recency.
type Tier int

const (
	Dim Tier = iota
	Near
	Leading
)

func (t Tier) String() string {
	switch t {
	case Leading:
		return "leading"
	case Near:
		return "near"
	default:
		return "dim"
	}
}

// TierAt classifies entry j of a history of length n: the last entry leads,
// the lookback entries before it are near, everything older is dim.
func TierAt(j, n, lookback int) Tier {
	switch {
	case j == n-1:
		return Leading
	case j >= n-1-lookback:
		return Near
	default:
		return Dim
	}
}

// Cell is one drawable glyph of a column in cell coordinates.
type Cell struct {
	Row   int
	Glyph rune
	Tier  Tier
}

// Cells appends the on-screen glyphs of column i to dst and returns it.
// Rows outside [0, Capacity) are omitted.
func (s *State) Cells(dst []Cell, i int) []Cell {
	c := &s.columns[i]
	n := len(c.history)
	for j, g := range c.history {
		row := c.Drop - n + j
		y := row * s.params.CellSize
		if y < 0 || y >= s.params.Height {
			continue
		}
		dst = append(dst, Cell{
			Row:   row,
			Glyph: g,
			Tier:  TierAt(j, n, s.params.NearLookback),
		})
	}
	return dst
}
