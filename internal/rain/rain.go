// Package rain holds the per-column animation state of the digital rain and
// the per-frame update that advances it.
package rain

import (
	"math/rand/v2"
)

// Glyph bounds: printable ASCII excluding space.
const (
	MinGlyph = 33
	MaxGlyph = 126
)

// Defaults used when Params leaves a field at zero.
const (
	DefaultCellSize     = 16
	DefaultResetMin     = -30
	DefaultResetMax     = -5
	DefaultResetMargin  = 5
	DefaultNearLookback = 4
)

// Params describes the screen the columns fall across.
type Params struct {
	// Width and Height are in pixels.
	Width  int
	Height int

	CellSize int

	// ResetMin and ResetMax bound the drop position (in cells) a column
	// restarts from after falling off the bottom.
	ResetMin int
	ResetMax int

	// ResetMargin is how many cells past the bottom edge a column keeps
	// falling before it restarts.
	ResetMargin int

	// NearLookback is how many entries before the leading glyph are drawn
	// in the Near tier.
	NearLookback int
}

// DefaultParams returns the stock parameters for a width x height screen.
func DefaultParams(width, height int) Params {
	return Params{
		Width:        width,
		Height:       height,
		CellSize:     DefaultCellSize,
		ResetMin:     DefaultResetMin,
		ResetMax:     DefaultResetMax,
		ResetMargin:  DefaultResetMargin,
		NearLookback: DefaultNearLookback,
	}
}

func (p Params) withDefaults() Params {
	if p.CellSize <= 0 {
		p.CellSize = DefaultCellSize
	}
	if p.ResetMin == 0 && p.ResetMax == 0 {
		p.ResetMin = DefaultResetMin
		p.ResetMax = DefaultResetMax
	}
	if p.ResetMax < p.ResetMin {
		p.ResetMin, p.ResetMax = p.ResetMax, p.ResetMin
	}
	if p.ResetMargin < 0 {
		p.ResetMargin = 0
	}
	if p.NearLookback < 0 {
		p.NearLookback = 0
	}
	return p
}

// Column is one vertical strip, one cell wide.
type Column struct {
	// Drop is the leading edge position in cells; negative means the
	// column is still above the visible area.
	Drop int

	history []rune
}

// History returns the glyphs trailing the leading edge, oldest first.
// The returned slice is owned by the column and is only valid until the
// next update.
func (c *Column) History() []rune {
	return c.history
}

// push appends g, evicting the oldest glyph first when the column is full.
func (c *Column) push(g rune, capacity int) {
	if capacity <= 0 {
		return
	}
	if len(c.history) < capacity {
		c.history = append(c.history, g)
		return
	}
	copy(c.history, c.history[1:])
	c.history[len(c.history)-1] = g
}

// Option configures a State.
type Option func(*State)

// WithRand sets the random source used for glyphs and drop positions.
func WithRand(r *rand.Rand) Option {
	return func(s *State) {
		if r != nil {
			s.rng = r
		}
	}
}

// State is the full set of columns for one screen.
// It is not safe for concurrent use; the render loop owns it.
type State struct {
	params   Params
	capacity int
	columns  []Column
	rng      *rand.Rand
}

// New creates the columns for a screen of the given size, each starting at
// a random height between one screen above the top and the top edge.
func New(params Params, opts ...Option) *State {
	params = params.withDefaults()

	s := &State{
		params:   params,
		capacity: params.Height / params.CellSize,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.capacity < 0 {
		s.capacity = 0
	}

	count := params.Width / params.CellSize
	if count < 0 {
		count = 0
	}
	s.columns = make([]Column, count)
	for i := range s.columns {
		s.columns[i] = Column{
			Drop:    s.intBetween(-s.capacity, 0),
			history: make([]rune, 0, s.capacity),
		}
	}
	return s
}

// Params returns the effective parameters after defaults were applied.
func (s *State) Params() Params {
	return s.params
}

// Capacity is the number of visible rows, the bound on every history.
func (s *State) Capacity() int {
	return s.capacity
}

// Len returns the number of columns.
func (s *State) Len() int {
	return len(s.columns)
}

// Column returns column i for inspection or seeding.
func (s *State) Column(i int) *Column {
	return &s.columns[i]
}

// Visible reports whether column i starts inside the horizontal extent.
func (s *State) Visible(i int) bool {
	x := i * s.params.CellSize
	return x >= 0 && x <= s.params.Width
}

// Step advances every visible column by one frame.
func (s *State) Step() {
	for i := range s.columns {
		if !s.Visible(i) {
			continue
		}
		s.update(&s.columns[i])
	}
}

func (s *State) update(c *Column) {
	if c.Drop >= 0 {
		c.push(s.glyph(), s.capacity)
	}

	c.Drop++

	if s.fallen(c.Drop) {
		c.Drop = s.intBetween(s.params.ResetMin, s.params.ResetMax)
		c.history = c.history[:0]
	}
}

// fallen reports whether a column at drop has cleared the bottom edge plus
// the reset margin.
func (s *State) fallen(drop int) bool {
	cell := s.params.CellSize
	return drop*cell > s.params.Height+s.params.ResetMargin*cell
}

func (s *State) glyph() rune {
	return rune(s.intBetween(MinGlyph, MaxGlyph))
}

// intBetween returns a uniform value in [lo, hi].
func (s *State) intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}
