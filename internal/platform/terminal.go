package platform

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
)

const terminalPollExitIn = 100 * time.Millisecond

// TerminalBackend renders into the controlling terminal, one character cell
// per glyph cell. Transparency maps to the terminal's own background; there
// is no window stacking to manage.
type TerminalBackend struct {
	screen   tcell.Screen
	opts     Options
	log      *slog.Logger
	events   chan Event
	pollDone chan struct{}
}

var _ Backend = (*TerminalBackend)(nil)

// NewTerminalBackend takes over the terminal attached to stdin/stdout.
func NewTerminalBackend(opts Options) (*TerminalBackend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return newTerminalBackend(screen, opts)
}

func newTerminalBackend(screen tcell.Screen, opts Options) (*TerminalBackend, error) {
	opts = opts.withDefaults()
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()

	b := &TerminalBackend{
		screen:   screen,
		opts:     opts,
		log:      opts.Logger.With("backend", BackendTerminal),
		events:   make(chan Event, 10),
		pollDone: make(chan struct{}),
	}
	go b.pollEvents()
	return b, nil
}

// pollEvents runs until Fini makes PollEvent return nil.
func (b *TerminalBackend) pollEvents() {
	defer close(b.pollDone)
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		key, ok := ev.(*tcell.EventKey)
		if !ok || !b.isExitKey(key) {
			continue
		}
		select {
		case b.events <- Event{Kind: EventExitKey, Detail: key.Name()}:
		default:
		}
	}
}

func (b *TerminalBackend) isExitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		r := []rune(b.opts.ExitKey)
		return len(r) == 1 && ev.Rune() == r[0]
	}
	return false
}

func (b *TerminalBackend) Name() string { return BackendTerminal }

// Displays reports the terminal as a single display measured in pixels of
// CellSize per character.
func (b *TerminalBackend) Displays() ([]Display, error) {
	cols, rows := b.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil, ErrNoDisplays
	}
	return []Display{{
		Name:    "terminal",
		Bounds:  Rect{Width: cols * b.opts.CellSize, Height: rows * b.opts.CellSize},
		Primary: true,
	}}, nil
}

func (b *TerminalBackend) OpenSurface(bounds Rect) (Surface, error) {
	return &terminalSurface{
		backend: b,
		cell:    b.opts.CellSize,
		bounds:  bounds,
		bg:      tcell.StyleDefault,
	}, nil
}

// Close restores the terminal.
func (b *TerminalBackend) Close() error {
	b.screen.Fini()
	select {
	case <-b.pollDone:
	case <-time.After(terminalPollExitIn):
	}
	return nil
}

type terminalSurface struct {
	backend *TerminalBackend
	cell    int
	bounds  Rect

	keyed bool
	key   color.RGBA
	bg    tcell.Style
}

var _ Surface = (*terminalSurface)(nil)

func (s *terminalSurface) Bounds() Rect { return s.bounds }

func (s *terminalSurface) EnableTransparency(key color.RGBA) error {
	s.key = key
	s.keyed = true
	return nil
}

func (s *terminalSurface) EnableClickThrough() error { return nil }

func (s *terminalSurface) PinToBottom() error { return nil }

func (s *terminalSurface) Clear(c color.RGBA) {
	s.bg = tcell.StyleDefault
	if !s.keyed || !sameRGB(c, s.key) {
		s.bg = s.bg.Background(rgbColor(c))
	}
	s.backend.screen.Fill(' ', s.bg)
}

func (s *terminalSurface) DrawGlyph(x, y int, g rune, c color.RGBA) {
	style := s.bg.Foreground(rgbColor(c))
	if s.keyed && sameRGB(c, s.key) {
		style = s.bg
		g = ' '
	}
	s.backend.screen.SetContent(x/s.cell, y/s.cell, g, nil, style)
}

func (s *terminalSurface) Present() error {
	s.backend.screen.Show()
	return nil
}

func (s *terminalSurface) Events() []Event {
	var out []Event
	for {
		select {
		case ev := <-s.backend.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func (s *terminalSurface) Close() error {
	s.backend.screen.Clear()
	s.backend.screen.Show()
	return nil
}

func rgbColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func sameRGB(a, b color.RGBA) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}
