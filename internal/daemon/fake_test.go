package daemon

import (
	"errors"
	"image/color"
	"sync"

	"github.com/1broseidon/deskrain/internal/platform"
)

type glyphCall struct {
	X, Y  int
	Glyph rune
	Color color.RGBA
}

// fakeSurface records renderer calls and serves queued events.
type fakeSurface struct {
	mu       sync.Mutex
	clears   []color.RGBA
	glyphs   []glyphCall
	presents int
	pins     int
	events   []platform.Event

	presentErr error
	panicOn    string
	presented  chan struct{}
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{presented: make(chan struct{}, 64)}
}

func (f *fakeSurface) Clear(c color.RGBA) {
	if f.panicOn == "clear" {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears = append(f.clears, c)
}

func (f *fakeSurface) DrawGlyph(x, y int, g rune, c color.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.glyphs = append(f.glyphs, glyphCall{X: x, Y: y, Glyph: g, Color: c})
}

func (f *fakeSurface) Present() error {
	if f.presentErr != nil {
		return f.presentErr
	}
	f.mu.Lock()
	f.presents++
	f.mu.Unlock()
	select {
	case f.presented <- struct{}{}:
	default:
	}
	return nil
}

func (f *fakeSurface) PinToBottom() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pins++
	return errors.New("window manager refused")
}

func (f *fakeSurface) Events() []platform.Event {
	if f.panicOn == "events" {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.events
	f.events = nil
	return out
}

func (f *fakeSurface) push(ev platform.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeSurface) pinCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pins
}
