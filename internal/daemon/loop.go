package daemon

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/1broseidon/deskrain/internal/rain"
)

// DefaultFrameInterval is 15 frames per second.
const DefaultFrameInterval = time.Second / 15

// Renderer is the part of a platform.Surface the render loop drives.
type Renderer interface {
	Clear(c color.RGBA)
	DrawGlyph(x, y int, g rune, c color.RGBA)
	Present() error
	PinToBottom() error
}

// LoopConfig holds configuration for the render loop.
type LoopConfig struct {
	FrameInterval time.Duration
	Palette       Palette
	Logger        *slog.Logger
}

// Loop draws the rain, advances it and presents the frame at a fixed rate.
// It is the only writer of the animation state and the only caller of the
// renderer.
type Loop struct {
	interval time.Duration
	palette  Palette
	renderer Renderer
	state    *rain.State
	pins     <-chan struct{}
	logger   *slog.Logger

	cells   []rain.Cell
	frames  atomic.Uint64
	started time.Time
}

// Stats summarizes a finished or running loop.
type Stats struct {
	Frames uint64
	Uptime time.Duration
}

// NewLoop creates a render loop. Pin requests received on pins are
// forwarded to renderer.PinToBottom between frames.
func NewLoop(cfg LoopConfig, renderer Renderer, state *rain.State, pins <-chan struct{}) *Loop {
	interval := cfg.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loop{
		interval: interval,
		palette:  cfg.Palette,
		renderer: renderer,
		state:    state,
		pins:     pins,
		logger:   logger,
	}
}

// Run renders frames until ctx is cancelled, which returns nil. A present
// failure or a panic inside a frame stops the loop with an error.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render loop panic: %v", r)
			l.logger.Error("render loop panic recovered", "error", r)
		}
	}()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.started = time.Now()
	l.logger.Info("render loop started",
		"interval", l.interval,
		"columns", l.state.Len(),
		"capacity", l.state.Capacity())

	for {
		if ctx.Err() != nil {
			l.logger.Info("render loop stopped", "frames", l.frames.Load())
			return nil
		}
		if err := l.frame(); err != nil {
			l.logger.Error("render loop failed", "frame", l.frames.Load(), "error", err)
			return err
		}
		if !l.wait(ctx, ticker.C) {
			l.logger.Info("render loop stopped", "frames", l.frames.Load())
			return nil
		}
	}
}

// wait blocks until the next tick, servicing pin requests meanwhile. It
// reports false when ctx is cancelled.
func (l *Loop) wait(ctx context.Context, tick <-chan time.Time) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-l.pins:
			l.pin()
		case <-tick:
			return true
		}
	}
}

func (l *Loop) pin() {
	if err := l.renderer.PinToBottom(); err != nil {
		l.logger.Warn("failed to pin surface to bottom", "error", err)
	}
}

// frame clears to the key color, draws every visible column, advances the
// animation and presents.
func (l *Loop) frame() error {
	l.renderer.Clear(l.palette.Key)

	cell := l.state.Params().CellSize
	for i := 0; i < l.state.Len(); i++ {
		if !l.state.Visible(i) {
			continue
		}
		l.cells = l.state.Cells(l.cells[:0], i)
		for _, c := range l.cells {
			l.renderer.DrawGlyph(i*cell, c.Row*cell, c.Glyph, l.palette.Color(c.Tier))
		}
	}

	l.state.Step()

	if err := l.renderer.Present(); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	l.frames.Add(1)
	return nil
}

// Stats returns the number of presented frames and the time since Run
// started.
func (l *Loop) Stats() Stats {
	s := Stats{Frames: l.frames.Load()}
	if !l.started.IsZero() {
		s.Uptime = time.Since(l.started)
	}
	return s
}
