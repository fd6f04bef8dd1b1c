package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskrain/internal/rain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLoop(surface *fakeSurface, interval time.Duration, pins <-chan struct{}) *Loop {
	state := rain.New(rain.DefaultParams(64, 64), rain.WithRand(rand.New(rand.NewPCG(1, 2))))
	return NewLoop(LoopConfig{
		FrameInterval: interval,
		Palette:       DefaultPalette(),
		Logger:        testLogger(),
	}, surface, state, pins)
}

func TestLoop_EveryFrameClearsToKeyColor(t *testing.T) {
	surface := newFakeSurface()
	loop := newTestLoop(surface, time.Hour, nil)
	palette := DefaultPalette()

	for i := 0; i < 20; i++ {
		require.NoError(t, loop.frame())
	}

	require.Len(t, surface.clears, 20)
	for _, c := range surface.clears {
		assert.Equal(t, palette.Key, c)
	}
	assert.Equal(t, 20, surface.presents)
	assert.Equal(t, uint64(20), loop.Stats().Frames)

	require.NotEmpty(t, surface.glyphs)
	for _, g := range surface.glyphs {
		assert.Zero(t, g.X%16)
		assert.Zero(t, g.Y%16)
		assert.GreaterOrEqual(t, g.Y, 0)
		assert.Less(t, g.Y, 64)
		assert.GreaterOrEqual(t, g.Glyph, rune(rain.MinGlyph))
		assert.LessOrEqual(t, g.Glyph, rune(rain.MaxGlyph))
		assert.NotEqual(t, palette.Key, g.Color)
	}
}

func TestLoop_StopsWithinOneFrameInterval(t *testing.T) {
	surface := newFakeSurface()
	interval := 200 * time.Millisecond
	loop := newTestLoop(surface, interval, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	<-surface.presented
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(interval):
		t.Fatal("render loop did not stop within one frame interval")
	}
}

func TestLoop_ReturnsImmediatelyWhenAlreadyCancelled(t *testing.T) {
	surface := newFakeSurface()
	loop := newTestLoop(surface, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, loop.Run(ctx))
	assert.Zero(t, surface.presents)
}

func TestLoop_ServicesPinRequestsBetweenFrames(t *testing.T) {
	surface := newFakeSurface()
	pins := make(chan struct{}, 1)
	pins <- struct{}{}
	loop := newTestLoop(surface, time.Hour, pins)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	assert.Eventually(t, func() bool { return surface.pinCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestLoop_PresentFailureIsFatal(t *testing.T) {
	surface := newFakeSurface()
	surface.presentErr = errors.New("connection lost")
	loop := newTestLoop(surface, time.Millisecond, nil)

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, surface.presentErr)
	assert.Zero(t, loop.Stats().Frames)
}

func TestLoop_PanicBecomesError(t *testing.T) {
	surface := newFakeSurface()
	surface.panicOn = "clear"
	loop := newTestLoop(surface, time.Millisecond, nil)

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestPalette_Color(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, p.Leading, p.Color(rain.Leading))
	assert.Equal(t, p.Near, p.Color(rain.Near))
	assert.Equal(t, p.Dim, p.Color(rain.Dim))
}
