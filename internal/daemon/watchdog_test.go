package daemon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskrain/internal/platform"
)

func newTestWatchdog(surface *fakeSurface, interval time.Duration) (*Watchdog, chan struct{}, *atomic.Int32) {
	pins := make(chan struct{}, 1)
	var stops atomic.Int32
	w := NewWatchdog(WatchdogConfig{Interval: interval, Logger: testLogger()}, surface, pins, func() {
		stops.Add(1)
	})
	return w, pins, &stops
}

func TestWatchdog_PostsOnePendingPinRequest(t *testing.T) {
	surface := newFakeSurface()
	w, pins, stops := newTestWatchdog(surface, time.Hour)

	assert.False(t, w.check())
	assert.False(t, w.check())
	assert.Len(t, pins, 1)

	<-pins
	assert.False(t, w.check())
	assert.Len(t, pins, 1)
	assert.Zero(t, stops.Load())
}

func TestWatchdog_StopsOnExitKey(t *testing.T) {
	surface := newFakeSurface()
	w, pins, stops := newTestWatchdog(surface, 20*time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	surface.push(platform.Event{Kind: platform.EventExitKey, Detail: "Escape"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not stop on exit key")
	}
	assert.Equal(t, int32(1), stops.Load())
	assert.LessOrEqual(t, len(pins), 1)
}

func TestWatchdog_StopsWhenSurfaceCloses(t *testing.T) {
	surface := newFakeSurface()
	surface.push(platform.Event{Kind: platform.EventClosed})
	w, pins, stops := newTestWatchdog(surface, time.Hour)

	w.Run(context.Background())
	assert.Equal(t, int32(1), stops.Load())
	assert.Empty(t, pins)
}

func TestWatchdog_ReturnsOnCancel(t *testing.T) {
	surface := newFakeSurface()
	w, _, stops := newTestWatchdog(surface, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not stop on cancel")
	}
	assert.Zero(t, stops.Load())
}

func TestWatchdog_RecoversFromPanic(t *testing.T) {
	surface := newFakeSurface()
	surface.panicOn = "events"
	w, _, _ := newTestWatchdog(surface, time.Hour)

	require.NotPanics(t, func() { assert.False(t, w.check()) })
}
