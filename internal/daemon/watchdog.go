package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/deskrain/internal/platform"
)

// DefaultWatchdogInterval is how often the watchdog polls for the exit key
// and re-requests the bottom of the stacking order.
const DefaultWatchdogInterval = time.Second

// EventSource yields pending surface events without blocking.
type EventSource interface {
	Events() []platform.Event
}

// WatchdogConfig holds configuration for the watchdog.
type WatchdogConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Watchdog stops the rain when the exit key is pressed or the surface goes
// away, and otherwise keeps asking the render loop to pin the surface to
// the bottom, since other windows may be lowered beneath it at any time.
type Watchdog struct {
	interval time.Duration
	events   EventSource
	pins     chan<- struct{}
	stop     context.CancelFunc
	logger   *slog.Logger
}

// NewWatchdog creates a watchdog. stop is called once on the exit key or
// when the surface closes.
func NewWatchdog(cfg WatchdogConfig, events EventSource, pins chan<- struct{}, stop context.CancelFunc) *Watchdog {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultWatchdogInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watchdog{
		interval: interval,
		events:   events,
		pins:     pins,
		stop:     stop,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled or an exit event arrives. Blocks.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Debug("watchdog started", "interval", w.interval)

	for {
		if w.check() {
			w.stop()
			return
		}
		select {
		case <-ctx.Done():
			w.logger.Debug("watchdog stopped")
			return
		case <-ticker.C:
		}
	}
}

// check performs a single pass and reports whether the rain should stop.
func (w *Watchdog) check() (exit bool) {
	// Recover from panics to keep the watchdog alive
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("watchdog panic recovered", "error", err)
		}
	}()

	for _, ev := range w.events.Events() {
		switch ev.Kind {
		case platform.EventExitKey, platform.EventClosed:
			w.logger.Info("stopping", "event", ev.Kind.String(), "detail", ev.Detail)
			return true
		}
	}

	// A request already pending covers this one.
	select {
	case w.pins <- struct{}{}:
	default:
	}
	return false
}
