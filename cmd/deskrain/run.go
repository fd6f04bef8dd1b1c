package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/1broseidon/deskrain/internal/config"
	"github.com/1broseidon/deskrain/internal/daemon"
	"github.com/1broseidon/deskrain/internal/platform"
	"github.com/1broseidon/deskrain/internal/rain"
	"github.com/1broseidon/deskrain/internal/runtimepath"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the rain until the exit key or an interrupt",
	Args:  cobra.NoArgs,
	RunE:  runRain,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return err
	}

	// Windows belong to the thread that created them; every surface call
	// happens on this goroutine.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx, stopSignals := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend, err := platform.Open(cfg.Backend, platformOptions(cfg))
	if err != nil {
		return err
	}
	defer backend.Close()

	// One rain per desktop; terminals are independent of each other.
	if backend.Name() != platform.BackendTerminal {
		inst, err := acquireInstance()
		if err != nil {
			return err
		}
		defer inst.Release()
	}

	bounds, err := platform.ResolveVirtualDesktop(backend)
	if err != nil {
		return err
	}
	logger.Info("virtual desktop resolved",
		"backend", backend.Name(),
		"x", bounds.X, "y", bounds.Y,
		"width", bounds.Width, "height", bounds.Height)

	surface, err := backend.OpenSurface(bounds)
	if err != nil {
		return fmt.Errorf("failed to open surface: %w", err)
	}
	defer surface.Close()

	applyAttributes(surface, palette)

	state := rain.New(cfg.RainParams(bounds.Width, bounds.Height))
	pins := make(chan struct{}, 1)

	watchdog := daemon.NewWatchdog(daemon.WatchdogConfig{
		Interval: cfg.WatchdogInterval,
		Logger:   logger.With("component", "watchdog"),
	}, surface, pins, cancel)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watchdog.Run(ctx)
	}()

	loop := daemon.NewLoop(daemon.LoopConfig{
		FrameInterval: cfg.FrameInterval(),
		Palette:       palette,
		Logger:        logger.With("component", "render"),
	}, surface, state, pins)

	runErr := loop.Run(ctx)
	cancel()
	wg.Wait()

	logStats(loop.Stats())
	return runErr
}

func acquireInstance() (*runtimepath.Instance, error) {
	path, err := runtimepath.PIDFilePath()
	if err != nil {
		return nil, err
	}
	return runtimepath.Acquire(path)
}

func platformOptions(cfg *config.Config) platform.Options {
	return platform.Options{
		Title:    "deskrain",
		CellSize: cfg.CellSize,
		ExitKey:  cfg.ExitKey,
		Logger:   logger,
	}
}

// applyAttributes turns on the surface styles. None of them is required for
// the rain to run, so failures are only logged.
func applyAttributes(surface platform.Surface, palette daemon.Palette) {
	if err := surface.EnableTransparency(palette.Key); err != nil {
		logger.Warn("transparency unavailable", "error", err)
	}
	if err := surface.EnableClickThrough(); err != nil {
		logger.Warn("click-through unavailable", "error", err)
	}
	if err := surface.PinToBottom(); err != nil {
		logger.Warn("failed to pin surface to bottom", "error", err)
	}
}

func logStats(stats daemon.Stats) {
	fps := 0.0
	if secs := stats.Uptime.Seconds(); secs > 0 {
		fps = float64(stats.Frames) / secs
	}
	logger.Info("rain stopped",
		"frames", humanize.Comma(int64(stats.Frames)),
		"uptime", stats.Uptime.Round(time.Second).String(),
		"fps", humanize.FtoaWithDigits(fps, 1))
}
