// Package main provides the CLI entrypoint for deskrain.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskrain/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

var (
	globalOpts struct {
		verbose    bool
		configPath string
		backend    string
	}
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "deskrain",
	Short: "Digital rain on the desktop background",
	Long: `deskrain draws falling columns of characters across every monitor in a
transparent, click-through window kept below all other windows.

Press Escape (or the configured exit key) or send SIGINT/SIGTERM to stop.
Running deskrain without a subcommand is the same as "deskrain run".`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRain,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/deskrain/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.backend, "backend", "",
		"Window system backend: auto, x11, win32, terminal (overrides config)")
}

// loadConfig reads the config file, applies command line overrides and
// configures logging from the result.
func loadConfig() (*config.Config, error) {
	path := globalOpts.configPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config

	if globalOpts.backend != "" {
		cfg.Backend = globalOpts.backend
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --backend: %w", err)
		}
	}

	setupLogger(cfg.SlogLevel())
	if res.File != "" {
		logger.Debug("config loaded", "file", res.File)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}
	return cfg, nil
}

// setupLogger configures the global slog logger.
func setupLogger(level slog.Level) {
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
