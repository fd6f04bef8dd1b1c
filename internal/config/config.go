package config

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/1broseidon/deskrain/internal/daemon"
	"github.com/1broseidon/deskrain/internal/rain"
)

// Config is the effective configuration after defaults and the config file
// are merged.
type Config struct {
	Backend          string        `yaml:"backend"`
	CellSize         int           `yaml:"cell_size"`
	FrameRate        int           `yaml:"frame_rate"`
	WatchdogInterval time.Duration `yaml:"watchdog_interval"`
	ResetMin         int           `yaml:"reset_min"`
	ResetMax         int           `yaml:"reset_max"`
	ResetMargin      int           `yaml:"reset_margin"`
	NearLookback     int           `yaml:"near_lookback"`
	ExitKey          string        `yaml:"exit_key"`
	LogLevel         string        `yaml:"log_level"`
	Colors           Colors        `yaml:"colors"`
}

// Colors are "#rrggbb" hex strings.
type Colors struct {
	Key     string `yaml:"key"`
	Leading string `yaml:"leading"`
	Near    string `yaml:"near"`
	Dim     string `yaml:"dim"`
}

const (
	minCellSize  = 4
	maxCellSize  = 256
	maxFrameRate = 120

	minWatchdogInterval = 100 * time.Millisecond
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:          "auto",
		CellSize:         rain.DefaultCellSize,
		FrameRate:        15,
		WatchdogInterval: daemon.DefaultWatchdogInterval,
		ResetMin:         rain.DefaultResetMin,
		ResetMax:         rain.DefaultResetMax,
		ResetMargin:      rain.DefaultResetMargin,
		NearLookback:     rain.DefaultNearLookback,
		ExitKey:          "Escape",
		LogLevel:         "info",
		Colors: Colors{
			Key:     "#000000",
			Leading: "#c8c8c8",
			Near:    "#969696",
			Dim:     "#323232",
		},
	}
}

// Validate checks every field and returns the first problem as a
// *ValidationError.
func (c *Config) Validate() error {
	switch c.Backend {
	case "auto", "x11", "win32", "terminal":
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, x11, win32, terminal")}
	}
	if c.CellSize < minCellSize || c.CellSize > maxCellSize {
		return &ValidationError{Path: "cell_size", Err: fmt.Errorf("cell_size must be between %d and %d", minCellSize, maxCellSize)}
	}
	if c.FrameRate < 1 || c.FrameRate > maxFrameRate {
		return &ValidationError{Path: "frame_rate", Err: fmt.Errorf("frame_rate must be between 1 and %d", maxFrameRate)}
	}
	if c.WatchdogInterval < minWatchdogInterval {
		return &ValidationError{Path: "watchdog_interval", Err: fmt.Errorf("watchdog_interval must be >= %s", minWatchdogInterval)}
	}
	if c.ResetMax > 0 {
		return &ValidationError{Path: "reset_max", Err: fmt.Errorf("reset_max must be <= 0")}
	}
	if c.ResetMin > c.ResetMax {
		return &ValidationError{Path: "reset_min", Err: fmt.Errorf("reset_min must be <= reset_max")}
	}
	if c.ResetMargin < 0 {
		return &ValidationError{Path: "reset_margin", Err: fmt.Errorf("reset_margin must be >= 0")}
	}
	if c.NearLookback < 0 {
		return &ValidationError{Path: "near_lookback", Err: fmt.Errorf("near_lookback must be >= 0")}
	}
	if strings.TrimSpace(c.ExitKey) == "" {
		return &ValidationError{Path: "exit_key", Err: fmt.Errorf("exit_key is required")}
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	for _, field := range c.Colors.fields() {
		if _, err := ParseColor(field.value); err != nil {
			return &ValidationError{Path: "colors." + field.name, Err: err}
		}
	}
	return nil
}

// Warnings lists settings that are valid but probably not intended.
func (c *Config) Warnings() []string {
	var out []string
	key := strings.ToLower(c.Colors.Key)
	for _, field := range c.Colors.fields()[1:] {
		if strings.ToLower(field.value) == key {
			out = append(out, fmt.Sprintf("colors.%s equals colors.key; %s glyphs will be invisible", field.name, field.name))
		}
	}
	return out
}

// FrameInterval is the time between frames.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return daemon.DefaultFrameInterval
	}
	return time.Second / time.Duration(c.FrameRate)
}

// RainParams returns the animation parameters for a surface of the given
// size.
func (c *Config) RainParams(width, height int) rain.Params {
	p := rain.DefaultParams(width, height)
	p.CellSize = c.CellSize
	p.ResetMin = c.ResetMin
	p.ResetMax = c.ResetMax
	p.ResetMargin = c.ResetMargin
	p.NearLookback = c.NearLookback
	return p
}

// Palette parses the configured colors. Call Validate first; invalid colors
// are reported again here.
func (c *Config) Palette() (daemon.Palette, error) {
	var out [4]color.RGBA
	for i, field := range c.Colors.fields() {
		rgba, err := ParseColor(field.value)
		if err != nil {
			return daemon.Palette{}, &ValidationError{Path: "colors." + field.name, Err: err}
		}
		out[i] = rgba
	}
	return daemon.Palette{Key: out[0], Leading: out[1], Near: out[2], Dim: out[3]}, nil
}

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}
	return slog.LevelInfo
}

type colorField struct {
	name  string
	value string
}

// fields returns the colors with the key first.
func (c Colors) fields() []colorField {
	return []colorField{
		{"key", c.Key},
		{"leading", c.Leading},
		{"near", c.Near},
		{"dim", c.Dim},
	}
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color into an opaque RGBA.
func ParseColor(s string) (color.RGBA, error) {
	col, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q, expected #rrggbb", s)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
