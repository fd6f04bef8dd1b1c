package config

import (
	"fmt"
	"time"
)

// RawConfig mirrors Config with optional fields, so that only keys present
// in the file override defaults.
type RawConfig struct {
	Backend          *string    `yaml:"backend"`
	CellSize         *int       `yaml:"cell_size"`
	FrameRate        *int       `yaml:"frame_rate"`
	WatchdogInterval *string    `yaml:"watchdog_interval"`
	ResetMin         *int       `yaml:"reset_min"`
	ResetMax         *int       `yaml:"reset_max"`
	ResetMargin      *int       `yaml:"reset_margin"`
	NearLookback     *int       `yaml:"near_lookback"`
	ExitKey          *string    `yaml:"exit_key"`
	LogLevel         *string    `yaml:"log_level"`
	Colors           *RawColors `yaml:"colors"`
}

type RawColors struct {
	Key     *string `yaml:"key"`
	Leading *string `yaml:"leading"`
	Near    *string `yaml:"near"`
	Dim     *string `yaml:"dim"`
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = *raw.Backend
	}
	if raw.CellSize != nil {
		cfg.CellSize = *raw.CellSize
	}
	if raw.FrameRate != nil {
		cfg.FrameRate = *raw.FrameRate
	}
	if raw.WatchdogInterval != nil {
		d, err := time.ParseDuration(*raw.WatchdogInterval)
		if err != nil {
			return nil, &ValidationError{Path: "watchdog_interval", Err: fmt.Errorf("invalid duration %q", *raw.WatchdogInterval)}
		}
		cfg.WatchdogInterval = d
	}
	if raw.ResetMin != nil {
		cfg.ResetMin = *raw.ResetMin
	}
	if raw.ResetMax != nil {
		cfg.ResetMax = *raw.ResetMax
	}
	if raw.ResetMargin != nil {
		cfg.ResetMargin = *raw.ResetMargin
	}
	if raw.NearLookback != nil {
		cfg.NearLookback = *raw.NearLookback
	}
	if raw.ExitKey != nil {
		cfg.ExitKey = *raw.ExitKey
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if c := raw.Colors; c != nil {
		if c.Key != nil {
			cfg.Colors.Key = *c.Key
		}
		if c.Leading != nil {
			cfg.Colors.Leading = *c.Leading
		}
		if c.Near != nil {
			cfg.Colors.Near = *c.Near
		}
		if c.Dim != nil {
			cfg.Colors.Dim = *c.Dim
		}
	}

	return cfg, nil
}
