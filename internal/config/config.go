// Package config loads the start-up settings of the kaleidoscope from an
// optional TOML file and names the preference keys the controls persist.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gg"

	"Kaleidoboard/internal/state"
)

// Preference keys in the persisted key-value store.
const (
	PrefSymmetry     = "symmetry"
	PrefStrokeWeight = "strokeWeight"
)

// Control ranges of the sliders.
const (
	MinSymmetry     = 2
	MaxSymmetry     = 48
	SymmetryStep    = 2
	MinStrokeWeight = 1
	MaxStrokeWeight = 24
)

var (
	ErrInvalidSize     = errors.New("canvas size must be positive")
	ErrInvalidTick     = errors.New("tick interval must be positive")
	ErrInvalidLogLevel = errors.New("unknown log level")
)

type Config struct {
	Width        int           `toml:"width"`
	Height       int           `toml:"height"`
	Symmetry     int           `toml:"symmetry"`
	StrokeWeight float64       `toml:"stroke_weight"`
	TickInterval time.Duration `toml:"tick_interval"`
	Background   string        `toml:"background"`
	LogLevel     string        `toml:"log_level"`
	ExportName   string        `toml:"export_name"`
}

func Default() Config {
	return Config{
		Width:        1024,
		Height:       768,
		Symmetry:     state.DefaultSymmetry,
		StrokeWeight: state.DefaultStrokeWeight,
		TickInterval: 16 * time.Millisecond,
		Background:   "#000000",
		LogLevel:     "info",
		ExportName:   "kaleidoscopic-wunderbar",
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML to path.
func Save(path string, cfg Config) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("save config %s: %w", path, cerr)
		}
	}()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if err := c.Drawing().Validate(); err != nil {
		return err
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTick, c.TickInterval)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Drawing returns the symmetry and stroke part of the configuration.
func (c Config) Drawing() state.Config {
	return state.Config{Symmetry: c.Symmetry, StrokeWeight: c.StrokeWeight}
}

// BackgroundColor parses Background; gg.Hex falls back to black on garbage.
func (c Config) BackgroundColor() gg.RGBA {
	return gg.Hex(c.Background)
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}

// ClampSymmetry snaps n onto the symmetry slider: even, within range.
func ClampSymmetry(n int) int {
	if n < MinSymmetry {
		return MinSymmetry
	}
	if n > MaxSymmetry {
		return MaxSymmetry
	}
	return n - n%SymmetryStep
}

// ClampStrokeWeight limits w to the stroke width slider range.
func ClampStrokeWeight(w float64) float64 {
	if !(w >= MinStrokeWeight) {
		return MinStrokeWeight
	}
	if w > MaxStrokeWeight {
		return MaxStrokeWeight
	}
	return w
}
