package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/mode-compass/internal/compass"
	"github.com/iburimskiy/mode-compass/internal/log"
)

// ErrInvalid marks a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid config")

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// SnapConfig tunes the snap animation.
type SnapConfig struct {
	DurationMs int `yaml:"duration_ms"` // 0 = settle instantly
}

// CanvasConfig tunes wheel gestures.
type CanvasConfig struct {
	CenterDeadZonePx float64 `yaml:"center_dead_zone_px"` // pointer moves closer than this to the centre are ignored
}

// BeltsConfig describes the linear belts.
type BeltsConfig struct {
	Orientation  string   `yaml:"orientation"`   // horizontal | vertical
	Order        []string `yaml:"order"`         // ring names, top/left first
	VisibleCells int      `yaml:"visible_cells"` // odd, the middle cell sits on the reference mark
}

// AudioConfig controls scale playback.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	NoteMs     int     `yaml:"note_ms"`
	Volume     float64 `yaml:"volume"`     // beep effects.Volume exponent, base 2
	Instrument string  `yaml:"instrument"` // optional wav/mp3/flac sample of middle C
}

// VisualConfig tunes the level ring drawn from played audio.
type VisualConfig struct {
	TapSize   int     `yaml:"tap_size"`  // samples kept for the level ring
	Smoothing float64 `yaml:"smoothing"` // 0 = no smoothing, <1
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// WebConfig enables the read-only state mirror.
type WebConfig struct {
	Addr string `yaml:"addr"` // empty = disabled
}

// Config aggregates all application configuration.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Snap   SnapConfig   `yaml:"snap"`
	Canvas CanvasConfig `yaml:"canvas"`
	Belts  BeltsConfig  `yaml:"belts"`
	Audio  AudioConfig  `yaml:"audio"`
	Visual VisualConfig `yaml:"visual"`
	Log    LogConfig    `yaml:"log"`
	Web    WebConfig    `yaml:"web"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: 960, Height: 720, Title: "Mode Compass"},
		Snap:   SnapConfig{DurationMs: 300},
		Canvas: CanvasConfig{CenterDeadZonePx: 12},
		Belts: BeltsConfig{
			Orientation:  "horizontal",
			Order:        []string{"pitchClass", "degree", "chromatic", "highlightPosition"},
			VisibleCells: 7,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			NoteMs:     220,
			Volume:     -0.5,
		},
		Visual: VisualConfig{TapSize: 8192, Smoothing: 0.6},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Keys absent from the file keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every value; errors wrap ErrInvalid.
func (c *Config) Validate() error {
	if c.Window.Width < 320 || c.Window.Height < 240 {
		return fmt.Errorf("%w: window must be at least 320x240, got %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Snap.DurationMs < 0 {
		return fmt.Errorf("%w: snap.duration_ms must be >= 0, got %d", ErrInvalid, c.Snap.DurationMs)
	}
	if c.Canvas.CenterDeadZonePx < 0 {
		return fmt.Errorf("%w: canvas.center_dead_zone_px must be >= 0, got %.2f", ErrInvalid, c.Canvas.CenterDeadZonePx)
	}
	if _, ok := compass.ParseOrientation(c.Belts.Orientation); !ok {
		return fmt.Errorf("%w: belts.orientation must be horizontal or vertical, got %q", ErrInvalid, c.Belts.Orientation)
	}
	if len(c.Belts.Order) == 0 {
		return fmt.Errorf("%w: belts.order is empty", ErrInvalid)
	}
	seen := map[compass.Ring]bool{}
	for _, name := range c.Belts.Order {
		r, ok := compass.ParseRing(name)
		if !ok {
			return fmt.Errorf("%w: belts.order: unknown ring %q", ErrInvalid, name)
		}
		if seen[r] {
			return fmt.Errorf("%w: belts.order: ring %q listed twice", ErrInvalid, name)
		}
		seen[r] = true
	}
	if c.Belts.VisibleCells < 3 || c.Belts.VisibleCells%2 == 0 {
		return fmt.Errorf("%w: belts.visible_cells must be odd and >= 3, got %d", ErrInvalid, c.Belts.VisibleCells)
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("%w: audio.sample_rate must be between 8000 and 192000, got %d", ErrInvalid, c.Audio.SampleRate)
	}
	if c.Audio.NoteMs <= 0 {
		return fmt.Errorf("%w: audio.note_ms must be > 0, got %d", ErrInvalid, c.Audio.NoteMs)
	}
	if c.Audio.Volume < -10 || c.Audio.Volume > 2 {
		return fmt.Errorf("%w: audio.volume must be between -10 and 2, got %.2f", ErrInvalid, c.Audio.Volume)
	}
	if c.Visual.TapSize <= 0 {
		return fmt.Errorf("%w: visual.tap_size must be > 0, got %d", ErrInvalid, c.Visual.TapSize)
	}
	if c.Visual.Smoothing < 0 || c.Visual.Smoothing >= 1 {
		return fmt.Errorf("%w: visual.smoothing must be in [0, 1), got %.2f", ErrInvalid, c.Visual.Smoothing)
	}
	if _, ok := log.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log.level must be debug, info, warn or error, got %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// SnapDuration returns the snap animation length.
func (c *Config) SnapDuration() time.Duration {
	return time.Duration(c.Snap.DurationMs) * time.Millisecond
}

// NoteLength returns how long each scale note sounds.
func (a AudioConfig) NoteLength() time.Duration {
	return time.Duration(a.NoteMs) * time.Millisecond
}

// BeltOrientation returns the configured belt axis.
func (c *Config) BeltOrientation() compass.Orientation {
	o, _ := compass.ParseOrientation(c.Belts.Orientation)
	return o
}

// BeltRings returns the rings shown as belts, in display order.
func (c *Config) BeltRings() []compass.Ring {
	out := make([]compass.Ring, 0, len(c.Belts.Order))
	for _, name := range c.Belts.Order {
		if r, ok := compass.ParseRing(name); ok {
			out = append(out, r)
		}
	}
	return out
}
