package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iburimskiy/mode-compass/internal/compass"
	"github.com/iburimskiy/mode-compass/internal/config"
)

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(options{logLevel: "debug", mute: true, webAddr: ":9090", root: -1})
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Audio.Enabled || cfg.Web.Addr != ":9090" {
		t.Errorf("overrides not applied: log %q audio %v web %q", cfg.Log.Level, cfg.Audio.Enabled, cfg.Web.Addr)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]options{
		"root too high": {root: 12},
		"root negative": {root: -2},
		"mode too high": {root: -1, mode: 7},
		"bad log level": {root: -1, logLevel: "loud"},
	}
	for name, o := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(o); !errors.Is(err, config.ErrInvalid) {
				t.Errorf("loadConfig() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(options{configPath: filepath.Join(t.TempDir(), "nope.yaml"), root: -1}); err == nil {
		t.Error("loadConfig() with a missing file succeeded")
	}
}

func TestRunExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "d-dorian.wav")
	if err := run(options{export: out, mute: true, root: 2, mode: 1}); err != nil {
		t.Fatalf("run() = %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() <= 44 {
		t.Errorf("exported file is %d bytes, want audio after the header", info.Size())
	}
}

func TestNewEngineStartPosition(t *testing.T) {
	tests := []struct {
		name string
		o    options
		want string
	}{
		{"defaults", options{root: -1}, "C Major"},
		{"root only", options{root: 7}, "G Major"},
		{"mode only", options{root: -1, mode: 5}, "C Minor"},
		{"root and mode", options{root: 4, mode: 1}, "E Dorian"},
		{"export", options{root: 2, mode: 1, export: "out.wav"}, "D Dorian"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.o)
			if err != nil {
				t.Fatalf("loadConfig() = %v", err)
			}
			if cfg.SnapDuration() <= 0 {
				t.Fatalf("default snap duration %v, want animated snaps", cfg.SnapDuration())
			}
			clk := compass.NewManualClock(time.Unix(1_700_000_000, 0))
			eng := newEngine(cfg, tt.o, compass.WithClock(clk))
			if eng.Animating() {
				t.Error("engine starts mid-snap")
			}
			clk.Advance(time.Second)
			eng.Tick()
			if got := eng.Result().Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
