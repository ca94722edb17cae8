// Command compass-tui runs the compass in a terminal. Rings are drawn as
// belts of text cells that can be dragged with the mouse.
//
// Terminal belts always run along rows, so belts.orientation from the config
// file does not apply here.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/mode-compass/internal/audio"
	"github.com/iburimskiy/mode-compass/internal/compass"
	"github.com/iburimskiy/mode-compass/internal/config"
	"github.com/iburimskiy/mode-compass/internal/log"
	"github.com/iburimskiy/mode-compass/internal/tui"
)

type options struct {
	configPath string
	logFile    string
	mute       bool
	root       int
	mode       int
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to a YAML config file (built-in defaults when empty)")
	flag.StringVar(&o.logFile, "log-file", "", "write logs here; the terminal belongs to the UI")
	flag.BoolVar(&o.mute, "mute", false, "disable audio playback")
	flag.IntVar(&o.root, "root", -1, "start on this root note, 0 = C … 11 = B")
	flag.IntVar(&o.mode, "mode", 0, "start on this diatonic mode, 0 = Major … 6 = Locrian")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "compass-tui: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(o options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.mute {
		cfg.Audio.Enabled = false
	}
	if o.root < -1 || o.root >= compass.Positions {
		return nil, fmt.Errorf("%w: -root %d outside 0..11", config.ErrInvalid, o.root)
	}
	if o.mode < 0 || o.mode >= len(compass.DiatonicOffsets) {
		return nil, fmt.Errorf("%w: -mode %d outside 0..6", config.ErrInvalid, o.mode)
	}
	return cfg, cfg.Validate()
}

// newApp wires an engine resting on the start position to a terminal host.
func newApp(cfg *config.Config, o options, player tui.Player, logger *slog.Logger, extra ...compass.Option) (*tui.App, *compass.Engine) {
	if cfg.BeltOrientation() != compass.Horizontal {
		logger.Info("terminal belts are horizontal, ignoring belts.orientation", "orientation", cfg.Belts.Orientation)
	}
	opts := []compass.Option{
		compass.WithSnapDuration(cfg.SnapDuration()),
		compass.WithLogger(logger.With("component", "engine")),
		compass.WithStart(o.root, o.mode),
	}
	eng := compass.New(append(opts, extra...)...)
	return tui.New(eng, cfg.BeltRings(), player, logger.With("component", "tui")), eng
}

func run(o options) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}

	var w io.Writer = io.Discard
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	logger := log.New(w, cfg.Log.Level)
	slog.SetDefault(logger)

	player := audio.NewPlayer(cfg, logger.With("component", "audio"))
	if cfg.Audio.Instrument != "" {
		if err := player.LoadInstrument(cfg.Audio.Instrument); err != nil {
			logger.Warn("instrument not loaded, using the built-in voice", "err", err)
		}
	}
	if err := player.Init(); err != nil {
		logger.Warn("audio unavailable, continuing muted", "err", err)
	}
	defer player.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app, _ := newApp(cfg, o, player, logger)
	defer app.Close()
	return app.Run(screen)
}
