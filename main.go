// Command mode-compass opens the desktop compass: a wheel of four rings plus
// draggable belts that select a root note and a mode, with audio playback
// and an optional websocket mirror.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/mode-compass/internal/audio"
	"github.com/iburimskiy/mode-compass/internal/compass"
	"github.com/iburimskiy/mode-compass/internal/config"
	"github.com/iburimskiy/mode-compass/internal/game"
	"github.com/iburimskiy/mode-compass/internal/log"
	"github.com/iburimskiy/mode-compass/internal/web"
)

type options struct {
	configPath string
	logLevel   string
	webAddr    string
	mute       bool
	export     string
	root       int
	mode       int
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to a YAML config file (built-in defaults when empty)")
	flag.StringVar(&o.logLevel, "log-level", "", "override the log level: debug, info, warn or error")
	flag.StringVar(&o.webAddr, "web", "", "serve /state and /ws on this address, e.g. :8080")
	flag.BoolVar(&o.mute, "mute", false, "disable audio playback")
	flag.StringVar(&o.export, "export", "", "render the selected scale to this WAV file and exit")
	flag.IntVar(&o.root, "root", -1, "start on this root note, 0 = C … 11 = B")
	flag.IntVar(&o.mode, "mode", 0, "start on this diatonic mode, 0 = Major … 6 = Locrian")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "mode-compass: %v\n", err)
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
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.mute {
		cfg.Audio.Enabled = false
	}
	if o.webAddr != "" {
		cfg.Web.Addr = o.webAddr
	}
	if o.root < -1 || o.root >= compass.Positions {
		return nil, fmt.Errorf("%w: -root %d outside 0..11", config.ErrInvalid, o.root)
	}
	if o.mode < 0 || o.mode >= len(compass.DiatonicOffsets) {
		return nil, fmt.Errorf("%w: -mode %d outside 0..6", config.ErrInvalid, o.mode)
	}
	return cfg, cfg.Validate()
}

// newEngine builds the engine already resting on the -root and -mode start
// position. Exports never animate.
func newEngine(cfg *config.Config, o options, extra ...compass.Option) *compass.Engine {
	duration := cfg.SnapDuration()
	if o.export != "" {
		duration = 0
	}
	opts := []compass.Option{
		compass.WithSnapDuration(duration),
		compass.WithDeadZone(cfg.Canvas.CenterDeadZonePx),
		compass.WithLogger(log.With("component", "engine")),
		compass.WithStart(o.root, o.mode),
	}
	return compass.New(append(opts, extra...)...)
}

func run(o options) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	log.Init(cfg.Log.Level)

	eng := newEngine(cfg, o)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Web.Addr != "" {
		hub := web.NewHub(log.With("component", "web"))
		defer web.Forward(eng, hub)()
		srv := web.NewServer(cfg.Web.Addr, hub, log.With("component", "web"))
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Error("web server failed", "err", err)
			}
		}()
	}

	player := audio.NewPlayer(cfg, log.With("component", "audio"))
	if cfg.Audio.Instrument != "" {
		if err := player.LoadInstrument(cfg.Audio.Instrument); err != nil {
			log.Warn("instrument not loaded, using the built-in voice", "err", err)
		}
	}

	if o.export != "" {
		res := eng.Result()
		if err := player.ExportScale(o.export, res); err != nil {
			return err
		}
		log.Info("scale exported", "path", o.export, "result", res.Label())
		return nil
	}

	if err := player.Init(); err != nil {
		log.Warn("audio unavailable, continuing muted", "err", err)
	}
	defer player.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.New(eng, player, game.ZenityDialogs{}, cfg, log.With("component", "game"))
	defer g.Close()

	log.Info("starting", "result", eng.Result().Label(), "belts", cfg.Belts.Orientation)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
