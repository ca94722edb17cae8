package audio

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/mode-compass/internal/compass"
	"github.com/iburimskiy/mode-compass/internal/config"
)

// Player plays rendered scales on the default sound device.
type Player struct {
	*Renderer

	tap      *Tap
	log      *slog.Logger
	enabled  bool
	initDone bool
	playing  atomic.Bool
	seq      atomic.Uint64
}

// NewPlayer prepares a player. Nothing is opened until Init.
func NewPlayer(cfg *config.Config, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		Renderer: NewRenderer(cfg.Audio),
		tap:      NewTap(beep.Silence(0), cfg.Visual.TapSize),
		log:      logger,
		enabled:  cfg.Audio.Enabled,
	}
}

// Init opens the sound device. A disabled player never opens it.
func (p *Player) Init() error {
	if !p.enabled || p.initDone {
		return nil
	}
	rate := p.format.SampleRate
	if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.initDone = true
	p.log.Info("audio ready", "sample_rate", int(rate))
	return nil
}

// Enabled reports whether PlayScale makes any sound.
func (p *Player) Enabled() bool {
	return p.enabled && p.initDone
}

// PlayScale stops whatever is playing and plays the scale for res.
func (p *Player) PlayScale(res compass.Result) {
	if !p.Enabled() {
		return
	}
	id := p.seq.Add(1)
	t := NewTap(p.Render(res), len(p.tap.buffer))

	speaker.Lock()
	speaker.Clear()
	p.tap = t
	speaker.Unlock()

	p.playing.Store(true)
	speaker.Play(beep.Seq(t, beep.Callback(func() {
		// a newer scale may already be playing
		if p.seq.Load() == id {
			p.playing.Store(false)
		}
	})))
	p.log.Debug("playing scale", "label", res.Label(), "notes", ScaleNotes(res))
}

// Playing reports whether a scale is still sounding.
func (p *Player) Playing() bool {
	return p.playing.Load()
}

// Level is the loudness of the last n played samples.
func (p *Player) Level(n int) float64 {
	if !p.Enabled() {
		return 0
	}
	speaker.Lock()
	t := p.tap
	speaker.Unlock()
	return t.Level(n)
}

// Close silences the device.
func (p *Player) Close() {
	if !p.initDone {
		return
	}
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	p.playing.Store(false)
}
