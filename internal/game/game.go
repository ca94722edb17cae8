// Package game is the desktop host: it draws the compass wheel and belts
// with ebiten and turns mouse, touch and keyboard input into engine calls.
package game

import (
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/mode-compass/internal/compass"
	"github.com/iburimskiy/mode-compass/internal/config"
)

// levelWindow is how many recent samples feed the centre level ring.
const levelWindow = 1024

// Player is the audio side the host drives.
type Player interface {
	PlayScale(compass.Result)
	Level(n int) float64
	LoadInstrument(path string) error
	ExportScale(path string, r compass.Result) error
}

// Dialogs asks the user for file paths. An empty path with a nil error means
// the user cancelled.
type Dialogs interface {
	OpenInstrument() (string, error)
	SaveExport() (string, error)
}

type Game struct {
	eng     *compass.Engine
	player  Player
	dialogs Dialogs
	cfg     *config.Config
	log     *slog.Logger

	geo      geometry
	outerW   int
	outerH   int
	rings    []compass.Ring
	visible  int
	dragging bool

	// input edge detection
	prevKey map[ebiten.Key]bool

	snap    compass.Snapshot
	result  compass.Result
	level   float64
	lastErr error
	notice  string

	unsubscribe func()
}

// New wires a host to an engine. player and dialogs may be nil.
func New(eng *compass.Engine, player Player, dialogs Dialogs, cfg *config.Config, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Game{
		eng:     eng,
		player:  player,
		dialogs: dialogs,
		cfg:     cfg,
		log:     logger,
		rings:   cfg.BeltRings(),
		visible: cfg.Belts.VisibleCells,
		prevKey: map[ebiten.Key]bool{},
		snap:    eng.Snapshot(),
		result:  eng.Result(),
	}
	g.unsubscribe = eng.Subscribe(g.onEvent)
	g.Layout(cfg.Window.Width, cfg.Window.Height)
	return g
}

// Close detaches the host from the engine.
func (g *Game) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}

func (g *Game) onEvent(ev compass.Event) {
	switch ev.Kind {
	case compass.StateChanged:
		g.snap = ev.Snapshot
		g.result = ev.Result
	case compass.SnapCompleted:
		g.log.Debug("snap completed", "group", ev.Group, "result", ev.Result.ShortLabel())
		if g.player != nil {
			g.player.PlayScale(ev.Result)
		}
	}
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := isKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	g.handlePointer()

	shift := isKeyPressed(ebiten.KeyShiftLeft) || isKeyPressed(ebiten.KeyShiftRight)
	for _, k := range watchedKeys {
		if !justPressed(k) {
			continue
		}
		a, ok := keyAction(k, shift)
		if !ok {
			continue
		}
		if a.kind == actQuit {
			return ebiten.Termination
		}
		g.do(a)
	}

	g.eng.Tick()

	if g.player != nil {
		s := g.cfg.Visual.Smoothing
		g.level = s*g.level + (1-s)*clamp01(g.player.Level(levelWindow))
	}
	return nil
}

// handlePointer turns press, move and release of the primary pointer into a
// gesture on whatever ring it started on.
func (g *Game) handlePointer() {
	x, y, down := pointer()
	p := compass.Point{X: float64(x), Y: float64(y)}

	switch {
	case down && !g.dragging:
		g.dragging = true
		if t, ok := g.geo.hit(x, y); ok {
			g.eng.BeginDrag(t.control(), t.surface, g.geo.orientation, p)
		}
	case down:
		g.eng.MoveDrag(p)
	case g.dragging:
		g.dragging = false
		g.eng.EndDrag()
	}
}

func (g *Game) do(a action) {
	switch a.kind {
	case actRotate:
		g.eng.RotateSteps(a.control, a.n)
	case actSelect:
		g.eng.SelectNote(a.n)
	case actReset:
		g.eng.Reset()
	case actReplay:
		if g.player != nil {
			g.player.PlayScale(g.eng.Result())
		}
	case actLoad:
		g.loadInstrument()
	case actExport:
		g.export()
	}
}

func (g *Game) loadInstrument() {
	if g.player == nil || g.dialogs == nil {
		return
	}
	path, err := g.dialogs.OpenInstrument()
	if err != nil || path == "" {
		g.setErr(err)
		return
	}
	if err := g.player.LoadInstrument(path); err != nil {
		g.setErr(err)
		return
	}
	g.lastErr = nil
	g.notice = "instrument loaded"
	g.log.Info("instrument loaded", "path", path)
}

func (g *Game) export() {
	if g.player == nil || g.dialogs == nil {
		return
	}
	path, err := g.dialogs.SaveExport()
	if err != nil || path == "" {
		g.setErr(err)
		return
	}
	if err := g.player.ExportScale(path, g.eng.Result()); err != nil {
		g.setErr(err)
		return
	}
	g.lastErr = nil
	g.notice = "exported " + g.eng.Result().ShortLabel()
	g.log.Info("scale exported", "path", path, "result", g.eng.Result().ShortLabel())
}

func (g *Game) setErr(err error) {
	if err == nil {
		return
	}
	g.lastErr = err
	g.log.Error("host action failed", "err", err)
}

// Layout measures the window; the engine gets the new cell size before the
// next gesture update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outerW || outsideHeight != g.outerH {
		g.outerW, g.outerH = outsideWidth, outsideHeight
		g.geo = measure(outsideWidth, outsideHeight, g.rings, g.cfg.BeltOrientation(), g.visible)
		g.eng.SetLayout(g.geo.layout())
	}
	return outsideWidth, outsideHeight
}

// ZenityDialogs shows native file dialogs.
type ZenityDialogs struct{}

func (ZenityDialogs) OpenInstrument() (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Load instrument sample (middle C)"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return path, err
}

func (ZenityDialogs) SaveExport() (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Title("Export scale"),
		zenity.Filename("scale.wav"),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "WAV",
			Patterns: []string{"*.wav"},
		}},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return path, err
}
