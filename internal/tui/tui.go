// Package tui is a terminal host for the compass: every ring is drawn as a
// belt of text cells that can be dragged with the mouse or turned with keys.
package tui

import (
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/mode-compass/internal/compass"
)

const (
	cellW    = 4
	labelW   = 11
	firstRow = 2
	rowPitch = 3
	frame    = 16 * time.Millisecond
)

var (
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMark   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleActive = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCentre = tcell.StyleDefault.Reverse(true)
)

// Canvas is the part of tcell.Screen the renderer writes to.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

// Player plays the scale of a settled result.
type Player interface {
	PlayScale(compass.Result)
}

// App drives one engine from terminal events. All engine calls happen on
// the goroutine running Run.
type App struct {
	eng    *compass.Engine
	player Player
	log    *slog.Logger
	rings  []compass.Ring

	width, height int
	dragging      bool

	snap   compass.Snapshot
	result compass.Result

	unsubscribe func()
}

// New creates a terminal host showing one belt per ring, top to bottom.
// player may be nil.
func New(eng *compass.Engine, rings []compass.Ring, player Player, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		eng:    eng,
		player: player,
		log:    logger,
		rings:  rings,
		snap:   eng.Snapshot(),
		result: eng.Result(),
	}
	a.unsubscribe = eng.Subscribe(a.onEvent)
	eng.SetLayout(compass.Layout{CellSize: cellW})
	return a
}

// Close detaches the host from the engine.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) onEvent(ev compass.Event) {
	switch ev.Kind {
	case compass.StateChanged:
		a.snap = ev.Snapshot
		a.result = ev.Result
	case compass.SnapCompleted:
		if a.player != nil {
			a.player.PlayScale(ev.Result)
		}
	}
}

// Run takes over an initialised screen and returns when the user quits.
func (a *App) Run(screen tcell.Screen) error {
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	screen.HideCursor()
	a.resize(screen.Size())
	a.log.Info("terminal host started", "width", a.width, "height", a.height, "belts", len(a.rings))

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.Handle(ev) {
				return nil
			}
		case <-ticker.C:
			a.eng.Tick()
			screen.Clear()
			a.Draw(screen)
			screen.Show()
		}
	}
}

// Handle applies one terminal event. It returns false when the user asked to
// quit.
func (a *App) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		a.handleMouse(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		a.resize(ev.Size())
	}
	return true
}

func (a *App) handleMouse(x, y int, down bool) {
	p := compass.Point{X: float64(x), Y: float64(y)}
	switch {
	case down && !a.dragging:
		a.dragging = true
		if r, ok := a.hit(x, y); ok {
			a.eng.BeginDrag(compass.ControlFor(r), compass.Belt, compass.Horizontal, p)
		}
	case down:
		a.eng.MoveDrag(p)
	case a.dragging:
		a.dragging = false
		a.eng.EndDrag()
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	step := 1
	if ev.Modifiers()&tcell.ModShift != 0 {
		step = 3
	}
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.eng.RotateSteps(compass.PitchControl, -step)
	case tcell.KeyRight:
		a.eng.RotateSteps(compass.PitchControl, step)
	case tcell.KeyUp:
		a.eng.RotateSteps(compass.DegreeControl, step)
	case tcell.KeyDown:
		a.eng.RotateSteps(compass.DegreeControl, -step)
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return true
}

func (a *App) handleRune(r rune) bool {
	switch {
	case r == 'q' || r == 'Q':
		return false
	case r >= '0' && r <= '9':
		a.eng.SelectNote(int(r - '0'))
	case r == '-':
		a.eng.SelectNote(10)
	case r == '=':
		a.eng.SelectNote(11)
	case r == '[':
		a.eng.RotateSteps(compass.ChromaticControl, -1)
	case r == ']':
		a.eng.RotateSteps(compass.ChromaticControl, 1)
	case r == 'r' || r == 'R':
		a.eng.Reset()
	case r == ' ':
		if a.player != nil {
			a.player.PlayScale(a.eng.Result())
		}
	}
	return true
}

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
}

func rowOf(i int) int { return firstRow + i*rowPitch }

// midX is the column of the reference mark, aligned to a cell centre.
func (a *App) midX() int {
	span := a.width - labelW
	return labelW + span/2
}

// hit returns the ring whose belt row is at (x, y).
func (a *App) hit(x, y int) (compass.Ring, bool) {
	if x < labelW || x >= a.width {
		return 0, false
	}
	for i, r := range a.rings {
		if y == rowOf(i) {
			return r, true
		}
	}
	return 0, false
}

// Draw renders the status line and the belts.
func (a *App) Draw(c Canvas) {
	w, h := c.Size()
	if w != a.width || h != a.height {
		a.resize(w, h)
	}

	status := a.result.Label()
	if g := a.snap.Group; g != compass.GroupNone {
		status += "  (" + g.String() + ")"
	}
	drawText(c, 1, 0, status, styleMark)

	for i, r := range a.rings {
		a.drawBelt(c, r, rowOf(i))
	}
	if h > 0 {
		drawText(c, 1, h-1, "drag belts | arrows [ ] 0-9 - = turn | r reset | space play | q quit", styleDim)
	}
}

func (a *App) drawBelt(c Canvas, r compass.Ring, y int) {
	rs := a.snap.Ring(r)
	nameStyle := styleText
	if rs.Animating {
		nameStyle = styleActive
	}
	drawText(c, 1, y, r.String(), nameStyle)

	mid := a.midX()
	c.SetContent(mid, y-1, 'v', nil, styleMark)
	c.SetContent(mid, y+1, '^', nil, styleMark)

	pos := compass.Normalize(-rs.Angle) / compass.AngleStep
	half := (a.width-labelW)/(2*cellW) + 1
	base := int(math.Round(pos))
	for k := base - half; k <= base+half; k++ {
		cx := mid + int(math.Round((float64(k)-pos)*cellW))
		slot := ((k % compass.Positions) + compass.Positions) % compass.Positions
		style := styleText
		if cx == mid {
			style = styleCentre
		}
		a.put(c, cx-cellW/2, y, '|', styleDim)
		text := compass.SlotLabel(r, slot)
		if text == "" {
			text = "."
		}
		label := []rune(text)
		start := cx - len(label)/2
		for j, ch := range label {
			a.put(c, start+j, y, ch, style)
		}
	}
}

// put writes inside the belt area only.
func (a *App) put(c Canvas, x, y int, ch rune, style tcell.Style) {
	if x < labelW || x >= a.width {
		return
	}
	c.SetContent(x, y, ch, nil, style)
}

func drawText(c Canvas, x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		c.SetContent(x, y, ch, nil, style)
		x++
	}
}
