package game

import (
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/mode-compass/internal/compass"
	"github.com/iburimskiy/mode-compass/internal/config"
)

var order = []compass.Ring{compass.PitchClass, compass.Degree, compass.Chromatic, compass.Highlight}

func TestMeasureHorizontal(t *testing.T) {
	g := measure(960, 720, order, compass.Horizontal, 7)

	if g.center != (compass.Point{X: 480, Y: 286}) {
		t.Errorf("center = %+v, want {480 286}", g.center)
	}
	if g.radius != 242 {
		t.Errorf("radius = %v, want 242", g.radius)
	}
	if want := 928.0 / 7; math.Abs(g.cell-want) > 1e-9 {
		t.Errorf("cell = %v, want %v", g.cell, want)
	}
	if len(g.belts) != 4 {
		t.Fatalf("got %d belts, want 4", len(g.belts))
	}
	for i, b := range g.belts {
		if b.ring != order[i] {
			t.Errorf("belt %d is %s, want %s", i, b.ring, order[i])
		}
		if y := 544 + i*(beltThick+beltGap); b.rect.Min.Y != y || b.rect.Dy() != beltThick {
			t.Errorf("belt %d rect = %v, want top %d height %d", i, b.rect, y, beltThick)
		}
	}
}

func TestMeasureVertical(t *testing.T) {
	g := measure(960, 720, order, compass.Vertical, 7)

	if g.center != (compass.Point{X: 392, Y: 374}) {
		t.Errorf("center = %+v, want {392 374}", g.center)
	}
	if g.radius != 330 {
		t.Errorf("radius = %v, want 330", g.radius)
	}
	if want := 660.0 / 7; math.Abs(g.cell-want) > 1e-9 {
		t.Errorf("cell = %v, want %v", g.cell, want)
	}
	for i, b := range g.belts {
		if x := 784 + i*(beltThick+beltGap); b.rect.Min.X != x || b.rect.Dx() != beltThick {
			t.Errorf("belt %d rect = %v, want left %d width %d", i, b.rect, x, beltThick)
		}
	}
}

func TestMeasureTinyWindow(t *testing.T) {
	g := measure(10, 10, order, compass.Horizontal, 7)
	if g.radius < 0 || g.cell < 0 {
		t.Errorf("radius %v cell %v, want non-negative", g.radius, g.cell)
	}
}

func TestHit(t *testing.T) {
	h := measure(960, 720, order, compass.Horizontal, 7)
	v := measure(960, 720, order, compass.Vertical, 7)

	tests := []struct {
		name   string
		geo    geometry
		x, y   int
		want   target
		wantOK bool
	}{
		{"first horizontal belt", h, 480, 560, target{compass.PitchClass, compass.Belt}, true},
		{"third horizontal belt", h, 100, 640, target{compass.Chromatic, compass.Belt}, true},
		{"gap between belts", h, 480, 580, target{}, false},
		{"chromatic band", h, 480, 68, target{compass.Chromatic, compass.Canvas}, true},
		{"pitch band", h, 480, 112, target{compass.PitchClass, compass.Canvas}, true},
		{"degree band left of centre", h, 355, 286, target{compass.Degree, compass.Canvas}, true},
		{"highlight band", h, 480, 200, target{compass.Highlight, compass.Canvas}, true},
		{"hub", h, 480, 286, target{}, false},
		{"vertical belt", v, 800, 300, target{compass.PitchClass, compass.Belt}, true},
		{"last vertical belt", v, 910, 100, target{compass.Highlight, compass.Belt}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.geo.hit(tt.x, tt.y)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("hit(%d, %d) = %+v, %v; want %+v, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name  string
		key   ebiten.Key
		shift bool
		want  action
	}{
		{"pitch forward", ebiten.KeyArrowRight, false, action{kind: actRotate, control: compass.PitchControl, n: 1}},
		{"pitch back fast", ebiten.KeyArrowLeft, true, action{kind: actRotate, control: compass.PitchControl, n: -3}},
		{"degree up", ebiten.KeyArrowUp, false, action{kind: actRotate, control: compass.DegreeControl, n: 1}},
		{"degree down", ebiten.KeyArrowDown, false, action{kind: actRotate, control: compass.DegreeControl, n: -1}},
		{"chromatic back", ebiten.KeyBracketLeft, false, action{kind: actRotate, control: compass.ChromaticControl, n: -1}},
		{"chromatic forward", ebiten.KeyBracketRight, true, action{kind: actRotate, control: compass.ChromaticControl, n: 3}},
		{"note 0", ebiten.KeyDigit0, false, action{kind: actSelect, n: 0}},
		{"note 7", ebiten.KeyDigit7, false, action{kind: actSelect, n: 7}},
		{"note 10", ebiten.KeyMinus, false, action{kind: actSelect, n: 10}},
		{"note 11", ebiten.KeyEqual, false, action{kind: actSelect, n: 11}},
		{"reset", ebiten.KeyR, false, action{kind: actReset}},
		{"replay", ebiten.KeySpace, false, action{kind: actReplay}},
		{"load", ebiten.KeyO, false, action{kind: actLoad}},
		{"export", ebiten.KeyE, false, action{kind: actExport}},
		{"quit", ebiten.KeyEscape, false, action{kind: actQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyAction(tt.key, tt.shift)
			if !ok || got != tt.want {
				t.Errorf("keyAction(%v, %v) = %+v, %v; want %+v", tt.key, tt.shift, got, ok, tt.want)
			}
		})
	}

	if _, ok := keyAction(ebiten.KeyZ, false); ok {
		t.Error("keyAction(Z) mapped to an action")
	}
}

type fakePlayer struct {
	played   []compass.Result
	loaded   []string
	exported []string
	level    float64
	err      error
}

func (p *fakePlayer) PlayScale(r compass.Result) { p.played = append(p.played, r) }
func (p *fakePlayer) Level(int) float64 { return p.level }

func (p *fakePlayer) LoadInstrument(path string) error {
	if p.err != nil {
		return p.err
	}
	p.loaded = append(p.loaded, path)
	return nil
}

func (p *fakePlayer) ExportScale(path string, _ compass.Result) error {
	if p.err != nil {
		return p.err
	}
	p.exported = append(p.exported, path)
	return nil
}

type fakeDialogs struct {
	path string
	err  error
}

func (d fakeDialogs) OpenInstrument() (string, error) { return d.path, d.err }
func (d fakeDialogs) SaveExport() (string, error) { return d.path, d.err }

// inputs is the fake hardware state read by the game.
type inputs struct {
	x, y int
	down bool
	keys map[ebiten.Key]bool
}

func (in *inputs) install(t *testing.T) {
	t.Helper()
	in.keys = map[ebiten.Key]bool{}
	restore := SetInputForTest(
		func() (int, int) { return in.x, in.y },
		func(b ebiten.MouseButton) bool { return b == ebiten.MouseButtonLeft && in.down },
		func(k ebiten.Key) bool { return in.keys[k] },
	)
	t.Cleanup(restore)
}

type harness struct {
	g   *Game
	eng *compass.Engine
	clk *compass.ManualClock
	in  *inputs
}

func newHarness(t *testing.T, player Player, dialogs Dialogs) *harness {
	t.Helper()
	clk := compass.NewManualClock(time.Unix(1_700_000_000, 0))
	eng := compass.New(compass.WithClock(clk), compass.WithSnapDuration(300*time.Millisecond))
	in := &inputs{}
	in.install(t)
	g := New(eng, player, dialogs, config.Default(), slog.New(slog.DiscardHandler))
	t.Cleanup(g.Close)
	return &harness{g: g, eng: eng, clk: clk, in: in}
}

// frame runs one 60 Hz update.
func (h *harness) frame(t *testing.T) error {
	t.Helper()
	h.clk.Advance(16 * time.Millisecond)
	return h.g.Update()
}

func (h *harness) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 60; i++ {
		if err := h.frame(t); err != nil {
			t.Fatalf("Update() = %v", err)
		}
		if !h.eng.Animating() {
			return
		}
	}
	t.Fatal("engine never settled")
}

// press taps a key for one frame.
func (h *harness) press(t *testing.T, k ebiten.Key) error {
	t.Helper()
	h.in.keys[k] = true
	err := h.frame(t)
	h.in.keys[k] = false
	if err2 := h.frame(t); err == nil {
		err = err2
	}
	return err
}

func TestUpdateBeltDrag(t *testing.T) {
	h := newHarness(t, nil, nil)

	// press on the pitch belt and pull one cell to the left
	h.in.x, h.in.y, h.in.down = 480, 560, true
	if err := h.frame(t); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.eng.Drag(); !ok {
		t.Fatal("press on the pitch belt did not start a drag")
	}
	h.in.x = 480 - 133
	if err := h.frame(t); err != nil {
		t.Fatal(err)
	}
	h.in.down = false
	h.settle(t)

	if _, ok := h.eng.Drag(); ok {
		t.Error("drag still active after release")
	}
	want := compass.Result{RootIndex: 1, ModeIndex: 0}
	if h.g.result != want {
		t.Errorf("cached result = %+v, want %+v", h.g.result, want)
	}
	if got := h.g.snap.Ring(compass.PitchClass).Angle; math.Abs(compass.MinimalDiff(got, compass.StepAngle(1))) > 1e-9 {
		t.Errorf("pitch angle = %v, want %v", got, compass.StepAngle(1))
	}
}

func TestUpdateCanvasDragMissesHub(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.in.x, h.in.y, h.in.down = 480, 286, true
	if err := h.frame(t); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.eng.Drag(); ok {
		t.Error("press on the hub started a drag")
	}
	h.in.x = 600
	h.in.down = false
	if err := h.frame(t); err != nil {
		t.Fatal(err)
	}
	if got := h.eng.Result(); got != (compass.Result{}) {
		t.Errorf("Result() = %+v, want C Major", got)
	}
}

func TestUpdateKeys(t *testing.T) {
	h := newHarness(t, nil, nil)

	if err := h.press(t, ebiten.KeyArrowRight); err != nil {
		t.Fatal(err)
	}
	h.settle(t)
	if got := h.eng.Result().RootIndex; got != 1 {
		t.Errorf("after right arrow root = %d, want 1", got)
	}

	if err := h.press(t, ebiten.KeyDigit7); err != nil {
		t.Fatal(err)
	}
	h.settle(t)
	if got := h.eng.Result().RootIndex; got != 7 {
		t.Errorf("after 7 root = %d, want 7", got)
	}

	if err := h.press(t, ebiten.KeyArrowUp); err != nil {
		t.Fatal(err)
	}
	h.settle(t)
	if got := h.eng.Result().ModeIndex; got != 2 {
		t.Errorf("after up arrow mode = %d, want 2 (Dorian)", got)
	}

	if err := h.press(t, ebiten.KeyR); err != nil {
		t.Fatal(err)
	}
	h.settle(t)
	if got := h.eng.Result(); got != (compass.Result{}) {
		t.Errorf("after reset result = %+v, want C Major", got)
	}
}

func TestUpdateHeldKeyFiresOnce(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.in.keys[ebiten.KeyArrowRight] = true
	for i := 0; i < 5; i++ {
		if err := h.frame(t); err != nil {
			t.Fatal(err)
		}
	}
	h.in.keys[ebiten.KeyArrowRight] = false
	h.settle(t)
	if got := h.eng.Result().RootIndex; got != 1 {
		t.Errorf("root = %d, want 1", got)
	}
}

func TestUpdateQuit(t *testing.T) {
	for _, k := range []ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ} {
		h := newHarness(t, nil, nil)
		h.in.keys[k] = true
		if err := h.g.Update(); !errors.Is(err, ebiten.Termination) {
			t.Errorf("Update() with %v = %v, want ebiten.Termination", k, err)
		}
	}
}

func TestSnapCompletionPlaysScale(t *testing.T) {
	p := &fakePlayer{level: 0.5}
	h := newHarness(t, p, nil)

	if err := h.press(t, ebiten.KeyArrowUp); err != nil {
		t.Fatal(err)
	}
	h.settle(t)

	if len(p.played) != 1 {
		t.Fatalf("PlayScale called %d times, want 1", len(p.played))
	}
	if want := (compass.Result{RootIndex: 0, ModeIndex: 2}); p.played[0] != want {
		t.Errorf("played %+v, want %+v", p.played[0], want)
	}
	if h.g.level <= 0 || h.g.level > 0.5 {
		t.Errorf("level = %v, want in (0, 0.5]", h.g.level)
	}

	if err := h.press(t, ebiten.KeySpace); err != nil {
		t.Fatal(err)
	}
	if len(p.played) != 2 {
		t.Errorf("replay: PlayScale called %d times, want 2", len(p.played))
	}
}

func TestLoadAndExport(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		key        ebiten.Key
		dialogs    fakeDialogs
		playerErr  error
		wantCalls  int
		wantErr    error
		wantNotice string
	}{
		{"load", ebiten.KeyO, fakeDialogs{path: "piano.wav"}, nil, 1, nil, "instrument loaded"},
		{"load cancelled", ebiten.KeyO, fakeDialogs{}, nil, 0, nil, ""},
		{"load dialog fails", ebiten.KeyO, fakeDialogs{err: boom}, nil, 0, boom, ""},
		{"load decode fails", ebiten.KeyO, fakeDialogs{path: "bad.wav"}, boom, 0, boom, ""},
		{"export", ebiten.KeyE, fakeDialogs{path: "scale.wav"}, nil, 1, nil, "exported C Major"},
		{"export cancelled", ebiten.KeyE, fakeDialogs{}, nil, 0, nil, ""},
		{"export fails", ebiten.KeyE, fakeDialogs{path: "/nope/scale.wav"}, boom, 0, boom, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePlayer{err: tt.playerErr}
			h := newHarness(t, p, tt.dialogs)

			if err := h.press(t, tt.key); err != nil {
				t.Fatal(err)
			}
			calls := len(p.loaded)
			if tt.key == ebiten.KeyE {
				calls = len(p.exported)
			}
			if calls != tt.wantCalls {
				t.Errorf("player called %d times, want %d", calls, tt.wantCalls)
			}
			if h.g.lastErr != tt.wantErr {
				t.Errorf("lastErr = %v, want %v", h.g.lastErr, tt.wantErr)
			}
			if h.g.notice != tt.wantNotice {
				t.Errorf("notice = %q, want %q", h.g.notice, tt.wantNotice)
			}
		})
	}
}

func TestLayoutResizeUpdatesEngine(t *testing.T) {
	h := newHarness(t, nil, nil)
	w, hh := h.g.Layout(640, 480)
	if w != 640 || hh != 480 {
		t.Errorf("Layout() = %d, %d; want 640, 480", w, hh)
	}
	if want := float64(640-2*margin) / 7; math.Abs(h.g.geo.cell-want) > 1e-9 {
		t.Errorf("cell = %v, want %v", h.g.geo.cell, want)
	}

	// one new cell of travel on the pitch belt is one step
	top := h.g.geo.belts[0].rect.Min.Y + 4
	h.in.x, h.in.y, h.in.down = 320, top, true
	if err := h.frame(t); err != nil {
		t.Fatal(err)
	}
	h.in.x = 320 + int(math.Round(2*h.g.geo.cell))
	if err := h.frame(t); err != nil {
		t.Fatal(err)
	}
	h.in.down = false
	h.settle(t)
	if got := h.eng.Result().RootIndex; got != 10 {
		t.Errorf("root = %d, want 10", got)
	}
}
