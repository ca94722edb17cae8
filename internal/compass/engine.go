package compass

import (
	"log/slog"
	"time"
)

// DefaultSnapDuration is how long a snap takes to settle.
const DefaultSnapDuration = 300 * time.Millisecond

// Engine owns the ring state, the active drag session and the snap animator.
// It is not safe for concurrent use; drive it from one goroutine.
type Engine struct {
	st     state
	run    *animation
	drag   *DragSession
	layout Layout

	clock    Clock
	duration time.Duration
	deadZone float64
	log      *slog.Logger

	events  emitter
	pending []Event
	dirty   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used to time snaps.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithSnapDuration sets the snap duration. Zero or less settles instantly.
func WithSnapDuration(d time.Duration) Option {
	return func(e *Engine) { e.duration = d }
}

// WithLogger sets the logger for snap diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDeadZone ignores canvas pointer positions closer than r pixels to the
// ring centre, where the pointer angle is undefined.
func WithDeadZone(r float64) Option {
	return func(e *Engine) {
		if finite(r) && r >= 0 {
			e.deadZone = r
		}
	}
}

// WithStart places the rings on root note root (0 = C … 11 = B) and diatonic
// slot mode (0 = Major … 6 = Locrian) without animating. A value out of
// range leaves its rings at 0.
func WithStart(root, mode int) Option {
	return func(e *Engine) {
		if root >= 0 && root < Positions {
			e.st.set(PitchClass, StepAngle(root))
		}
		if mode >= 0 && mode < len(DiatonicOffsets) {
			target := DiatonicTarget(mode, 0)
			e.st.set(Degree, target)
			e.st.set(Highlight, target)
			e.st.diatonic = mode
		}
	}
}

// New returns an engine with every ring at angle 0 (C Major) unless
// WithStart says otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:    systemClock{},
		duration: DefaultSnapDuration,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dirty = true
	return e
}

// Subscribe registers h for engine events and returns its cancel function.
func (e *Engine) Subscribe(h Handler) func() {
	return e.events.subscribe(h)
}

// SetRingAngle stores a normalized angle for r. It neither starts an
// animation nor notifies subscribers by itself; the change is published on
// the next Tick. Unknown rings and non-finite angles are ignored.
func (e *Engine) SetRingAngle(r Ring, angle float64) {
	if !r.valid() || !finite(angle) {
		return
	}
	e.claim(r)
	e.st.set(r, angle)
	e.requantize()
	e.dirty = true
}

// SetRingAngleByName is SetRingAngle keyed by ring name.
func (e *Engine) SetRingAngleByName(name string, angle float64) {
	r, ok := ParseRing(name)
	if !ok {
		return
	}
	e.SetRingAngle(r, angle)
}

// RotateCoupled rotates every ring by delta relative to a start snapshot.
func (e *Engine) RotateCoupled(start Angles, delta float64) {
	e.RotateCoupledSplit(start, delta, delta)
}

// RotateCoupledSplit rotates pitch, degree and highlight by functional and
// the chromatic ring by visual, both relative to start. Callers derive both
// deltas from the same pointer movement.
func (e *Engine) RotateCoupledSplit(start Angles, functional, visual float64) {
	if !finite(functional) || !finite(visual) {
		return
	}
	e.claim(Rings[:]...)
	e.st.set(PitchClass, start[PitchClass]+functional)
	e.st.set(Degree, start[Degree]+functional)
	e.st.set(Highlight, start[Highlight]+functional)
	e.st.set(Chromatic, start[Chromatic]+visual)
	e.requantize()
	e.dirty = true
}

// Tick advances the snap animator to the clock's current time and then
// publishes at most one StateChanged event followed by any snap
// completions. Call it once per frame, after input has been handled.
func (e *Engine) Tick() {
	e.step(e.clock.Now())

	if e.dirty {
		e.dirty = false
		snap := e.Snapshot()
		if err := snap.Validate(); err != nil {
			e.log.Error("ring state invariant broken", "err", err)
		}
		e.events.emit(Event{Kind: StateChanged, Group: snap.Group, Snapshot: snap, Result: e.Result()})
	}

	pending := e.pending
	e.pending = nil
	for _, ev := range pending {
		e.events.emit(ev)
	}
}

// Animating reports whether a snap is in flight.
func (e *Engine) Animating() bool {
	return e.run != nil
}

// ActiveGroup returns the group being animated, or GroupNone.
func (e *Engine) ActiveGroup() Group {
	if e.run == nil {
		return GroupNone
	}
	return e.run.group
}

// Snapshot copies the current state for rendering.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Rings:    e.st.rings,
		Group:    e.ActiveGroup(),
		Diatonic: e.st.diatonic,
		Dragging: e.drag != nil,
	}
}

// Result derives root and mode from the current angles.
func (e *Engine) Result() Result {
	return DeriveAngles(e.st.angles())
}

// DiatonicIndex returns the currently selected diatonic slot.
func (e *Engine) DiatonicIndex() int {
	return e.st.diatonic
}

// claim stops a running snap that moves any of rings so that a direct write
// never races the animator.
func (e *Engine) claim(rings ...Ring) {
	if e.run != nil && e.run.group.overlaps(rings) {
		e.interrupt()
	}
}

func (e *Engine) requantize() {
	e.st.diatonic = NearestDiatonicIndex(e.st.rings[Degree].Angle, e.st.rings[Chromatic].Angle)
}

func (e *Engine) queue(kind EventKind, g Group) {
	e.pending = append(e.pending, Event{
		Kind:     kind,
		Group:    g,
		Snapshot: e.Snapshot(),
		Result:   e.Result(),
	})
}
