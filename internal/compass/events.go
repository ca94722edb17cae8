package compass

import "time"

// EventKind tags an engine notification.
type EventKind int

const (
	// StateChanged fires at most once per Tick, after the animator step and
	// any gesture updates of that frame.
	StateChanged EventKind = iota
	// SnapCompleted fires once for every snap that reaches its target.
	SnapCompleted
	// SnapInterrupted fires when a running snap is cut short by a drag or
	// by another group starting.
	SnapInterrupted
)

func (k EventKind) String() string {
	switch k {
	case StateChanged:
		return "state"
	case SnapCompleted:
		return "snapCompleted"
	case SnapInterrupted:
		return "snapInterrupted"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is delivered to subscribers.
type Event struct {
	Kind     EventKind `json:"kind"`
	Group    Group     `json:"group"`
	Snapshot Snapshot  `json:"snapshot"`
	Result   Result    `json:"result"`
}

// Handler receives engine events on the engine's goroutine.
type Handler func(Event)

// emitter fans events out to subscribers in subscription order.
type emitter struct {
	next     int
	handlers map[int]Handler
	order    []int
}

func (e *emitter) subscribe(h Handler) func() {
	if e.handlers == nil {
		e.handlers = make(map[int]Handler)
	}
	id := e.next
	e.next++
	e.handlers[id] = h
	e.order = append(e.order, id)

	return func() {
		delete(e.handlers, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
}

func (e *emitter) emit(ev Event) {
	// copy so handlers may unsubscribe while being called
	ids := append([]int(nil), e.order...)
	for _, id := range ids {
		if h, ok := e.handlers[id]; ok {
			h(ev)
		}
	}
}

// Clock supplies frame timestamps to the animator.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to. Hosts replaying input
// and tests use it to step animations deterministically.
type ManualClock struct {
	t time.Time
}

// NewManualClock returns a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{t: start}
}

func (c *ManualClock) Now() time.Time { return c.t }

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
