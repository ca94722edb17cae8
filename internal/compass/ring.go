package compass

import "fmt"

// Ring identifies one of the four angular tracks.
type Ring int

const (
	PitchClass Ring = iota
	Degree
	Chromatic
	Highlight

	ringCount = 4
)

var ringNames = [ringCount]string{
	PitchClass: "pitchClass",
	Degree:     "degree",
	Chromatic:  "chromatic",
	Highlight:  "highlightPosition",
}

// Rings lists every ring in declaration order.
var Rings = [ringCount]Ring{PitchClass, Degree, Chromatic, Highlight}

func (r Ring) String() string {
	if !r.valid() {
		return fmt.Sprintf("Ring(%d)", int(r))
	}
	return ringNames[r]
}

func (r Ring) valid() bool {
	return r >= 0 && r < ringCount
}

// ParseRing resolves a ring from its name as used by hosts and config files.
func ParseRing(name string) (Ring, bool) {
	for i, n := range ringNames {
		if n == name {
			return Ring(i), true
		}
	}
	return 0, false
}

// RingState is the authoritative record for one ring.
type RingState struct {
	Angle     float64 `json:"angle"`
	Target    float64 `json:"target"`
	Animating bool    `json:"animating"`
}

// Angles is a snapshot of all four ring angles, indexed by Ring.
type Angles [ringCount]float64

// Of returns the angle stored for r, or 0 for an unknown ring.
func (a Angles) Of(r Ring) float64 {
	if !r.valid() {
		return 0
	}
	return a[r]
}

// state holds the mutable ring record. Only the active drag or the active
// animation may write a ring in any given frame.
type state struct {
	rings    [ringCount]RingState
	diatonic int
}

func (s *state) angles() Angles {
	var a Angles
	for i := range s.rings {
		a[i] = s.rings[i].Angle
	}
	return a
}

func (s *state) targets() Angles {
	var a Angles
	for i := range s.rings {
		a[i] = s.rings[i].Target
	}
	return a
}

// set stores a normalized angle. When the ring is idle the target follows.
func (s *state) set(r Ring, angle float64) {
	rs := &s.rings[r]
	rs.Angle = Normalize(angle)
	if !rs.Animating {
		rs.Target = rs.Angle
	}
}

// collapse ends any pending motion on r exactly where it currently is.
func (s *state) collapse(r Ring) {
	rs := &s.rings[r]
	rs.Target = rs.Angle
	rs.Animating = false
}

// Snapshot is a read-only copy of the engine state for renderers.
type Snapshot struct {
	Rings    [ringCount]RingState `json:"rings"`
	Group    Group                `json:"group"`
	Diatonic int                  `json:"diatonic"`
	Dragging bool                 `json:"dragging"`
}

// Ring returns the state of one ring.
func (s Snapshot) Ring(r Ring) RingState {
	if !r.valid() {
		return RingState{}
	}
	return s.Rings[r]
}

// Angles returns the current angles of all rings.
func (s Snapshot) Angles() Angles {
	var a Angles
	for i := range s.Rings {
		a[i] = s.Rings[i].Angle
	}
	return a
}

// Validate reports a broken engine invariant. A non-nil result is a bug.
func (s Snapshot) Validate() error {
	for _, r := range Rings {
		rs := s.Rings[r]
		if rs.Angle < 0 || rs.Angle >= Tau || !finite(rs.Angle) {
			return fmt.Errorf("ring %s: angle %v outside [0, 2π)", r, rs.Angle)
		}
		if rs.Animating != s.Group.Contains(r) {
			return fmt.Errorf("ring %s: animating=%v but active group is %s", r, rs.Animating, s.Group)
		}
		if !rs.Animating && rs.Target != rs.Angle {
			return fmt.Errorf("ring %s: idle with target %v != angle %v", r, rs.Target, rs.Angle)
		}
	}
	if s.Diatonic < 0 || s.Diatonic >= len(DiatonicOffsets) {
		return fmt.Errorf("diatonic index %d out of range", s.Diatonic)
	}
	if want := NearestDiatonicIndex(s.Rings[Degree].Angle, s.Rings[Chromatic].Angle); s.Diatonic != want {
		return fmt.Errorf("diatonic index %d, degree ring is nearest to %d", s.Diatonic, want)
	}
	return nil
}
