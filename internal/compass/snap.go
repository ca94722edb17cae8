package compass

import (
	"fmt"
	"math"
	"time"
)

// Group names the set of rings a snap animation moves. Only one group can
// be animating at a time; the engine stores the running group as a single
// value, so two concurrent groups cannot be represented.
type Group int

const (
	GroupNone Group = iota
	PitchOnly
	DegreeOnly
	// ChromaticGroup moves chromatic, pitch, degree and highlight together.
	ChromaticGroup
)

var groupRings = [...][]Ring{
	GroupNone:      nil,
	PitchOnly:      {PitchClass},
	DegreeOnly:     {Degree, Highlight},
	ChromaticGroup: {Chromatic, PitchClass, Degree, Highlight},
}

func (g Group) String() string {
	switch g {
	case GroupNone:
		return "none"
	case PitchOnly:
		return "pitch"
	case DegreeOnly:
		return "degree"
	case ChromaticGroup:
		return "chromatic"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

// MarshalText encodes the group by name.
func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a group name.
func (g *Group) UnmarshalText(b []byte) error {
	for _, c := range []Group{GroupNone, PitchOnly, DegreeOnly, ChromaticGroup} {
		if c.String() == string(b) {
			*g = c
			return nil
		}
	}
	return fmt.Errorf("unknown group %q", b)
}

// Rings lists the rings moved by the group.
func (g Group) Rings() []Ring {
	if g < 0 || int(g) >= len(groupRings) {
		return nil
	}
	return groupRings[g]
}

// Contains reports whether r moves with the group.
func (g Group) Contains(r Ring) bool {
	for _, x := range g.Rings() {
		if x == r {
			return true
		}
	}
	return false
}

func (g Group) overlaps(rings []Ring) bool {
	for _, r := range rings {
		if g.Contains(r) {
			return true
		}
	}
	return false
}

// animation is the running snap. A nil *animation means idle.
type animation struct {
	group     Group
	start     Angles
	end       Angles
	startTime time.Time
	// diatonic is the slot fixed when the gesture ended; the degree ring
	// settles on it whatever the easing produced.
	diatonic int
}

func (a *animation) negligible() bool {
	for _, r := range a.group.Rings() {
		if math.Abs(MinimalDiff(a.start[r], a.end[r])) >= snapEpsilon {
			return false
		}
	}
	return true
}

// Snap settles the group's rings onto valid musical positions: pitch on the
// nearest of the 12 steps, degree on the nearest diatonic slot, and the
// chromatic ring on the nearest step carrying everything else along.
func (e *Engine) Snap(g Group) {
	switch g {
	case PitchOnly, DegreeOnly, ChromaticGroup:
	default:
		return
	}
	e.interrupt()

	rs := &e.st.rings
	var diatonic int
	switch g {
	case PitchOnly:
		rs[PitchClass].Target = NearestStep(rs[PitchClass].Angle)
		diatonic = e.st.diatonic
	case DegreeOnly:
		diatonic = NearestDiatonicIndex(rs[Degree].Angle, rs[Chromatic].Angle)
		e.planDegree(DiatonicTarget(diatonic, rs[Chromatic].Target))
	case ChromaticGroup:
		diatonic = NearestDiatonicIndex(rs[Degree].Angle, rs[Chromatic].Angle)
		e.planChromatic(NearestStep(rs[Chromatic].Angle), diatonic)
	}
	e.launch(g, diatonic)
}

// Stop ends a running snap of group g where the rings currently are.
func (e *Engine) Stop(g Group) {
	if e.run == nil || e.run.group != g {
		return
	}
	e.interrupt()
}

// planDegree aims the degree ring at target; the highlight marker follows by
// the same rotation.
func (e *Engine) planDegree(target float64) {
	rs := &e.st.rings
	delta := MinimalDiff(rs[Degree].Angle, target)
	rs[Degree].Target = target
	rs[Highlight].Target = Normalize(rs[Highlight].Angle + delta)
}

// planChromatic aims the chromatic ring at target and carries pitch and
// degree with it rigidly.
func (e *Engine) planChromatic(target float64, diatonic int) {
	rs := &e.st.rings
	delta := MinimalDiff(rs[Chromatic].Angle, target)
	rs[Chromatic].Target = target
	rs[PitchClass].Target = NearestStep(rs[PitchClass].Angle + delta)
	e.planDegree(DiatonicTarget(diatonic, target))
}

// interrupt collapses any running snap onto the rings' current angles.
func (e *Engine) interrupt() {
	run := e.run
	if run == nil {
		return
	}
	e.run = nil
	for _, r := range run.group.Rings() {
		e.st.collapse(r)
	}
	e.log.Debug("snap interrupted", "group", run.group)
	e.queue(SnapInterrupted, run.group)
	e.dirty = true
}

// launch starts animating g from the current angles to the planned targets.
func (e *Engine) launch(g Group, diatonic int) {
	run := &animation{
		group:     g,
		start:     e.st.angles(),
		end:       e.st.targets(),
		startTime: e.clock.Now(),
		diatonic:  diatonic,
	}
	e.dirty = true
	if e.drag != nil && g.overlaps(e.drag.Control.Group().Rings()) {
		// a command took over the dragged rings
		e.drag = nil
	}

	if run.negligible() || e.duration <= 0 {
		e.finish(run)
		return
	}
	for _, r := range g.Rings() {
		e.st.rings[r].Animating = true
	}
	e.run = run
	e.log.Debug("snap started", "group", g, "diatonic", diatonic)
}

// step advances the running snap to now.
func (e *Engine) step(now time.Time) {
	run := e.run
	if run == nil {
		return
	}
	progress := clamp01(float64(now.Sub(run.startTime)) / float64(e.duration))
	if progress >= 1 {
		e.run = nil
		e.finish(run)
		return
	}
	k := Ease(progress)
	for _, r := range run.group.Rings() {
		e.st.rings[r].Angle = Normalize(run.start[r] + MinimalDiff(run.start[r], run.end[r])*k)
	}
	e.st.diatonic = NearestDiatonicIndex(e.st.rings[Degree].Angle, e.st.rings[Chromatic].Angle)
	e.dirty = true
}

// finish places the group's rings on their final angles. Pitch-only and
// degree-only snaps land on their stored targets. The chromatic group
// recomputes the degree ring from the diatonic slot fixed at gesture end and
// the chromatic rotation actually achieved, so the mode cannot flip during
// the settle.
func (e *Engine) finish(run *animation) {
	final := run.end
	if run.group == ChromaticGroup {
		// the chromatic ring lands exactly on its step; everything else is
		// expressed in that frame
		final[Degree] = DiatonicTarget(run.diatonic, final[Chromatic])
		final[Highlight] = Normalize(run.end[Highlight] + MinimalDiff(run.end[Degree], final[Degree]))
	}
	for _, r := range run.group.Rings() {
		rs := &e.st.rings[r]
		rs.Angle = Normalize(final[r])
		rs.Target = rs.Angle
		rs.Animating = false
	}
	e.st.diatonic = NearestDiatonicIndex(e.st.rings[Degree].Angle, e.st.rings[Chromatic].Angle)
	e.dirty = true

	e.log.Debug("snap finished", "group", run.group, "result", e.Result().Label())
	e.queue(SnapCompleted, run.group)
}
