package compass

import "math"

// Control is a logical input that rotates one or more rings.
type Control int

const (
	// PitchControl turns the pitch ring alone.
	PitchControl Control = iota
	// DegreeControl turns the degree ring with the highlight marker.
	DegreeControl
	// ChromaticControl turns every ring together.
	ChromaticControl
)

func (c Control) String() string {
	switch c {
	case PitchControl:
		return "pitch"
	case DegreeControl:
		return "degree"
	case ChromaticControl:
		return "chromatic"
	default:
		return "unknown"
	}
}

func (c Control) valid() bool {
	return c >= PitchControl && c <= ChromaticControl
}

// Group is the snap group that settles the control's rings.
func (c Control) Group() Group {
	switch c {
	case PitchControl:
		return PitchOnly
	case DegreeControl:
		return DegreeOnly
	case ChromaticControl:
		return ChromaticGroup
	default:
		return GroupNone
	}
}

// ControlFor maps a ring to the control that drags it.
func ControlFor(r Ring) Control {
	switch r {
	case PitchClass:
		return PitchControl
	case Chromatic:
		return ChromaticControl
	default:
		return DegreeControl
	}
}

// Surface is the kind of pointer surface a drag happens on.
type Surface int

const (
	// Canvas drags follow the pointer's angle around the wheel centre.
	Canvas Surface = iota
	// Belt drags convert linear pointer travel into rotation.
	Belt
)

// Orientation is the scroll axis of a belt.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// ParseOrientation accepts "horizontal" or "vertical".
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "horizontal":
		return Horizontal, true
	case "vertical":
		return Vertical, true
	}
	return Horizontal, false
}

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Point is a pointer position in host pixels.
type Point struct {
	X, Y float64
}

// Layout carries live measurements from the host. The engine never measures
// anything itself.
type Layout struct {
	// CellSize is the pixel length of one belt cell along its scroll axis.
	CellSize float64
	// Center is the wheel centre for canvas drags.
	Center Point
}

// DragSession is the scratch state of one gesture.
type DragSession struct {
	Control     Control
	Surface     Surface
	Orientation Orientation
	Origin      Point
	// Start holds every ring angle at gesture start. Deltas are applied to
	// it rather than accumulated frame to frame.
	Start Angles

	pointerStart float64
	anchored     bool
}

// SetLayout records the host's current measurements.
func (e *Engine) SetLayout(l Layout) {
	e.layout = l
}

// Drag returns the active session, if any.
func (e *Engine) Drag() (DragSession, bool) {
	if e.drag == nil {
		return DragSession{}, false
	}
	return *e.drag, true
}

// BeginDrag starts a gesture on a control. A snap already moving any of the
// control's rings is stopped where it is.
func (e *Engine) BeginDrag(c Control, s Surface, o Orientation, origin Point) {
	if !c.valid() || !finite(origin.X) || !finite(origin.Y) {
		return
	}
	if e.drag != nil {
		e.EndDrag()
	}
	e.claim(c.Group().Rings()...)

	d := &DragSession{
		Control:     c,
		Surface:     s,
		Orientation: o,
		Origin:      origin,
		Start:       e.st.angles(),
	}
	if s == Canvas {
		d.pointerStart, d.anchored = e.pointerAngle(origin)
	}
	e.drag = d
	e.dirty = true
}

// MoveDrag applies the pointer's displacement since gesture start.
func (e *Engine) MoveDrag(p Point) {
	d := e.drag
	if d == nil || !finite(p.X) || !finite(p.Y) {
		return
	}

	var functional, visual float64
	switch d.Surface {
	case Belt:
		raw := p.X - d.Origin.X
		if d.Orientation == Vertical {
			raw = p.Y - d.Origin.Y
		}
		delta, ok := PixelsToAngle(raw, e.layout.CellSize)
		if !ok {
			return
		}
		if d.Orientation == Vertical {
			// vertical belts count upwards, so a downward drag turns the
			// wheel back
			delta = -delta
		}
		// the chromatic belt gets the same delta as the rings it carries;
		// any difference would let a chromatic drag change root and mode
		functional, visual = delta, delta
	case Canvas:
		a, ok := e.pointerAngle(p)
		if !ok {
			return
		}
		if !d.anchored {
			d.pointerStart, d.anchored = a, true
			return
		}
		// full-circle difference: a gesture is one continuous sweep and
		// the rings are normalized anyway
		functional = a - d.pointerStart
		visual = functional
	default:
		return
	}

	e.apply(d, functional, visual)
}

func (e *Engine) apply(d *DragSession, functional, visual float64) {
	switch d.Control {
	case PitchControl:
		e.st.set(PitchClass, d.Start[PitchClass]+functional)
	case DegreeControl:
		e.st.set(Degree, d.Start[Degree]+functional)
		e.st.set(Highlight, d.Start[Highlight]+functional)
	case ChromaticControl:
		e.RotateCoupledSplit(d.Start, functional, visual)
		return
	}
	e.requantize()
	e.dirty = true
}

// EndDrag finishes the gesture and snaps the control's rings.
func (e *Engine) EndDrag() {
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	e.Snap(d.Control.Group())
}

// CancelDrag abandons the gesture and puts its rings back where they were.
func (e *Engine) CancelDrag() {
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	e.claim(d.Control.Group().Rings()...)
	for _, r := range d.Control.Group().Rings() {
		e.st.set(r, d.Start[r])
	}
	e.requantize()
	e.dirty = true
}

// PixelsToAngle converts pointer travel to rotation: one cell is one step.
// It fails for an unmeasured or degenerate cell size.
func PixelsToAngle(pixels, cellSize float64) (float64, bool) {
	if !finite(pixels) || !finite(cellSize) || cellSize <= 0 {
		return 0, false
	}
	return pixels / cellSize * AngleStep, true
}

// pointerAngle is the screen angle of p around the wheel centre, clockwise
// positive with y pointing down. Positions inside the dead zone have no
// usable angle.
func (e *Engine) pointerAngle(p Point) (float64, bool) {
	dx, dy := p.X-e.layout.Center.X, p.Y-e.layout.Center.Y
	r := math.Hypot(dx, dy)
	if r == 0 || r < e.deadZone {
		return 0, false
	}
	return math.Atan2(dy, dx), true
}
