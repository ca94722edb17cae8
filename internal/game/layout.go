package game

import (
	"image"
	"math"

	"github.com/iburimskiy/mode-compass/internal/compass"
)

const (
	statusHeight = 28
	beltThick    = 32
	beltGap      = 8
	margin       = 16
)

// Ring bands as fractions of the wheel radius, outer to inner.
var bandFractions = map[compass.Ring][2]float64{
	compass.Chromatic:  {0.82, 1.00},
	compass.PitchClass: {0.62, 0.82},
	compass.Degree:     {0.42, 0.62},
	compass.Highlight:  {0.30, 0.42},
}

type belt struct {
	ring compass.Ring
	rect image.Rectangle
}

// geometry is everything measured from the current window size.
type geometry struct {
	width, height int
	orientation   compass.Orientation

	center compass.Point
	radius float64

	belts []belt
	cell  float64
}

// target is what a pointer press landed on.
type target struct {
	ring    compass.Ring
	surface compass.Surface
}

func (t target) control() compass.Control {
	return compass.ControlFor(t.ring)
}

// measure lays out the wheel and the belts. Horizontal belts stack under the
// wheel; vertical belts stand in columns to its right.
func measure(w, h int, rings []compass.Ring, o compass.Orientation, visible int) geometry {
	g := geometry{width: w, height: h, orientation: o}
	if visible < 1 {
		visible = 1
	}
	n := len(rings)
	strip := n*(beltThick+beltGap) + margin

	wheel := image.Rect(0, statusHeight, w, h)
	switch o {
	case compass.Vertical:
		wheel.Max.X = w - strip
		x := wheel.Max.X
		for _, r := range rings {
			g.belts = append(g.belts, belt{ring: r, rect: image.Rect(x, statusHeight+margin, x+beltThick, h-margin)})
			x += beltThick + beltGap
		}
		g.cell = float64(h-statusHeight-2*margin) / float64(visible)
	default:
		wheel.Max.Y = h - strip
		y := wheel.Max.Y
		for _, r := range rings {
			g.belts = append(g.belts, belt{ring: r, rect: image.Rect(margin, y, w-margin, y+beltThick)})
			y += beltThick + beltGap
		}
		g.cell = float64(w-2*margin) / float64(visible)
	}

	g.center = compass.Point{
		X: float64(wheel.Min.X+wheel.Max.X) / 2,
		Y: float64(wheel.Min.Y+wheel.Max.Y) / 2,
	}
	g.radius = math.Max(0, float64(min(wheel.Dx(), wheel.Dy()))/2-margin)
	if g.cell < 0 {
		g.cell = 0
	}
	return g
}

// band returns the inner and outer radius of a ring.
func (g geometry) band(r compass.Ring) (float64, float64) {
	f := bandFractions[r]
	return f[0] * g.radius, f[1] * g.radius
}

// hit resolves a pointer position to a ring surface.
func (g geometry) hit(x, y int) (target, bool) {
	p := image.Pt(x, y)
	for _, b := range g.belts {
		if p.In(b.rect) {
			return target{ring: b.ring, surface: compass.Belt}, true
		}
	}
	d := math.Hypot(float64(x)-g.center.X, float64(y)-g.center.Y)
	for _, r := range compass.Rings {
		in, out := g.band(r)
		if d >= in && d < out {
			return target{ring: r, surface: compass.Canvas}, true
		}
	}
	return target{}, false
}

// layout is what the engine needs to convert pointer travel.
func (g geometry) layout() compass.Layout {
	return compass.Layout{CellSize: g.cell, Center: g.center}
}
