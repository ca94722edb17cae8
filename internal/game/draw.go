package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/mode-compass/internal/compass"
)

var (
	backgroundColor = color.RGBA{R: 14, G: 16, B: 24, A: 255}
	bandColor       = color.RGBA{R: 28, G: 32, B: 46, A: 255}
	outlineColor    = color.RGBA{R: 70, G: 80, B: 100, A: 255}
	activeColor     = color.RGBA{R: 240, G: 200, B: 90, A: 255}
	markColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// glyph size of the debug font
const glyphW, glyphH = 6, 16

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g.drawWheel(screen)
	for _, b := range g.geo.belts {
		g.drawBelt(screen, b)
	}
	g.drawStatus(screen)
}

func (g *Game) drawWheel(screen *ebiten.Image) {
	c := g.geo.center
	cx, cy := float32(c.X), float32(c.Y)

	for _, r := range []compass.Ring{compass.Chromatic, compass.PitchClass, compass.Degree, compass.Highlight} {
		in, out := g.geo.band(r)
		rs := g.snap.Ring(r)
		vector.DrawFilledCircle(screen, cx, cy, float32(out), bandColor, true)
		vector.DrawFilledCircle(screen, cx, cy, float32(in), backgroundColor, true)
		edge := outlineColor
		if rs.Animating {
			edge = activeColor
		}
		vector.StrokeCircle(screen, cx, cy, float32(out), 1.5, edge, true)

		mid := (in + out) / 2
		switch r {
		case compass.Chromatic:
			g.drawChromatic(screen, rs.Angle, in, out)
		case compass.Highlight:
			for i, d := range compass.DiatonicOffsets {
				x, y := polar(c, mid, rs.Angle+float64(d)*compass.AngleStep)
				vector.DrawFilledCircle(screen, float32(x), float32(y), float32((out-in)/4), slotColor(d, 0.9), true)
				if i == g.snap.Diatonic {
					vector.StrokeCircle(screen, float32(x), float32(y), float32((out-in)/3), 2, markColor, true)
				}
			}
		default:
			for k := 0; k < compass.Positions; k++ {
				x, y := polar(c, mid, rs.Angle+float64(k)*compass.AngleStep)
				label := compass.SlotLabel(r, k)
				ebitenutil.DebugPrintAt(screen, label, int(x)-len(label)*glyphW/2, int(y)-glyphH/2)
			}
		}
	}

	// level ring from the audio tap
	in, _ := g.geo.band(compass.Highlight)
	if g.level > 0.001 {
		lr := float32(in * clamp01(g.level*3))
		vector.DrawFilledCircle(screen, cx, cy, lr, slotColor(g.result.RootIndex, 0.6), true)
	}

	// fixed reference mark at 12 o'clock
	_, outer := g.geo.band(compass.Chromatic)
	top := cy - float32(outer)
	vector.StrokeLine(screen, cx-8, top-12, cx, top, 2, markColor, true)
	vector.StrokeLine(screen, cx+8, top-12, cx, top, 2, markColor, true)
}

// drawChromatic draws the frame ring: tick marks with the reading pointer at
// slot 0.
func (g *Game) drawChromatic(screen *ebiten.Image, angle, in, out float64) {
	c := g.geo.center
	for k := 0; k < compass.Positions; k++ {
		theta := angle + float64(k)*compass.AngleStep
		x1, y1 := polar(c, in, theta)
		x2, y2 := polar(c, in+(out-in)*0.35, theta)
		col := outlineColor
		width := float32(1)
		if k == 0 {
			col, width = markColor, 3
		}
		vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), width, col, true)

		lx, ly := polar(c, in+(out-in)*0.68, theta)
		label := compass.SlotLabel(compass.Chromatic, k)
		ebitenutil.DebugPrintAt(screen, label, int(lx)-len(label)*glyphW/2, int(ly)-glyphH/2)
	}
}

// drawBelt draws a ring as a strip of cells. The middle of the strip is the
// reference mark.
func (g *Game) drawBelt(screen *ebiten.Image, b belt) {
	rect := b.rect
	vector.DrawFilledRect(screen, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), bandColor, false)

	cell := g.geo.cell
	if cell <= 0 {
		return
	}
	rs := g.snap.Ring(b.ring)
	pos := compass.Normalize(-rs.Angle) / compass.AngleStep
	midX := float64(rect.Min.X+rect.Max.X) / 2
	midY := float64(rect.Min.Y+rect.Max.Y) / 2
	vertical := g.geo.orientation == compass.Vertical

	half := g.visible/2 + 1
	base := int(math.Floor(pos))
	for i := -half; i <= half+1; i++ {
		slot := base + i
		off := (float64(slot) - pos) * cell
		var x, y, w, h float64
		if vertical {
			// vertical belts count upwards
			x, y, w, h = float64(rect.Min.X), midY-off-cell/2, float64(rect.Dx()), cell
			if y+h < float64(rect.Min.Y) || y > float64(rect.Max.Y) {
				continue
			}
		} else {
			x, y, w, h = midX+off-cell/2, float64(rect.Min.Y), cell, float64(rect.Dy())
			if x+w < float64(rect.Min.X) || x > float64(rect.Max.X) {
				continue
			}
		}
		k := wrapSlot(slot)
		vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, slotColor(k, 0.5), false)
		label := compass.SlotLabel(b.ring, k)
		ebitenutil.DebugPrintAt(screen, label, int(x+w/2)-len(label)*glyphW/2, int(y+h/2)-glyphH/2)
	}

	edge := outlineColor
	if rs.Animating {
		edge = activeColor
	}
	if vertical {
		vector.StrokeRect(screen, float32(rect.Min.X), float32(midY-cell/2), float32(rect.Dx()), float32(cell), 2, markColor, false)
	} else {
		vector.StrokeRect(screen, float32(midX-cell/2), float32(rect.Min.Y), float32(cell), float32(rect.Dy()), 2, markColor, false)
	}
	vector.StrokeRect(screen, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), 1, edge, false)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	status := fmt.Sprintf("%s  | degree %s", g.result.ShortLabel(), compass.SlotLabel(compass.Degree, g.result.ModeIndex))
	if g.snap.Group != compass.GroupNone {
		status += " | snapping " + g.snap.Group.String()
	}
	if g.notice != "" {
		status += " | " + g.notice
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 6)
	ebitenutil.DebugPrintAt(screen, "arrows [ ] 0-9 - = : turn   R reset   Space play   O instrument   E export   Q quit", 12, g.geo.height-glyphH-2)
}
