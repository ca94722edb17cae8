package game

import (
	"image/color"
	"math"

	"github.com/iburimskiy/mode-compass/internal/compass"
)

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

// slotColor gives each chromatic slot its own hue around the circle of fifths
// so neighbouring keys stay distinguishable.
func slotColor(slot int, value float64) color.RGBA {
	fifths := (slot * 7) % compass.Positions
	r, g, b := hsvToRgb(float64(fifths)*30, 0.65, value)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func wrapSlot(k int) int {
	return ((k % compass.Positions) + compass.Positions) % compass.Positions
}

// polar converts a clockwise angle from 12 o'clock to screen coordinates.
func polar(c compass.Point, r, theta float64) (float64, float64) {
	return c.X + r*math.Sin(theta), c.Y - r*math.Cos(theta)
}
