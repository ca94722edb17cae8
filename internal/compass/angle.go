// Package compass implements the ring rotation and snap engine behind the
// mode compass: four concentric angular tracks whose relative angles select
// a root pitch and a musical mode.
//
// The engine is single-threaded. Hosts call gesture and command methods from
// their input callbacks and call Tick once per visual frame; subscribers are
// notified synchronously from Tick.
package compass

import "math"

const (
	// Tau is one full turn in radians.
	Tau = 2 * math.Pi

	// Positions is the number of chromatic slots on every ring.
	Positions = 12

	// AngleStep is the angular width of one chromatic slot.
	AngleStep = Tau / Positions

	// snapEpsilon is the smallest rotation worth animating.
	snapEpsilon = 1e-5
)

// Normalize maps any finite angle into [0, Tau).
func Normalize(a float64) float64 {
	n := math.Mod(a, Tau)
	if n < 0 {
		n += Tau
	}
	if n >= Tau || n == 0 {
		// -tiny + Tau rounds up to Tau; also folds -0 into 0
		return 0
	}
	return n
}

// MinimalDiff returns the shortest signed rotation from one angle to
// another, in (-Pi, Pi].
func MinimalDiff(from, to float64) float64 {
	d := Normalize(to - from)
	if d > math.Pi {
		d -= Tau
	}
	return d
}

// Ease is a quadratic in/out curve shared by every snap animation so that
// grouped rings accelerate and decelerate in lockstep.
func Ease(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 2 * t * t
	}
	u := 1 - t
	return 1 - 2*u*u
}

// IndexAtReference returns the chromatic slot sitting under the fixed
// reference mark for a ring at the given angle. Clockwise rotation moves the
// displayed index counter-clockwise, hence the sign flip.
func IndexAtReference(angle float64) int {
	i := int(math.Round(-Normalize(angle)/AngleStep)) % Positions
	if i < 0 {
		i += Positions
	}
	return i
}

// NearestStep rounds an angle to the closest multiple of AngleStep.
func NearestStep(angle float64) float64 {
	return Normalize(math.Round(angle/AngleStep) * AngleStep)
}

// StepAngle returns the ring angle that puts slot n under the reference mark.
func StepAngle(n int) float64 {
	return Normalize(-float64(n) * AngleStep)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
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
