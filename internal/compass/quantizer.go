package compass

import "math"

// DiatonicOffsets are the chromatic offsets of the seven major-scale degrees.
var DiatonicOffsets = [7]int{0, 2, 4, 5, 7, 9, 11}

// NearestDiatonicIndex picks the diatonic slot closest to the degree ring
// measured relative to the chromatic ring. Ties go to the lower index.
//
// Live drag feedback and the gesture-end snap target both come from here so
// the mode shown while dragging never contradicts the settled one.
func NearestDiatonicIndex(degreeAngle, chromaticAngle float64) int {
	relative := Normalize(degreeAngle - chromaticAngle)
	best, bestDist := 0, math.Inf(1)
	for i, d := range DiatonicOffsets {
		target := Normalize(-float64(d) * AngleStep)
		if dist := math.Abs(MinimalDiff(relative, target)); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// DiatonicTarget returns the absolute degree ring angle for diatonic slot
// index within the frame of the given chromatic angle.
func DiatonicTarget(index int, chromaticAngle float64) float64 {
	index = ((index % len(DiatonicOffsets)) + len(DiatonicOffsets)) % len(DiatonicOffsets)
	return Normalize(chromaticAngle - float64(DiatonicOffsets[index])*AngleStep)
}
