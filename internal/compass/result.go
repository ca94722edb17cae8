package compass

import (
	"fmt"
	"strconv"
)

// NoMode is displayed when the degree ring rests on a non-diatonic slot.
const NoMode = "…"

var noteNames = [Positions]string{
	"C", "C♯/D♭", "D", "D♯/E♭", "E", "F", "F♯/G♭", "G", "G♯/A♭", "A", "A♯/B♭", "B",
}

var intervals = [Positions]string{
	"1", "♭2", "2", "♭3", "3", "4", "♯4", "5", "♭6", "6", "♭7", "7",
}

// ASCII forms of the tables above, for surfaces without the accidental
// glyphs.
var (
	asciiNotes     = [Positions]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}
	asciiIntervals = [Positions]string{"1", "b2", "2", "b3", "3", "4", "#4", "5", "b6", "6", "b7", "7"}
)

var modeNames = map[string]string{
	"1": "Major",
	"2": "Dorian",
	"3": "Phrygian",
	"4": "Lydian",
	"5": "Mixolydian",
	"6": "Minor",
	"7": "Locrian",
}

// Result is what the rings currently select.
type Result struct {
	RootIndex int `json:"root"`
	ModeIndex int `json:"mode"`
}

// Derive projects ring angles to a root pitch and mode. Both are measured in
// the chromatic ring's rotating frame.
func Derive(pitchAngle, degreeAngle, chromaticAngle float64) Result {
	return Result{
		RootIndex: IndexAtReference(Normalize(pitchAngle - chromaticAngle)),
		ModeIndex: IndexAtReference(Normalize(degreeAngle - chromaticAngle)),
	}
}

// DeriveAngles is Derive over a full angle snapshot.
func DeriveAngles(a Angles) Result {
	return Derive(a[PitchClass], a[Degree], a[Chromatic])
}

// RootName returns the pitch class name of the root.
func (r Result) RootName() string {
	return noteNames[wrap(r.RootIndex)]
}

// Interval returns the interval label of the mode slot.
func (r Result) Interval() string {
	return intervals[wrap(r.ModeIndex)]
}

// ModeName returns the mode name, or false for a non-diatonic slot.
func (r Result) ModeName() (string, bool) {
	name, ok := modeNames[r.Interval()]
	return name, ok
}

// Label is the display text, e.g. "C Major" or "D …".
func (r Result) Label() string {
	name, ok := r.ModeName()
	if !ok {
		name = NoMode
	}
	return fmt.Sprintf("%s %s", r.RootName(), name)
}

// ShortLabel is Label in ASCII, e.g. "Eb Dorian" or "C ...".
func (r Result) ShortLabel() string {
	name, ok := r.ModeName()
	if !ok {
		name = "..."
	}
	return asciiNotes[wrap(r.RootIndex)] + " " + name
}

// SlotLabel is the ASCII text printed on slot k of ring r. Highlight slots
// outside the diatonic set are blank.
func SlotLabel(r Ring, k int) string {
	k = wrap(k)
	switch r {
	case PitchClass:
		return asciiNotes[k]
	case Degree:
		return asciiIntervals[k]
	case Highlight:
		for _, d := range DiatonicOffsets {
			if d == k {
				return "*"
			}
		}
		return ""
	default:
		return strconv.Itoa(k)
	}
}

// Diatonic returns the diatonic slot of the mode, or false for a
// non-diatonic slot.
func (r Result) Diatonic() (int, bool) {
	for i, d := range DiatonicOffsets {
		if d == wrap(r.ModeIndex) {
			return i, true
		}
	}
	return 0, false
}

// ScaleSemitones lists the seven pitch classes of the selected mode starting
// at the root. It is nil when no mode is selected.
func (r Result) ScaleSemitones() []int {
	slot, ok := r.Diatonic()
	if !ok {
		return nil
	}
	base := DiatonicOffsets[slot]
	out := make([]int, len(DiatonicOffsets))
	for k := range out {
		d := DiatonicOffsets[(slot+k)%len(DiatonicOffsets)]
		out[k] = wrap(r.RootIndex + d - base)
	}
	return out
}

func wrap(i int) int {
	return ((i % Positions) + Positions) % Positions
}
