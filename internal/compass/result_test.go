package compass

import (
	"reflect"
	"testing"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name                     string
		pitch, degree, chromatic float64
		wantRoot, wantMode       int
		wantLabel                string
	}{
		{"rest", 0, 0, 0, 0, 0, "C Major"},
		{"pitch one step back", -AngleStep, 0, 0, 1, 0, "C♯/D♭ Major"},
		{"dorian", 0, StepAngle(2), 0, 0, 2, "C Dorian"},
		{"e minor", StepAngle(4), StepAngle(9), 0, 4, 9, "E Minor"},
		{"non-diatonic degree", 0, StepAngle(1), 0, 0, 1, "C …"},
		{"rigid chromatic turn", 1.1, 1.1, 1.1, 0, 0, "C Major"},
		{"measured in chromatic frame", StepAngle(7) + 0.5, StepAngle(5) + 0.5, 0.5, 7, 5, "G Lydian"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Derive(tt.pitch, tt.degree, tt.chromatic)
			if r.RootIndex != tt.wantRoot || r.ModeIndex != tt.wantMode {
				t.Errorf("Derive() = %+v, want root %d mode %d", r, tt.wantRoot, tt.wantMode)
			}
			if got := r.Label(); got != tt.wantLabel {
				t.Errorf("Label() = %q, want %q", got, tt.wantLabel)
			}
		})
	}
}

func TestDeriveRanges(t *testing.T) {
	for _, p := range samples {
		for _, c := range samples {
			r := Derive(p, p+c, c)
			if r.RootIndex < 0 || r.RootIndex >= Positions || r.ModeIndex < 0 || r.ModeIndex >= Positions {
				t.Errorf("Derive(%v, %v, %v) = %+v out of range", p, p+c, c, r)
			}
		}
	}
}

func TestModeName(t *testing.T) {
	want := map[int]string{0: "Major", 2: "Dorian", 4: "Phrygian", 5: "Lydian", 7: "Mixolydian", 9: "Minor", 11: "Locrian"}
	for i := 0; i < Positions; i++ {
		name, ok := Result{ModeIndex: i}.ModeName()
		w, diatonic := want[i]
		if ok != diatonic || name != w {
			t.Errorf("ModeName(%d) = %q, %v; want %q, %v", i, name, ok, w, diatonic)
		}
	}
}

func TestScaleSemitones(t *testing.T) {
	tests := []struct {
		name string
		r    Result
		want []int
	}{
		{"c major", Result{RootIndex: 0, ModeIndex: 0}, []int{0, 2, 4, 5, 7, 9, 11}},
		{"d dorian", Result{RootIndex: 2, ModeIndex: 2}, []int{2, 4, 5, 7, 9, 11, 0}},
		{"a minor", Result{RootIndex: 9, ModeIndex: 9}, []int{9, 11, 0, 2, 4, 5, 7}},
		{"c locrian", Result{RootIndex: 0, ModeIndex: 11}, []int{0, 1, 3, 5, 6, 8, 10}},
		{"no mode", Result{RootIndex: 0, ModeIndex: 3}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.ScaleSemitones(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScaleSemitones() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlotLabel(t *testing.T) {
	tests := []struct {
		ring Ring
		k    int
		want string
	}{
		{PitchClass, 0, "C"},
		{PitchClass, 10, "Bb"},
		{PitchClass, -1, "B"},
		{Degree, 6, "#4"},
		{Degree, 14, "2"},
		{Highlight, 4, "*"},
		{Highlight, 3, ""},
		{Chromatic, 11, "11"},
	}
	for _, tt := range tests {
		if got := SlotLabel(tt.ring, tt.k); got != tt.want {
			t.Errorf("SlotLabel(%s, %d) = %q, want %q", tt.ring, tt.k, got, tt.want)
		}
	}
}

func TestShortLabel(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Result{}, "C Major"},
		{Result{RootIndex: 3, ModeIndex: 2}, "Eb Dorian"},
		{Result{RootIndex: 6, ModeIndex: 9}, "F# Minor"},
		{Result{RootIndex: 0, ModeIndex: 1}, "C ..."},
	}
	for _, tt := range tests {
		if got := tt.r.ShortLabel(); got != tt.want {
			t.Errorf("%+v.ShortLabel() = %q, want %q", tt.r, got, tt.want)
		}
	}
}

// The plain labels name the same notes and intervals as the display ones.
func TestASCIILabelsMatchDisplay(t *testing.T) {
	for k := 0; k < Positions; k++ {
		root := Result{RootIndex: k}.RootName()
		if a := asciiNotes[k]; len(a) == 1 && root != a {
			t.Errorf("note %d: ascii %q, display %q", k, a, root)
		}
		if asciiIntervals[k][len(asciiIntervals[k])-1] != intervals[k][len(intervals[k])-1] {
			t.Errorf("interval %d: ascii %q, display %q", k, asciiIntervals[k], intervals[k])
		}
	}
}
