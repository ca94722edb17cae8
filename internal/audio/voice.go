package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// middleC is the frequency of semitone 0.
const middleC = 261.6256

// Voice renders one note. semitone counts from middle C; length is in
// output samples.
type Voice interface {
	Note(semitone, length int) beep.Streamer
}

// Frequency returns the pitch of a semitone offset from middle C.
func Frequency(semitone int) float64 {
	return middleC * math.Pow(2, float64(semitone)/12)
}

// toneVoice is the built-in voice: a sine with a little triangle for
// body, shaped by a short attack and release.
type toneVoice struct {
	rate beep.SampleRate
}

func (v toneVoice) Note(semitone, length int) beep.Streamer {
	osc := &oscillator{freq: Frequency(semitone), rate: v.rate, length: length}
	return &envelope{
		streamer: osc,
		attack:   v.rate.N(5 * time.Millisecond),
		release:  v.rate.N(60 * time.Millisecond),
		total:    length,
	}
}

type oscillator struct {
	freq     float64
	phase    float64
	rate     beep.SampleRate
	length   int
	position int
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		tri := 4*math.Abs(o.phase-0.5) - 1
		val := 0.7*math.Sin(2*math.Pi*o.phase) + 0.3*tri
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a note in and out so consecutive notes do not click.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.position < e.attack {
			gain = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			gain = math.Min(gain, math.Max(0, float64(remaining)/float64(e.release)))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// sampleVoice pitch-shifts a recorded note of middle C.
type sampleVoice struct {
	buf  *beep.Buffer
	rate beep.SampleRate
}

func (v sampleVoice) Note(semitone, length int) beep.Streamer {
	ratio := float64(v.buf.Format().SampleRate) / float64(v.rate) * math.Pow(2, float64(semitone)/12)
	shifted := beep.ResampleRatio(4, ratio, v.buf.Streamer(0, v.buf.Len()))
	// pad short samples so every note lasts exactly length samples
	padded := beep.Seq(shifted, beep.Silence(-1))
	return &envelope{
		streamer: beep.Take(length, padded),
		release:  v.rate.N(30 * time.Millisecond),
		total:    length,
	}
}
