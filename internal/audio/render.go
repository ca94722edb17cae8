// Package audio plays and exports the scale the compass currently selects.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/mode-compass/internal/compass"
	"github.com/iburimskiy/mode-compass/internal/config"
)

// ErrUnsupported is returned for instrument files of an unknown type.
var ErrUnsupported = errors.New("unsupported file type")

// ScaleNotes returns the notes of the selected scale as ascending semitone
// offsets from middle C, ending on the octave. Without a mode only the root
// and its octave are returned.
func ScaleNotes(r compass.Result) []int {
	pcs := r.ScaleSemitones()
	if pcs == nil {
		root := r.RootIndex
		return []int{root, root + 12}
	}
	notes := make([]int, 0, len(pcs)+1)
	prev := -1
	for _, pc := range pcs {
		n := pc
		for n <= prev {
			n += 12
		}
		notes = append(notes, n)
		prev = n
	}
	return append(notes, notes[0]+12)
}

// Renderer turns a result into a note sequence. It does not touch the sound
// device, so it is also used for offline export.
type Renderer struct {
	format beep.Format
	note   time.Duration
	volume float64

	mu    sync.Mutex
	voice Voice
}

// NewRenderer builds a renderer with the built-in voice.
func NewRenderer(cfg config.AudioConfig) *Renderer {
	rate := beep.SampleRate(cfg.SampleRate)
	return &Renderer{
		format: beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2},
		note:   cfg.NoteLength(),
		volume: cfg.Volume,
		voice:  toneVoice{rate: rate},
	}
}

// Format is the output format of every rendered stream.
func (r *Renderer) Format() beep.Format {
	return r.format
}

// NoteSamples is the length of one note in output samples.
func (r *Renderer) NoteSamples() int {
	return r.format.SampleRate.N(r.note)
}

// Render returns the scale as a finite stream at the configured volume.
func (r *Renderer) Render(res compass.Result) beep.Streamer {
	r.mu.Lock()
	voice := r.voice
	r.mu.Unlock()

	length := r.NoteSamples()
	var notes []beep.Streamer
	for _, n := range ScaleNotes(res) {
		notes = append(notes, voice.Note(n, length))
	}
	return &effects.Volume{Streamer: beep.Seq(notes...), Base: 2, Volume: r.volume}
}

// LoadInstrument replaces the voice with a recorded note of middle C.
func (r *Renderer) LoadInstrument(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open instrument: %w", err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	if err != nil {
		return fmt.Errorf("decode instrument: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if buf.Len() == 0 {
		return fmt.Errorf("decode instrument: %s is empty", filepath.Base(path))
	}

	r.mu.Lock()
	r.voice = sampleVoice{buf: buf, rate: r.format.SampleRate}
	r.mu.Unlock()
	return nil
}

// UseTone switches back to the built-in voice.
func (r *Renderer) UseTone() {
	r.mu.Lock()
	r.voice = toneVoice{rate: r.format.SampleRate}
	r.mu.Unlock()
}

// ExportScale writes the rendered scale to a 16-bit stereo WAV file.
func (r *Renderer) ExportScale(path string, res compass.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := wav.Encode(f, r.Render(res), r.format); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	return f.Close()
}
