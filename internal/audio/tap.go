package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a streamer and keeps the most recent samples in a ring buffer
// so the renderer can show what is playing. Stream runs on the speaker
// goroutine; Snapshot and Level may be called from anywhere.
type Tap struct {
	Source beep.Streamer

	mu     sync.RWMutex
	buffer [][2]float64
	next   int
	filled bool
}

// NewTap keeps the last size samples of src.
func NewTap(src beep.Streamer, size int) *Tap {
	if size < 1 {
		size = 1
	}
	return &Tap{Source: src, buffer: make([][2]float64, size)}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for _, s := range samples[:n] {
			t.buffer[t.next] = s
			t.next++
			if t.next == len(t.buffer) {
				t.next = 0
				t.filled = true
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot returns up to the last n recorded samples, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	have := t.next
	if t.filled {
		have = len(t.buffer)
	}
	if n > have {
		n = have
	}
	if n <= 0 {
		return nil
	}
	out := make([][2]float64, n)
	start := t.next - n
	if start >= 0 {
		copy(out, t.buffer[start:t.next])
		return out
	}
	// wrapped: tail of the buffer, then its head
	k := copy(out, t.buffer[len(t.buffer)+start:])
	copy(out[k:], t.buffer[:t.next])
	return out
}

// Level is the RMS of the last n samples over both channels, in [0, 1] for
// unclipped audio.
func (t *Tap) Level(n int) float64 {
	s := t.Snapshot(n)
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s {
		sum += v[0]*v[0] + v[1]*v[1]
	}
	return math.Sqrt(sum / float64(2*len(s)))
}

// Reset forgets everything recorded so far.
func (t *Tap) Reset() {
	t.mu.Lock()
	clear(t.buffer)
	t.next = 0
	t.filled = false
	t.mu.Unlock()
}
