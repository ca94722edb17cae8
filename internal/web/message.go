package web

import (
	"encoding/json"

	"github.com/iburimskiy/mode-compass/internal/compass"
)

// Message is the JSON frame sent to clients and served by GET /state.
type Message struct {
	Kind     string                       `json:"kind"`
	Client   string                       `json:"client,omitempty"`
	Group    compass.Group                `json:"group"`
	Root     int                          `json:"root"`
	Mode     int                          `json:"mode"`
	Label    string                       `json:"label"`
	Interval string                       `json:"interval"`
	Scale    []int                        `json:"scale,omitempty"`
	Rings    map[string]compass.RingState `json:"rings,omitempty"`
	Diatonic int                          `json:"diatonic"`
	Dragging bool                         `json:"dragging"`
}

const helloKind = "hello"

// NewMessage flattens an engine event for the wire.
func NewMessage(ev compass.Event) Message {
	m := Message{
		Kind:     ev.Kind.String(),
		Group:    ev.Group,
		Root:     ev.Result.RootIndex,
		Mode:     ev.Result.ModeIndex,
		Label:    ev.Result.Label(),
		Interval: ev.Result.Interval(),
		Scale:    ev.Result.ScaleSemitones(),
		Diatonic: ev.Snapshot.Diatonic,
		Dragging: ev.Snapshot.Dragging,
	}
	if ev.Kind == compass.StateChanged {
		m.Rings = make(map[string]compass.RingState, len(compass.Rings))
		for _, r := range compass.Rings {
			m.Rings[r.String()] = ev.Snapshot.Ring(r)
		}
	}
	return m
}

// Forward publishes every engine event to the hub and returns the
// unsubscribe function. Encoding happens on the engine's goroutine, so the
// hub never sees engine state.
func Forward(eng *compass.Engine, hub *Hub) func() {
	return eng.Subscribe(func(ev compass.Event) {
		data, err := json.Marshal(NewMessage(ev))
		if err != nil {
			hub.log.Error("encode event", "err", err)
			return
		}
		hub.Publish(data, ev.Kind == compass.StateChanged)
	})
}
