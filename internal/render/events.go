package render

import (
	"sync"

	"github.com/san-kum/driftmesh/internal/palette"
)

// Event is an input delivered to the renderer between frames.
type Event interface {
	isEvent()
}

// PointerMoved is a mouse move in viewport coordinates.
type PointerMoved struct{ X, Y float64 }

// TouchMoved is the first touch point of a touch move.
type TouchMoved struct{ X, Y float64 }

// Resized replaces the viewport and regenerates the point set.
type Resized struct{ Viewport Viewport }

// ThemeChanged swaps the palette from the next frame on.
type ThemeChanged struct{ Theme palette.Theme }

func (PointerMoved) isEvent() {}
func (TouchMoved) isEvent()   {}
func (Resized) isEvent()      {}
func (ThemeChanged) isEvent() {}

// eventBuffer bounds the pending pointer events.
const eventBuffer = 256

func isPointer(ev Event) bool {
	switch ev.(type) {
	case PointerMoved, TouchMoved:
		return true
	}
	return false
}

// eventQueue holds input between frames in arrival order.
type eventQueue struct {
	mu      sync.Mutex
	events  []Event
	pointer int
}

// push appends ev and reports whether an older pointer event was evicted
// to make room.
func (q *eventQueue) push(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	evicted := false
	if isPointer(ev) {
		if q.pointer >= eventBuffer {
			q.evictPointer()
			evicted = true
		}
		q.pointer++
	}
	q.events = append(q.events, ev)
	return evicted
}

func (q *eventQueue) evictPointer() {
	for i, ev := range q.events {
		if isPointer(ev) {
			q.events = append(q.events[:i], q.events[i+1:]...)
			q.pointer--
			return
		}
	}
}

// take removes and returns every pending event.
func (q *eventQueue) take() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	q.pointer = 0
	return out
}

func (q *eventQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
