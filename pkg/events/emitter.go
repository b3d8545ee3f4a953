package events

import (
	"sync"

	"github.com/jscyril/golang_sound_manager/api"
)

// Handler receives the payload of an emitted event
type Handler func(data api.EventData)

type listener struct {
	id int
	fn Handler
}

// Emitter dispatches named events to registered handlers in registration order
type Emitter struct {
	listeners map[api.EventType][]listener
	nextID    int
	mu        sync.RWMutex
}

// NewEmitter creates an empty emitter
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[api.EventType][]listener)}
}

// On registers fn for event and returns a func removing it
func (e *Emitter) On(event api.EventType, fn Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.listeners[event] = append(e.listeners[event], listener{id: id, fn: fn})

	return func() { e.off(event, id) }
}

// Emit calls every handler registered for event. Handlers run on the
// caller's goroutine without the emitter lock held.
func (e *Emitter) Emit(event api.EventType, data api.EventData) bool {
	e.mu.RLock()
	ls := make([]listener, len(e.listeners[event]))
	copy(ls, e.listeners[event])
	e.mu.RUnlock()

	for _, l := range ls {
		l.fn(data)
	}
	return len(ls) > 0
}

// ListenerCount returns the number of handlers registered for event
func (e *Emitter) ListenerCount(event api.EventType) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event])
}

func (e *Emitter) off(event api.EventType, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls := e.listeners[event]
	for i, l := range ls {
		if l.id == id {
			e.listeners[event] = append(ls[:i], ls[i+1:]...)
			break
		}
	}
	if len(e.listeners[event]) == 0 {
		delete(e.listeners, event)
	}
}
