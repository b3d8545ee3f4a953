package events

import (
	"sync"

	"github.com/jscyril/golang_sound_manager/api"
)

// Bridge carries native envelopes to subscribers of named channels
type Bridge struct {
	subscribers map[string][]chan api.Envelope
	bufSize     int
	mu          sync.RWMutex
}

var (
	_ api.EventSource = (*Bridge)(nil)
	_ api.EventSink   = (*Bridge)(nil)
)

// NewBridge creates a new event bridge
func NewBridge() *Bridge {
	return &Bridge{
		subscribers: make(map[string][]chan api.Envelope),
		bufSize:     64,
	}
}

// Subscribe returns a channel receiving envelopes published on channel and
// a func that cancels the subscription.
func (b *Bridge) Subscribe(channel string) (<-chan api.Envelope, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan api.Envelope, b.bufSize)
	b.subscribers[channel] = append(b.subscribers[channel], ch)

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.unsubscribe(channel, ch) })
	}
}

// Publish broadcasts an envelope to all subscribers of channel
func (b *Bridge) Publish(channel string, env api.Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[channel] {
		select {
		case ch <- env:
		default:
			// Channel full, skip to prevent blocking the native side
		}
	}
}

// Emit publishes an event with data on channel
func (b *Bridge) Emit(channel string, event api.EventType, data api.EventData) {
	b.Publish(channel, api.Envelope{Event: event, Data: data})
}

func (b *Bridge) unsubscribe(channel string, ch chan api.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[channel]
	for i, sub := range subs {
		if sub == ch {
			b.subscribers[channel] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(b.subscribers[channel]) == 0 {
		delete(b.subscribers, channel)
	}
}

// Close closes all subscriber channels
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = make(map[string][]chan api.Envelope)
}
