// Package playlist holds the track rotation the demo screen steps through.
package playlist

import (
	"errors"
	"sync"

	"github.com/jscyril/golang_sound_manager/api"
)

// ErrEmptyQueue is returned when selecting from a queue with no tracks
var ErrEmptyQueue = errors.New("queue is empty")

// Queue is a circular list of tracks with a current position
type Queue struct {
	tracks []*api.Track
	index  int
	mu     sync.RWMutex
}

// NewQueue creates a queue positioned on the first track
func NewQueue(tracks []api.Track) *Queue {
	q := &Queue{tracks: make([]*api.Track, len(tracks))}
	for i := range tracks {
		t := tracks[i]
		q.tracks[i] = &t
	}
	return q
}

// Current returns the current track
func (q *Queue) Current() *api.Track {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if len(q.tracks) == 0 {
		return nil
	}
	return q.tracks[q.index]
}

// Next moves to the next track, wrapping to the first
func (q *Queue) Next() *api.Track {
	return q.step(1)
}

// Previous moves to the previous track, wrapping to the last
func (q *Queue) Previous() *api.Track {
	return q.step(-1)
}

func (q *Queue) step(delta int) *api.Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.tracks)
	if n == 0 {
		return nil
	}
	q.index = ((q.index+delta)%n + n) % n
	return q.tracks[q.index]
}

// JumpTo selects the track at index
func (q *Queue) JumpTo(index int) (*api.Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return nil, ErrEmptyQueue
	}
	if index < 0 || index >= len(q.tracks) {
		return nil, errors.New("index out of bounds")
	}

	q.index = index
	return q.tracks[index], nil
}

// Len returns the number of tracks in the queue
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.tracks)
}

// Index returns the current index
func (q *Queue) Index() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.index
}
