package player

import (
	"github.com/jscyril/golang_sound_manager/api"
	playerrors "github.com/jscyril/golang_sound_manager/pkg/errors"
	"github.com/jscyril/golang_sound_manager/pkg/events"
)

// setIfInitialized forwards a single-key bundle once a prepare has been
// issued. Before that the mirrors reach the native layer with the next
// prepare.
func (p *Player) setIfInitialized(opts api.PlayerOptions, done func(error)) {
	if done == nil {
		done = noop
	}
	if p.State() == api.StateIdle {
		done(nil)
		return
	}
	p.native.Set(opts, func(err error) {
		if err != nil {
			p.logger.Debug("forward option failed", "error", err)
		}
		done(err)
	})
}

// SetTitle updates the title mirror and forwards it once prepared
func (p *Player) SetTitle(title string, done func(error)) {
	p.mu.Lock()
	p.title = title
	p.mu.Unlock()
	p.setIfInitialized(api.PlayerOptions{Title: api.String(title)}, done)
}

// SetAuthor updates the author mirror and forwards it once prepared
func (p *Player) SetAuthor(author string, done func(error)) {
	p.mu.Lock()
	p.author = author
	p.mu.Unlock()
	p.setIfInitialized(api.PlayerOptions{Author: api.String(author)}, done)
}

// SetSinger updates the singer mirror and forwards it once prepared
func (p *Player) SetSinger(singer string, done func(error)) {
	p.mu.Lock()
	p.singer = singer
	p.mu.Unlock()
	p.setIfInitialized(api.PlayerOptions{Singer: api.String(singer)}, done)
}

// SetImageURL updates the artwork URL mirror and forwards it once prepared
func (p *Player) SetImageURL(url string, done func(error)) {
	p.mu.Lock()
	p.imageURL = url
	p.mu.Unlock()
	p.setIfInitialized(api.PlayerOptions{ImageURL: api.String(url)}, done)
}

// SetVolume sets the volume level (0.0 to 1.0)
func (p *Player) SetVolume(level float64, done func(error)) {
	if level < 0 || level > 1 {
		if done != nil {
			done(playerrors.ErrInvalidVolume)
		}
		return
	}
	p.mu.Lock()
	p.volume = level
	p.mu.Unlock()
	p.setIfInitialized(api.PlayerOptions{Volume: api.Float(level)}, done)
}

// SetPan sets the stereo balance (-1.0 left to 1.0 right)
func (p *Player) SetPan(pan float64, done func(error)) {
	if pan < -1 || pan > 1 {
		if done != nil {
			done(playerrors.ErrInvalidPan)
		}
		return
	}
	p.mu.Lock()
	p.pan = pan
	p.mu.Unlock()
	p.setIfInitialized(api.PlayerOptions{Pan: api.Float(pan)}, done)
}

// SetWakeLock updates the wake lock mirror and forwards it once prepared
func (p *Player) SetWakeLock(on bool, done func(error)) {
	p.mu.Lock()
	p.wakeLock = on
	p.mu.Unlock()
	p.setIfInitialized(api.PlayerOptions{WakeLock: api.Bool(on)}, done)
}

// SetLooping updates the looping mirror and forwards it once prepared
func (p *Player) SetLooping(on bool, done func(error)) {
	p.mu.Lock()
	p.looping = on
	p.mu.Unlock()
	p.setIfInitialized(api.PlayerOptions{Looping: api.Bool(on)}, done)
}

// SetCurrentTime is Seek
func (p *Player) SetCurrentTime(position float64, done func(error)) {
	p.Seek(position, done)
}

// State returns the current session state
func (p *Player) State() api.MediaState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Path returns the path used by the last prepare
func (p *Player) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

// Title returns the title mirror
func (p *Player) Title() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.title
}

// Author returns the author mirror
func (p *Player) Author() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.author
}

// Singer returns the singer mirror
func (p *Player) Singer() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.singer
}

// ImageURL returns the artwork URL mirror
func (p *Player) ImageURL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.imageURL
}

// Volume returns the volume mirror (0.0 to 1.0)
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume
}

// Pan returns the pan mirror (-1.0 to 1.0)
func (p *Player) Pan() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pan
}

// Looping reports whether the track restarts when it ends
func (p *Player) Looping() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.looping
}

// WakeLock returns the wake lock mirror
func (p *Player) WakeLock() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.wakeLock
}

// CurrentTime returns the last known position in ms, or -1
func (p *Player) CurrentTime() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// Duration returns the last known duration in ms, or -1
func (p *Player) Duration() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.duration
}

// On registers fn for any event name republished from the bridge
func (p *Player) On(event api.EventType, fn events.Handler) func() {
	return p.emitter.On(event, fn)
}

// OnProgress registers fn for progress events
func (p *Player) OnProgress(fn func(position, duration float64)) func() {
	return p.emitter.On(api.EventProgress, func(d api.EventData) { fn(d.Position, d.Duration) })
}

// OnEnded registers fn for the end of a non-looping track
func (p *Player) OnEnded(fn func()) func() {
	return p.emitter.On(api.EventEnded, func(api.EventData) { fn() })
}

// OnNext registers fn for the remote next action
func (p *Player) OnNext(fn func()) func() {
	return p.emitter.On(api.EventNext, func(api.EventData) { fn() })
}

// OnPrevious registers fn for the remote previous action
func (p *Player) OnPrevious(fn func()) func() {
	return p.emitter.On(api.EventPrevious, func(api.EventData) { fn() })
}
