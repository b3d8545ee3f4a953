// Package player sequences playback operations against a native player and
// republishes its bridge events to application listeners.
package player

import (
	"log/slog"
	"sync"

	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/internal/sequence"
	playerrors "github.com/jscyril/golang_sound_manager/pkg/errors"
	"github.com/jscyril/golang_sound_manager/pkg/events"
)

// Player owns one playback session
type Player struct {
	native  api.NativePlayer
	emitter *events.Emitter
	logger  *slog.Logger
	cancel  func()

	mu           sync.RWMutex
	state        api.MediaState
	preSeekState api.MediaState
	path         string
	options      api.PlayerOptions

	// Local mirrors of the native session
	title    string
	author   string
	singer   string
	imageURL string
	volume   float64
	pan      float64
	looping  bool
	wakeLock bool
	duration float64
	position float64
}

// Option configures a Player
type Option func(*Player)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) { p.logger = logger }
}

// New creates a player for path and subscribes it to the player channel of
// source. opts is pushed to the native layer on every prepare.
func New(native api.NativePlayer, source api.EventSource, path string, opts api.PlayerOptions, options ...Option) *Player {
	p := &Player{
		native:  native,
		emitter: events.NewEmitter(),
		logger:  slog.Default(),
		path:    path,
		options: opts,
	}
	for _, o := range options {
		o(p)
	}
	p.reset()

	envelopes, cancel := source.Subscribe(api.PlayerChannel)
	p.cancel = cancel
	go p.listen(envelopes)

	return p
}

// Close cancels the bridge subscription. Listeners receive no further events.
func (p *Player) Close() {
	p.cancel()
}

func (p *Player) listen(envelopes <-chan api.Envelope) {
	for env := range envelopes {
		p.handleEvent(env)
	}
}

func (p *Player) handleEvent(env api.Envelope) {
	if env.Event == api.EventProgress {
		p.mu.Lock()
		p.position = env.Data.Position
		p.duration = env.Data.Duration
		p.mu.Unlock()
	}
	p.emitter.Emit(env.Event, env.Data)
}

// reset restores the IDLE defaults of the session
func (p *Player) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = api.StateIdle
	p.preSeekState = api.StateIdle
	p.volume = 1.0
	p.pan = 0.0
	p.imageURL = ""
	p.title = ""
	p.author = ""
	p.singer = ""
	p.wakeLock = false
	p.duration = -1
	p.position = -1
	p.looping = false
}

func (p *Player) fetchInfo(info *api.Info) {
	if info == nil {
		return
	}
	p.duration = info.Duration
	p.position = info.Position
	if info.Title != "" {
		p.title = info.Title
	}
	if info.Author != "" {
		p.author = info.Author
	}
	if info.Singer != "" {
		p.singer = info.Singer
	}
	if info.ImageURL != "" {
		p.imageURL = info.ImageURL
	}
}

// updateState moves to state, or to ERROR if err is set, and refreshes the
// mirrors from the last non-nil result.
func (p *Player) updateState(err error, state api.MediaState, results []*api.Info) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.state = api.StateError
		return
	}
	p.state = state

	for i := len(results) - 1; i >= 0; i-- {
		if results[i] != nil {
			p.fetchInfo(results[i])
			return
		}
	}
}

func noop(error) {}

// Options pushes opts to the native layer without touching the session.
func (p *Player) Options(opts api.PlayerOptions, done func(error)) {
	if done == nil {
		done = noop
	}
	p.native.Set(opts, done)
}

// Prepare loads path, or the current path when empty, and pushes the
// session options. The session is PREPARED only if both steps succeed.
func (p *Player) Prepare(path string, done func(error)) {
	if done == nil {
		done = noop
	}

	p.mu.Lock()
	if path != "" {
		p.path = path
	}
	p.state = api.StatePreparing
	target := p.path
	p.mu.Unlock()

	steps := []sequence.Step[*api.Info]{
		func(next func(*api.Info, error)) {
			p.native.Prepare(target, next)
		},
		func(next func(*api.Info, error)) {
			p.native.Set(p.sessionOptions(), func(err error) { next(nil, err) })
		},
	}

	sequence.Series(steps, func(results []*api.Info, err error) {
		if err != nil {
			p.logger.Warn("prepare failed", "path", target, "error", err)
			err = playerrors.NewOpError("prepare", target, err)
		}
		p.updateState(err, api.StatePrepared, results)
		done(err)
	})
}

// sessionOptions merges the constructor options with the playback mirrors.
// Identity metadata is left to the constructor options and the new stream.
func (p *Player) sessionOptions() api.PlayerOptions {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.options.Merge(api.PlayerOptions{
		Volume:   api.Float(p.volume),
		Pan:      api.Float(p.pan),
		Looping:  api.Bool(p.looping),
		WakeLock: api.Bool(p.wakeLock),
	})
}

// Play starts playback, preparing the session first when it is IDLE.
func (p *Player) Play(done func(error)) {
	if done == nil {
		done = noop
	}

	var steps []sequence.Step[*api.Info]
	if p.State() == api.StateIdle {
		steps = append(steps, func(next func(*api.Info, error)) {
			p.Prepare("", func(err error) { next(nil, err) })
		})
	}
	steps = append(steps, func(next func(*api.Info, error)) {
		p.native.Play(next)
	})

	sequence.Series(steps, func(results []*api.Info, err error) {
		p.updateState(err, api.StatePlaying, results)
		done(err)
	})
}

// Pause pauses playback
func (p *Player) Pause(done func(error)) {
	if done == nil {
		done = noop
	}
	p.native.Pause(func(info *api.Info, err error) {
		p.updateState(err, api.StatePaused, []*api.Info{info})
		done(err)
	})
}

// SetURL points the native player at path without a state transition.
func (p *Player) SetURL(path string, done func(error)) {
	if done == nil {
		done = noop
	}
	p.native.SetURL(path, func(_ *api.Info, err error) { done(err) })
}

// PlayPause pauses when playing and plays otherwise. done receives whether
// the session was playing before the call.
func (p *Player) PlayPause(done func(err error, wasPlaying bool)) {
	if done == nil {
		done = func(error, bool) {}
	}
	if p.State() == api.StatePlaying {
		p.Pause(func(err error) { done(err, true) })
		return
	}
	p.Play(func(err error) { done(err, false) })
}

// Stop stops playback. The session stays PREPARED and the position becomes
// unknown.
func (p *Player) Stop(done func(error)) {
	if done == nil {
		done = noop
	}
	p.native.Stop(func(err error) {
		p.updateState(err, api.StatePrepared, nil)
		p.mu.Lock()
		p.position = -1
		p.mu.Unlock()
		done(err)
	})
}

// Seek moves the play-head to position (ms). Overlapping seeks keep the
// state recorded by the first one. A seek superseded by a newer one is
// dropped without a state change or a call to done.
func (p *Player) Seek(position float64, done func(error)) {
	if done == nil {
		done = noop
	}

	p.mu.Lock()
	if p.state != api.StateSeeking {
		p.preSeekState = p.state
	}
	p.state = api.StateSeeking
	p.mu.Unlock()

	p.native.Seek(position, func(info *api.Info, err error) {
		if playerrors.IsSeekSuperseded(err) {
			p.logger.Debug("seek superseded", "position", position)
			return
		}

		p.mu.RLock()
		restore := p.preSeekState
		p.mu.RUnlock()

		p.updateState(err, restore, []*api.Info{info})
		done(err)
	})
}

// Destroy resets the session and releases the native player
func (p *Player) Destroy(done func(error)) {
	if done == nil {
		done = noop
	}
	p.reset()
	p.native.Destroy(done)
}
