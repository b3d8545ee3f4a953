// Package recorder sequences recording operations against a native recorder.
package recorder

import (
	"log/slog"
	"sync"

	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/internal/sequence"
	playerrors "github.com/jscyril/golang_sound_manager/pkg/errors"
	"github.com/jscyril/golang_sound_manager/pkg/events"
)

// Recorder owns one recording session
type Recorder struct {
	native  api.NativeRecorder
	emitter *events.Emitter
	logger  *slog.Logger
	cancel  func()

	mu       sync.RWMutex
	state    api.MediaState
	path     string
	options  api.RecorderOptions
	filepath string
	position float64
	lastSync float64
}

// Option configures a Recorder
type Option func(*Recorder)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// New creates a recorder writing to path and subscribes it to the recorder
// channel of source.
func New(native api.NativeRecorder, source api.EventSource, path string, opts api.RecorderOptions, options ...Option) *Recorder {
	r := &Recorder{
		native:  native,
		emitter: events.NewEmitter(),
		logger:  slog.Default(),
		path:    path,
		options: opts,
	}
	for _, o := range options {
		o(r)
	}
	r.reset()

	envelopes, cancel := source.Subscribe(api.RecorderChannel)
	r.cancel = cancel
	go r.listen(envelopes)

	return r
}

// Close cancels the bridge subscription
func (r *Recorder) Close() {
	r.cancel()
}

func (r *Recorder) listen(envelopes <-chan api.Envelope) {
	for env := range envelopes {
		if env.Event == api.EventProgress {
			r.mu.Lock()
			r.position = env.Data.Position
			r.lastSync = env.Data.Position
			r.mu.Unlock()
		}
		r.emitter.Emit(env.Event, env.Data)
	}
}

func (r *Recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = api.StateIdle
	r.filepath = ""
	r.position = -1
	r.lastSync = -1
}

func (r *Recorder) updateState(err error, state api.MediaState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.state = api.StateError
		return
	}
	r.state = state
}

// Prepare asks the native recorder to get ready to write the session path.
// On success the output file path is captured.
func (r *Recorder) Prepare(done func(err error, info *api.RecordInfo)) {
	if done == nil {
		done = func(error, *api.RecordInfo) {}
	}

	r.mu.Lock()
	r.state = api.StatePreparing
	path, opts := r.path, r.options
	r.mu.Unlock()

	r.native.Prepare(path, opts, func(info *api.RecordInfo, err error) {
		r.mu.Lock()
		if err == nil && info != nil {
			r.filepath = info.Filepath
		} else {
			r.filepath = ""
		}
		r.mu.Unlock()

		if err != nil {
			r.logger.Warn("recorder prepare failed", "path", path, "error", err)
			err = playerrors.NewOpError("prepare", path, err)
		}
		r.updateState(err, api.StatePrepared)
		done(err, info)
	})
}

// Record starts recording, preparing the session first when it is at or
// below IDLE.
func (r *Recorder) Record(done func(error)) {
	if done == nil {
		done = func(error) {}
	}

	var steps []sequence.Step[struct{}]
	if r.State() <= api.StateIdle {
		steps = append(steps, func(next func(struct{}, error)) {
			r.Prepare(func(err error, _ *api.RecordInfo) { next(struct{}{}, err) })
		})
	}
	steps = append(steps, func(next func(struct{}, error)) {
		r.native.Record(func(err error) { next(struct{}{}, err) })
	})

	sequence.Series(steps, func(_ []struct{}, err error) {
		if err != nil {
			r.logger.Warn("record failed", "error", err)
		}
		r.updateState(err, api.StateRecording)
		done(err)
	})
}

// Stop ends the recording and returns the session to IDLE. Below RECORDING
// it calls back without error and without touching the native recorder.
func (r *Recorder) Stop(done func(error)) {
	if done == nil {
		done = func(error) {}
	}

	if r.State() < api.StateRecording {
		go done(nil)
		return
	}

	r.native.Stop(func(err error) {
		r.updateState(err, api.StateIdle)
		done(err)
	})
}

// ToggleRecord stops when recording and records otherwise. done receives
// whether the session was recording before the call.
func (r *Recorder) ToggleRecord(done func(err error, wasRecording bool)) {
	if done == nil {
		done = func(error, bool) {}
	}
	if r.State() == api.StateRecording {
		r.Stop(func(err error) { done(err, true) })
		return
	}
	r.Record(func(err error) { done(err, false) })
}

// Destroy resets the session and releases the native recorder
func (r *Recorder) Destroy(done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	r.reset()
	r.native.Destroy(func(err error) { done(err) })
}

func (r *Recorder) State() api.MediaState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Recorder) CanRecord() bool   { return r.State() >= api.StatePrepared }
func (r *Recorder) CanPrepare() bool  { return r.State() == api.StateIdle }
func (r *Recorder) IsRecording() bool { return r.State() == api.StateRecording }
func (r *Recorder) IsPrepared() bool  { return r.State() == api.StatePrepared }

// Filepath returns the output file captured by the last successful prepare.
// It outlives Stop so the finished recording can be played back; Destroy
// clears it.
func (r *Recorder) Filepath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filepath
}

// Position returns the recorded offset in ms from the last progress event
func (r *Recorder) Position() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.position
}

// LastSync returns the offset of the last progress event applied to the session
func (r *Recorder) LastSync() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSync
}

// On registers fn for any event name republished from the bridge
func (r *Recorder) On(event api.EventType, fn events.Handler) func() {
	return r.emitter.On(event, fn)
}

// OnProgress registers fn for progress events
func (r *Recorder) OnProgress(fn func(position float64)) func() {
	return r.emitter.On(api.EventProgress, func(d api.EventData) { fn(d.Position) })
}
