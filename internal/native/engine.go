package native

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/jscyril/golang_sound_manager/api"
	playerrors "github.com/jscyril/golang_sound_manager/pkg/errors"
)

// Ensure Engine implements NativePlayer at compile time
var _ api.NativePlayer = (*Engine)(nil)

const progressInterval = 100 * time.Millisecond

type commandType int

const (
	cmdPrepare commandType = iota
	cmdSet
	cmdPlay
	cmdPause
	cmdStop
	cmdSeek
	cmdDestroy
)

type command struct {
	kind     commandType
	path     string
	opts     api.PlayerOptions
	position float64
	gen      uint64
	info     api.InfoCallback
	done     api.Callback
}

// Engine is the beep-backed native player. Calls are queued and executed in
// order on the engine goroutine; callbacks run there too.
type Engine struct {
	sink     api.EventSink
	logger   *slog.Logger
	client   *http.Client
	dataDir  string
	commands chan command

	mu       sync.RWMutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	panner   *effects.Pan
	meta     api.Info
	rate     beep.SampleRate

	playing atomic.Bool
	looping atomic.Bool
	seekGen atomic.Uint64
	ctx     context.Context
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

func WithDataDir(dir string) EngineOption {
	return func(e *Engine) { e.dataDir = dir }
}

func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func WithHTTPClient(client *http.Client) EngineOption {
	return func(e *Engine) { e.client = client }
}

// NewEngine creates a new playback engine publishing events to sink
func NewEngine(sink api.EventSink, opts ...EngineOption) *Engine {
	e := &Engine{
		sink:     sink,
		logger:   slog.Default(),
		client:   &http.Client{Timeout: 60 * time.Second},
		commands: make(chan command, 32),
		ctx:      context.Background(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Start begins the engine goroutines
func (e *Engine) Start(ctx context.Context) {
	e.ctx = ctx
	go e.run(ctx)
	go e.trackPosition(ctx)
}

// IsPlaying reports whether the stream is currently audible
func (e *Engine) IsPlaying() bool {
	return e.playing.Load()
}

func (e *Engine) emit(event api.EventType, data api.EventData) {
	e.sink.Publish(api.PlayerChannel, api.Envelope{Event: event, Data: data})
}

// run is the main command processing loop
func (e *Engine) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.release()
			return

		case cmd := <-e.commands:
			switch cmd.kind {
			case cmdPrepare:
				info, err := e.prepare(ctx, cmd.path)
				cmd.info(info, err)

			case cmdSet:
				cmd.done(e.set(cmd.opts))

			case cmdPlay:
				info, err := e.setPaused(false, playerrors.CodePlayback)
				cmd.info(info, err)

			case cmdPause:
				info, err := e.setPaused(true, playerrors.CodePause)
				cmd.info(info, err)

			case cmdStop:
				cmd.done(e.stop())

			case cmdSeek:
				if cmd.gen != e.seekGen.Load() {
					cmd.info(nil, &playerrors.NativeError{
						Code:    playerrors.CodeSeekFail,
						Message: "seek superseded by a newer request",
					})
					continue
				}
				info, err := e.seekTo(cmd.position)
				cmd.info(info, err)

			case cmdDestroy:
				if e.release() {
					e.emit(api.EventDestroy, api.EventData{Message: "Destroyed player"})
				}
				cmd.done(nil)
			}
		}
	}
}

// trackPosition publishes progress while the stream plays
func (e *Engine) trackPosition(ctx context.Context) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.playing.Load() {
				continue
			}
			e.mu.RLock()
			info := e.infoLocked()
			e.mu.RUnlock()
			if info != nil {
				e.emit(api.EventProgress, api.EventData{Position: info.Position, Duration: info.Duration})
			}
		}
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// infoLocked snapshots the session; e.mu must be held
func (e *Engine) infoLocked() *api.Info {
	if e.streamer == nil {
		return nil
	}
	speaker.Lock()
	pos, length := e.streamer.Position(), e.streamer.Len()
	speaker.Unlock()

	info := e.meta
	info.Position = millis(e.format.SampleRate.D(pos))
	info.Duration = millis(e.format.SampleRate.D(length))
	return &info
}

// prepare loads and decodes path, leaving the stream paused at the start
func (e *Engine) prepare(ctx context.Context, path string) (*api.Info, error) {
	if path == "" {
		return nil, playerrors.NewNativeError(playerrors.CodeNoPath, playerrors.ErrEmptyPath)
	}

	e.release()

	src, err := openSource(ctx, e.client, e.dataDir, path)
	if err != nil {
		return nil, playerrors.NewNativeError(playerrors.CodeInvalidPath, err)
	}

	tags, err := readTags(src.rc)
	if err != nil {
		src.rc.Close()
		return nil, err
	}

	streamer, format, err := DecodeAudio(src.rc, src.format)
	if err != nil {
		src.rc.Close()
		return nil, playerrors.NewNativeError(playerrors.CodePrepare, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if format.SampleRate != e.rate {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			return nil, playerrors.NewNativeError(playerrors.CodePrepare, err)
		}
		e.rate = format.SampleRate
	}

	ctrl := &beep.Ctrl{Paused: true}
	ctrl.Streamer = &endWatcher{
		s:       streamer,
		looping: &e.looping,
		onEnd: func(looped bool) {
			if looped {
				e.emit(api.EventLooped, api.EventData{Message: "Media playback looped"})
				return
			}
			ctrl.Paused = true
			e.playing.Store(false)
			e.emit(api.EventEnded, api.EventData{Message: "Playback completed"})
		},
		onError: func(err error) {
			ctrl.Paused = true
			e.playing.Store(false)
			e.logger.Warn("decode failed", "uri", src.uri, "error", err)
			e.emit(api.EventError, api.EventData{Err: err.Error()})
		},
	}

	e.streamer = streamer
	e.format = format
	e.ctrl = ctrl
	e.volume = &effects.Volume{Streamer: ctrl, Base: 2}
	e.panner = &effects.Pan{Streamer: e.volume}
	e.meta = api.Info{Title: tags.Title, Singer: tags.Artist, Author: tags.Author}

	speaker.Play(e.panner)

	e.logger.Debug("prepared", "uri", src.uri, "format", src.format, "sample_rate", int(format.SampleRate))
	return e.infoLocked(), nil
}

// set applies an option bundle to the prepared stream
func (e *Engine) set(opts api.PlayerOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return playerrors.NewNativeError(playerrors.CodeNotFound, playerrors.ErrNotFound)
	}

	speaker.Lock()
	if opts.Volume != nil {
		applyVolume(e.volume, *opts.Volume)
	}
	if opts.Pan != nil {
		e.panner.Pan = math.Max(-1, math.Min(1, *opts.Pan))
	}
	speaker.Unlock()

	if opts.Looping != nil {
		e.looping.Store(*opts.Looping)
	}
	if opts.Title != nil {
		e.meta.Title = *opts.Title
	}
	if opts.Singer != nil {
		e.meta.Singer = *opts.Singer
	}
	if opts.Author != nil {
		e.meta.Author = *opts.Author
	}
	if opts.ImageURL != nil {
		e.meta.ImageURL = *opts.ImageURL
	}
	if opts.Speed != nil || opts.Pitch != nil {
		e.logger.Debug("speed and pitch are not supported by this engine")
	}
	return nil
}

// applyVolume maps a linear 0-1 level onto beep's exponential volume
func applyVolume(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(math.Min(level, 1))
}

func (e *Engine) setPaused(paused bool, code string) (*api.Info, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.ctrl == nil {
		return nil, playerrors.NewNativeError(code, playerrors.ErrNotFound)
	}

	speaker.Lock()
	e.ctrl.Paused = paused
	speaker.Unlock()
	e.playing.Store(!paused)

	return e.infoLocked(), nil
}

// stop rewinds and pauses the stream
func (e *Engine) stop() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.streamer == nil {
		return playerrors.NewNativeError(playerrors.CodeStop, playerrors.ErrNotFound)
	}

	speaker.Lock()
	err := e.streamer.Seek(0)
	e.ctrl.Paused = true
	speaker.Unlock()
	e.playing.Store(false)

	if err != nil {
		return playerrors.NewNativeError(playerrors.CodeStop, err)
	}
	return nil
}

// seekTo moves the stream to position (ms). Negative positions are ignored.
func (e *Engine) seekTo(position float64) (*api.Info, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.streamer == nil {
		return nil, playerrors.NewNativeError(playerrors.CodeNotFound, playerrors.ErrNotFound)
	}

	if position >= 0 {
		n := e.format.SampleRate.N(time.Duration(position * float64(time.Millisecond)))
		speaker.Lock()
		if last := e.streamer.Len() - 1; n > last {
			n = max(last, 0)
		}
		err := e.streamer.Seek(n)
		speaker.Unlock()
		if err != nil {
			return nil, playerrors.NewNativeError(playerrors.CodePlayback, err)
		}
		e.emit(api.EventSeeked, api.EventData{Message: "Seek operation completed"})
	}

	return e.infoLocked(), nil
}

// release drops the current stream. It reports whether one was loaded.
func (e *Engine) release() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playing.Store(false)
	if e.streamer == nil {
		return false
	}

	speaker.Clear()
	if err := e.streamer.Close(); err != nil {
		e.logger.Debug("close stream", "error", err)
	}
	e.streamer = nil
	e.ctrl = nil
	e.volume = nil
	e.panner = nil
	e.meta = api.Info{}
	return true
}

func (e *Engine) enqueue(cmd command) {
	select {
	case e.commands <- cmd:
	case <-e.ctx.Done():
		err := playerrors.NewNativeError(playerrors.CodeNotFound, errors.New("engine stopped"))
		if cmd.info != nil {
			cmd.info(nil, err)
		} else {
			cmd.done(err)
		}
	}
}

func (e *Engine) Prepare(path string, done api.InfoCallback) {
	e.enqueue(command{kind: cmdPrepare, path: path, info: done})
}

// SetURL loads a new source; the platform player treats it as prepare
func (e *Engine) SetURL(path string, done api.InfoCallback) {
	e.enqueue(command{kind: cmdPrepare, path: path, info: done})
}

func (e *Engine) Set(opts api.PlayerOptions, done api.Callback) {
	e.enqueue(command{kind: cmdSet, opts: opts, done: done})
}

func (e *Engine) Play(done api.InfoCallback) {
	e.enqueue(command{kind: cmdPlay, info: done})
}

func (e *Engine) Pause(done api.InfoCallback) {
	e.enqueue(command{kind: cmdPause, info: done})
}

func (e *Engine) Stop(done api.Callback) {
	e.enqueue(command{kind: cmdStop, done: done})
}

// Seek queues a seek. A seek still queued when a newer one arrives
// completes with a seekfail error.
func (e *Engine) Seek(position float64, done api.InfoCallback) {
	gen := e.seekGen.Add(1)
	e.enqueue(command{kind: cmdSeek, position: position, gen: gen, info: done})
}

func (e *Engine) Destroy(done api.Callback) {
	e.enqueue(command{kind: cmdDestroy, done: done})
}
