package native

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jscyril/golang_sound_manager/api"
	playerrors "github.com/jscyril/golang_sound_manager/pkg/errors"
)

// Ensure Capture implements NativeRecorder at compile time
var _ api.NativeRecorder = (*Capture)(nil)

const (
	defaultChannels   = 2
	defaultSampleRate = 44100
	bitDepth          = 16
)

// captureDevice is an opened input device delivering S16 little-endian PCM
type captureDevice interface {
	Start() error
	Stop() error
	Close()
}

type deviceOpener func(channels, sampleRate int, onData func(pcm []byte)) (captureDevice, error)

// Capture records from the default input device into WAV files
type Capture struct {
	sink   api.EventSink
	logger *slog.Logger
	dir    string
	open   deviceOpener

	mu      sync.Mutex
	session *captureSession
}

type captureSession struct {
	path       string
	file       *os.File
	dev        captureDevice
	format     *audio.Format
	stopTicker context.CancelFunc
	onError    func(err error)

	wmu      sync.Mutex
	enc      *wav.Encoder
	writeErr error
}

// CaptureOption configures a Capture
type CaptureOption func(*Capture)

func WithRecordingsDir(dir string) CaptureOption {
	return func(c *Capture) { c.dir = dir }
}

func WithCaptureLogger(logger *slog.Logger) CaptureOption {
	return func(c *Capture) { c.logger = logger }
}

func withDeviceOpener(open deviceOpener) CaptureOption {
	return func(c *Capture) { c.open = open }
}

// NewCapture creates a recorder publishing events to sink
func NewCapture(sink api.EventSink, opts ...CaptureOption) *Capture {
	c := &Capture{
		sink:   sink,
		logger: slog.Default(),
		dir:    ".",
	}
	for _, o := range opts {
		o(c)
	}
	if c.open == nil {
		c.open = openMalgoDevice(c.logger)
	}
	return c
}

func (c *Capture) emit(event api.EventType, data api.EventData) {
	c.sink.Publish(api.RecorderChannel, api.Envelope{Event: event, Data: data})
}

// outputPath resolves path under the recordings directory with a .wav extension
func (c *Capture) outputPath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".wav") {
		path = strings.TrimSuffix(path, ext) + ".wav"
	}
	return path
}

func (c *Capture) Prepare(path string, opts api.RecorderOptions, done func(*api.RecordInfo, error)) {
	if path == "" {
		done(nil, playerrors.NewNativeError(playerrors.CodeInvalidPath, playerrors.ErrEmptyPath))
		return
	}

	c.mu.Lock()
	if c.session != nil {
		c.closeSession(c.session)
		c.session = nil
	}
	s, err := c.newSession(c.outputPath(path), opts)
	if err == nil {
		c.session = s
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("capture prepare failed", "path", path, "error", err)
		c.emit(api.EventPrepareFail, api.EventData{Err: err.Error()})
		done(nil, playerrors.NewNativeError(playerrors.CodePrepareFail, err))
		return
	}
	done(&api.RecordInfo{Filepath: s.path}, nil)
}

func (c *Capture) newSession(path string, opts api.RecorderOptions) (*captureSession, error) {
	channels, sampleRate := opts.Channels, opts.SampleRate
	if channels <= 0 {
		channels = defaultChannels
	}
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	if opts.Bitrate > 0 || opts.Quality != "" {
		c.logger.Debug("bitrate and quality do not apply to PCM output", "bitrate", opts.Bitrate, "quality", opts.Quality)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	s := &captureSession{
		path:   path,
		file:   f,
		enc:    wav.NewEncoder(f, sampleRate, bitDepth, channels, 1),
		format: &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		onError: func(err error) {
			c.logger.Warn("capture write failed", "path", path, "error", err)
			c.emit(api.EventError, api.EventData{Err: err.Error()})
		},
	}

	dev, err := c.open(channels, sampleRate, s.write)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("open capture device: %w", err)
	}
	s.dev = dev
	return s, nil
}

// write appends one device buffer to the WAV encoder. Only the first
// failure is reported; later buffers are dropped.
func (s *captureSession) write(pcm []byte) {
	data := make([]int, len(pcm)/2)
	for i := range data {
		data[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}

	s.wmu.Lock()
	if s.enc == nil || s.writeErr != nil {
		s.wmu.Unlock()
		return
	}
	err := s.enc.Write(&audio.IntBuffer{Format: s.format, Data: data, SourceBitDepth: bitDepth})
	s.writeErr = err
	s.wmu.Unlock()

	if err != nil && s.onError != nil {
		s.onError(err)
	}
}

func (c *Capture) Record(done api.Callback) {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		done(playerrors.NewNativeError(playerrors.CodeNotFound, playerrors.ErrNotFound))
		return
	}
	if s.stopTicker != nil {
		// already recording
		c.mu.Unlock()
		done(nil)
		return
	}
	if err := s.dev.Start(); err != nil {
		c.mu.Unlock()
		done(playerrors.NewNativeError(playerrors.CodeStartFail, err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopTicker = cancel
	c.mu.Unlock()

	go c.trackProgress(ctx, time.Now())
	done(nil)
}

// trackProgress publishes the elapsed recording time every 100ms
func (c *Capture) trackProgress(ctx context.Context, started time.Time) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.emit(api.EventProgress, api.EventData{Position: millis(time.Since(started))})
		}
	}
}

func (c *Capture) Stop(done api.Callback) {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil {
		done(playerrors.NewNativeError(playerrors.CodeNotFound, playerrors.ErrNotFound))
		return
	}

	if err := c.closeSession(s); err != nil {
		done(playerrors.NewNativeError(playerrors.CodeStopFail, err))
		return
	}
	c.emit(api.EventStop, api.EventData{Message: "Recording stopped"})
	done(nil)
}

// closeSession stops the device and finalizes the WAV file
func (c *Capture) closeSession(s *captureSession) error {
	if s.stopTicker != nil {
		s.stopTicker()
	}

	var errs []error
	if err := s.dev.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop device: %w", err))
	}
	s.dev.Close()

	s.wmu.Lock()
	if s.writeErr != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", s.path, s.writeErr))
	}
	if err := s.enc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("finalize %s: %w", s.path, err))
	}
	s.enc = nil
	s.wmu.Unlock()

	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Capture) Destroy(done api.Callback) {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s != nil {
		if err := c.closeSession(s); err != nil {
			c.logger.Debug("close capture session", "error", err)
		}
	}
	c.emit(api.EventDestroy, api.EventData{Message: "Destroyed recorder"})
	done(nil)
}

// malgoDevice is a capture device on the default input
type malgoDevice struct {
	ctx *malgo.AllocatedContext
	dev *malgo.Device
}

func openMalgoDevice(logger *slog.Logger) deviceOpener {
	return func(channels, sampleRate int, onData func(pcm []byte)) (captureDevice, error) {
		mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
			logger.Debug("malgo", "message", message)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audio context: %w", err)
		}

		deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
		deviceConfig.Capture.Format = malgo.FormatS16
		deviceConfig.Capture.Channels = uint32(channels)
		deviceConfig.SampleRate = uint32(sampleRate)

		dev, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{
			Data: func(_, input []byte, _ uint32) { onData(input) },
		})
		if err != nil {
			_ = mctx.Uninit()
			mctx.Free()
			return nil, fmt.Errorf("failed to initialize audio device: %w", err)
		}
		return &malgoDevice{ctx: mctx, dev: dev}, nil
	}
}

func (d *malgoDevice) Start() error { return d.dev.Start() }
func (d *malgoDevice) Stop() error  { return d.dev.Stop() }

func (d *malgoDevice) Close() {
	d.dev.Uninit()
	_ = d.ctx.Uninit()
	d.ctx.Free()
}
