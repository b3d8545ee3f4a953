package native

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/faiface/beep/effects"
	"github.com/jscyril/golang_sound_manager/api"
	playerrors "github.com/jscyril/golang_sound_manager/pkg/errors"
	"github.com/jscyril/golang_sound_manager/pkg/events"
)

func TestNewEngine(t *testing.T) {
	engine := NewEngine(events.NewBridge(), WithDataDir("/data"))

	if engine == nil {
		t.Fatal("NewEngine returned nil")
	}
	if engine.commands == nil {
		t.Error("Commands channel is nil")
	}
	if engine.dataDir != "/data" {
		t.Errorf("Expected data dir /data, got %q", engine.dataDir)
	}
	if engine.IsPlaying() {
		t.Error("New engine should not be playing")
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/music/song.mp3", true},
		{"/music/song.MP3", true},
		{"/music/song.wav", true},
		{"/music/song.flac", true},
		{"/music/song.ogg", true},
		{"https://example.com/stream/song.mp3?token=abc", true},
		{"/music/song.aac", false},
		{"/music/song.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := IsSupported(tt.path)
			if result != tt.expected {
				t.Errorf("IsSupported(%s) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestFormatOfContentType(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
	}{
		{"audio/mpeg", ".mp3"},
		{"audio/x-wav", ".wav"},
		{"audio/flac; charset=binary", ".flac"},
		{"application/ogg", ".ogg"},
		{"text/html", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := formatOf("https://example.com/stream", tt.contentType); got != tt.expected {
				t.Errorf("formatOf(%q) = %q, want %q", tt.contentType, got, tt.expected)
			}
		})
	}
}

func TestOpenSourcePrefersDataDir(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "song.wav"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := openSource(context.Background(), http.DefaultClient, dataDir, "song.wav")
	if err != nil {
		t.Fatalf("openSource failed: %v", err)
	}
	defer src.rc.Close()

	if src.uri != filepath.Join(dataDir, "song.wav") {
		t.Errorf("Expected data dir file, got %s", src.uri)
	}
	if src.format != ".wav" {
		t.Errorf("Expected .wav, got %s", src.format)
	}
}

func TestOpenSourceMissingFile(t *testing.T) {
	_, err := openSource(context.Background(), http.DefaultClient, t.TempDir(), "missing.mp3")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestOpenSourceFetchesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		io.WriteString(w, "fake mp3 bytes")
	}))
	defer srv.Close()

	src, err := openSource(context.Background(), srv.Client(), "", srv.URL+"/stream")
	if err != nil {
		t.Fatalf("openSource failed: %v", err)
	}
	if src.format != ".mp3" {
		t.Errorf("Expected format from content type, got %q", src.format)
	}
	data, _ := io.ReadAll(src.rc)
	if string(data) != "fake mp3 bytes" {
		t.Errorf("unexpected body %q", data)
	}

	if _, err := openSource(context.Background(), srv.Client(), "", srv.URL+"/missing"); err == nil {
		t.Error("Expected error for 404 response")
	}
}

func waitInfo(t *testing.T, op func(api.InfoCallback)) (*api.Info, error) {
	t.Helper()
	type result struct {
		info *api.Info
		err  error
	}
	ch := make(chan result, 1)
	op(func(info *api.Info, err error) { ch <- result{info, err} })
	select {
	case r := <-ch:
		return r.info, r.err
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
		return nil, nil
	}
}

func startEngine(t *testing.T, opts ...EngineOption) (*Engine, *events.Bridge) {
	t.Helper()
	bridge := events.NewBridge()
	engine := NewEngine(bridge, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	engine.Start(ctx)
	return engine, bridge
}

func TestPrepareErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not audio"), 0644); err != nil {
		t.Fatal(err)
	}

	engine, _ := startEngine(t, WithDataDir(dir))

	tests := []struct {
		name string
		path string
		code string
	}{
		{"empty path", "", playerrors.CodeNoPath},
		{"missing file", "missing.mp3", playerrors.CodeInvalidPath},
		{"unsupported format", "notes.txt", playerrors.CodePrepare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := waitInfo(t, func(cb api.InfoCallback) { engine.Prepare(tt.path, cb) })
			if got := playerrors.Code(err); got != tt.code {
				t.Errorf("Prepare(%q) code = %q, want %q (err %v)", tt.path, got, tt.code, err)
			}
		})
	}
}

func TestOperationsWithoutStream(t *testing.T) {
	engine, _ := startEngine(t)

	_, err := waitInfo(t, engine.Play)
	if playerrors.Code(err) != playerrors.CodePlayback {
		t.Errorf("Play code = %q, want playback", playerrors.Code(err))
	}

	_, err = waitInfo(t, engine.Pause)
	if playerrors.Code(err) != playerrors.CodePause {
		t.Errorf("Pause code = %q, want pause", playerrors.Code(err))
	}

	setErr := make(chan error, 1)
	engine.Set(api.PlayerOptions{Volume: api.Float(0.5)}, func(err error) { setErr <- err })
	if err := <-setErr; !errors.Is(err, playerrors.ErrNotFound) {
		t.Errorf("Set without stream should fail with ErrNotFound, got %v", err)
	}

	stopErr := make(chan error, 1)
	engine.Stop(func(err error) { stopErr <- err })
	if playerrors.Code(<-stopErr) != playerrors.CodeStop {
		t.Error("Stop without stream should fail with stop code")
	}
}

func TestSupersededSeek(t *testing.T) {
	bridge := events.NewBridge()
	engine := NewEngine(bridge)

	// queue both seeks before the loop runs so the first is stale
	first := make(chan error, 1)
	second := make(chan error, 1)
	engine.Seek(1000, func(_ *api.Info, err error) { first <- err })
	engine.Seek(2000, func(_ *api.Info, err error) { second <- err })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx)

	if err := <-first; !playerrors.IsSeekSuperseded(err) {
		t.Errorf("first seek should be superseded, got %v", err)
	}
	if err := <-second; playerrors.IsSeekSuperseded(err) {
		t.Error("latest seek must not be reported as superseded")
	}
}

func TestDestroyWithoutStream(t *testing.T) {
	engine, bridge := startEngine(t)
	envelopes, cancel := bridge.Subscribe(api.PlayerChannel)
	defer cancel()

	done := make(chan error, 1)
	engine.Destroy(func(err error) { done <- err })
	if err := <-done; err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	select {
	case env := <-envelopes:
		t.Errorf("unexpected event %s without a loaded stream", env.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestApplyVolume(t *testing.T) {
	tests := []struct {
		level      float64
		wantSilent bool
		wantVolume float64
	}{
		{0, true, 0},
		{1, false, 0},
		{0.5, false, -1},
		{0.25, false, -2},
	}

	for _, tt := range tests {
		v := &effects.Volume{Base: 2}
		applyVolume(v, tt.level)
		if v.Silent != tt.wantSilent {
			t.Errorf("level %f: silent = %v", tt.level, v.Silent)
		}
		if !tt.wantSilent && v.Volume != tt.wantVolume {
			t.Errorf("level %f: volume = %f, want %f", tt.level, v.Volume, tt.wantVolume)
		}
	}
}

// sliceStreamer is an in-memory StreamSeeker of constant samples
type sliceStreamer struct {
	samples int
	pos     int
	err     error
}

func (s *sliceStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.samples {
		return 0, false
	}
	n := min(len(samples), s.samples-s.pos)
	for i := 0; i < n; i++ {
		samples[i] = [2]float64{1, 1}
	}
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error    { return s.err }
func (s *sliceStreamer) Len() int      { return s.samples }
func (s *sliceStreamer) Position() int { return s.pos }
func (s *sliceStreamer) Seek(p int) error {
	s.pos = p
	return nil
}

func TestEndWatcher(t *testing.T) {
	tests := []struct {
		name       string
		looping    bool
		wantEnded  int
		wantLooped int
		wantTail   float64
	}{
		{"ends and pads silence", false, 1, 0, 0},
		{"loops back to start", true, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var looping atomic.Bool
			looping.Store(tt.looping)

			ended, looped := 0, 0
			w := &endWatcher{
				s:       &sliceStreamer{samples: 6},
				looping: &looping,
				onEnd: func(l bool) {
					if l {
						looped++
					} else {
						ended++
					}
				},
			}

			buf := make([][2]float64, 10)
			n, ok := w.Stream(buf)
			if n != len(buf) || !ok {
				t.Fatalf("Stream returned (%d, %v)", n, ok)
			}
			if ended != tt.wantEnded || looped != tt.wantLooped {
				t.Errorf("ended=%d looped=%d", ended, looped)
			}
			if buf[9][0] != tt.wantTail {
				t.Errorf("tail sample = %f, want %f", buf[9][0], tt.wantTail)
			}
		})
	}
}

func TestEndWatcherDecodeError(t *testing.T) {
	var looping atomic.Bool
	looping.Store(true)

	var reported error
	ended := 0
	w := &endWatcher{
		s:       &sliceStreamer{samples: 6, err: errors.New("corrupt frame")},
		looping: &looping,
		onEnd:   func(bool) { ended++ },
		onError: func(err error) { reported = err },
	}

	buf := make([][2]float64, 10)
	if n, ok := w.Stream(buf); n != len(buf) || !ok {
		t.Fatalf("Stream returned (%d, %v)", n, ok)
	}
	if reported == nil || reported.Error() != "corrupt frame" {
		t.Errorf("decode error not reported, got %v", reported)
	}
	if ended != 0 {
		t.Errorf("a failed stream must not report ended or loop, got %d", ended)
	}
	if buf[9][0] != 0 {
		t.Errorf("tail should be silence, got %f", buf[9][0])
	}
}
