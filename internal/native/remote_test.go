package native

import (
	"testing"
	"time"

	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/pkg/events"
)

type fakeTransport struct {
	playing bool
	calls   []string
}

func (f *fakeTransport) Play(done api.InfoCallback) {
	f.calls = append(f.calls, "play")
	f.playing = true
	done(&api.Info{}, nil)
}

func (f *fakeTransport) Pause(done api.InfoCallback) {
	f.calls = append(f.calls, "pause")
	f.playing = false
	done(&api.Info{}, nil)
}

func (f *fakeTransport) Stop(done api.Callback) {
	f.calls = append(f.calls, "stop")
	f.playing = false
	done(nil)
}

func (f *fakeTransport) IsPlaying() bool { return f.playing }

func TestRemoteTransportActions(t *testing.T) {
	tests := []struct {
		action  string
		playing bool
		want    string
	}{
		{ActionPlayback, false, "play"},
		{ActionPlayback, true, "pause"},
		{ActionStop, true, "stop"},
		{ActionExit, false, "stop"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			transport := &fakeTransport{playing: tt.playing}
			remote := NewRemote(transport, events.NewBridge(), nil)

			if err := remote.Do(tt.action); err != nil {
				t.Fatalf("Do(%s) failed: %v", tt.action, err)
			}
			if len(transport.calls) != 1 || transport.calls[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", transport.calls, tt.want)
			}
		})
	}
}

func TestRemoteTrackActionsPublish(t *testing.T) {
	tests := []struct {
		action string
		want   api.EventType
	}{
		{ActionNext, api.EventNext},
		{ActionPrevious, api.EventPrevious},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			bridge := events.NewBridge()
			envelopes, cancel := bridge.Subscribe(api.PlayerChannel)
			defer cancel()

			transport := &fakeTransport{}
			if err := NewRemote(transport, bridge, nil).Do(tt.action); err != nil {
				t.Fatal(err)
			}

			select {
			case env := <-envelopes:
				if env.Event != tt.want {
					t.Errorf("event = %s, want %s", env.Event, tt.want)
				}
			case <-time.After(time.Second):
				t.Fatal("no event published")
			}
			if len(transport.calls) != 0 {
				t.Errorf("%s must not drive the engine, calls = %v", tt.action, transport.calls)
			}
		})
	}
}

func TestRemoteUnknownAction(t *testing.T) {
	if err := NewRemote(&fakeTransport{}, events.NewBridge(), nil).Do("rewind"); err == nil {
		t.Error("Expected error for unknown action")
	}
}
