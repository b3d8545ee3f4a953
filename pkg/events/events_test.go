package events

import (
	"testing"

	"github.com/jscyril/golang_sound_manager/api"
)

func TestBridgePublishFanOut(t *testing.T) {
	b := NewBridge()

	a, cancelA := b.Subscribe(api.PlayerChannel)
	defer cancelA()
	c, cancelC := b.Subscribe(api.PlayerChannel)
	defer cancelC()
	other, cancelOther := b.Subscribe(api.RecorderChannel)
	defer cancelOther()

	b.Emit(api.PlayerChannel, api.EventProgress, api.EventData{Position: 10, Duration: 100})

	for i, ch := range []<-chan api.Envelope{a, c} {
		select {
		case env := <-ch:
			if env.Event != api.EventProgress || env.Data.Position != 10 {
				t.Errorf("subscriber %d got %+v", i, env)
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}

	select {
	case env := <-other:
		t.Errorf("recorder channel should not receive player events, got %+v", env)
	default:
	}
}

func TestBridgeUnsubscribeClosesChannel(t *testing.T) {
	b := NewBridge()
	ch, cancel := b.Subscribe(api.PlayerChannel)

	cancel()
	cancel() // second call is a no-op

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after cancel")
	}

	// Publishing with no subscribers must not panic
	b.Emit(api.PlayerChannel, api.EventEnded, api.EventData{})
}

func TestBridgePublishDoesNotBlock(t *testing.T) {
	b := NewBridge()
	_, cancel := b.Subscribe(api.PlayerChannel)
	defer cancel()

	for i := 0; i < b.bufSize*2; i++ {
		b.Emit(api.PlayerChannel, api.EventProgress, api.EventData{Position: float64(i)})
	}
}

func TestBridgeClose(t *testing.T) {
	b := NewBridge()
	ch, cancel := b.Subscribe(api.RecorderChannel)

	b.Close()
	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}
	cancel() // must not close twice
}

func TestEmitterOrderAndRemoval(t *testing.T) {
	e := NewEmitter()
	var calls []string

	offFirst := e.On(api.EventNext, func(api.EventData) { calls = append(calls, "first") })
	e.On(api.EventNext, func(api.EventData) { calls = append(calls, "second") })

	if !e.Emit(api.EventNext, api.EventData{}) {
		t.Fatal("Emit should report listeners")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected call order: %v", calls)
	}

	offFirst()
	calls = nil
	e.Emit(api.EventNext, api.EventData{})
	if len(calls) != 1 || calls[0] != "second" {
		t.Errorf("expected only second listener, got %v", calls)
	}

	if e.ListenerCount(api.EventNext) != 1 {
		t.Errorf("ListenerCount = %d, want 1", e.ListenerCount(api.EventNext))
	}
}

func TestEmitterNoListeners(t *testing.T) {
	e := NewEmitter()
	if e.Emit(api.EventType("custom"), api.EventData{}) {
		t.Error("Emit without listeners should return false")
	}
}

func TestEmitterPassesPayloadVerbatim(t *testing.T) {
	e := NewEmitter()
	want := api.EventData{Position: 1500, Duration: 3000, Message: "tick"}

	var got api.EventData
	e.On(api.EventProgress, func(d api.EventData) { got = d })
	e.Emit(api.EventProgress, want)

	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}
