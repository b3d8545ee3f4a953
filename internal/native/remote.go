package native

import (
	"fmt"
	"log/slog"

	"github.com/jscyril/golang_sound_manager/api"
)

// Remote control actions accepted by Remote.Do
const (
	ActionPlayback = "playback"
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionStop     = "stop"
	ActionExit     = "exit"
)

// Transport is the part of the playback engine remote actions drive
type Transport interface {
	Play(done api.InfoCallback)
	Pause(done api.InfoCallback)
	Stop(done api.Callback)
	IsPlaying() bool
}

// Remote turns media-button style actions into engine calls and bridge
// events. next and previous are left to the application.
type Remote struct {
	transport Transport
	sink      api.EventSink
	logger    *slog.Logger
}

func NewRemote(transport Transport, sink api.EventSink, logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{transport: transport, sink: sink, logger: logger}
}

// Do performs action. Engine failures are logged, not returned.
func (r *Remote) Do(action string) error {
	switch action {
	case ActionPlayback:
		if r.transport.IsPlaying() {
			r.transport.Pause(r.logInfo(action))
		} else {
			r.transport.Play(r.logInfo(action))
		}
	case ActionNext:
		r.sink.Publish(api.PlayerChannel, api.Envelope{Event: api.EventNext})
	case ActionPrevious:
		r.sink.Publish(api.PlayerChannel, api.Envelope{Event: api.EventPrevious})
	case ActionStop, ActionExit:
		r.transport.Stop(func(err error) {
			if err != nil {
				r.logger.Warn("remote action failed", "action", action, "error", err)
			}
		})
	default:
		return fmt.Errorf("unknown remote action %q", action)
	}
	return nil
}

func (r *Remote) logInfo(action string) api.InfoCallback {
	return func(_ *api.Info, err error) {
		if err != nil {
			r.logger.Warn("remote action failed", "action", action, "error", err)
		}
	}
}
