package api

// Bridge channel names
const (
	PlayerChannel   = "RCTSoundPlayerModuleBridgeEvent"
	RecorderChannel = "RCTSoundRecorderModuleBridgeEvent"
)

// EventType names an event carried by an envelope
type EventType string

const (
	EventProgress    EventType = "progress"
	EventEnded       EventType = "ended"
	EventNext        EventType = "next"
	EventPrevious    EventType = "previous"
	EventLooped      EventType = "looped"
	EventSeeked      EventType = "seeked"
	EventStop        EventType = "stop"
	EventDestroy     EventType = "destroy"
	EventError       EventType = "error"
	EventInfo        EventType = "info"
	EventPrepareFail EventType = "preparefail"
)

// EventData is the payload of every envelope. Fields not meaningful for an
// event are left zero.
type EventData struct {
	Position float64 `json:"position,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Message  string  `json:"message,omitempty"`
	Percent  int     `json:"percent,omitempty"`
	What     int     `json:"what,omitempty"`
	Extra    int     `json:"extra,omitempty"`
	Err      string  `json:"err,omitempty"`
}

// Envelope is the uniform shape of native events on the bridge
type Envelope struct {
	Event EventType `json:"event"`
	Data  EventData `json:"data"`
}
