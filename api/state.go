package api

// MediaState is the lifecycle state of a playback or recording session.
// The values are ordered; recorder logic relies on relational comparisons.
type MediaState int

const (
	StateError MediaState = iota - 1
	StateIdle
	StatePreparing
	StatePrepared
	StatePlaying
	StateRecording
	StatePaused
	StateSeeking
	StateDestroyed
)

func (s MediaState) String() string {
	switch s {
	case StateError:
		return "ERROR"
	case StateIdle:
		return "IDLE"
	case StatePreparing:
		return "PREPARING"
	case StatePrepared:
		return "PREPARED"
	case StatePlaying:
		return "PLAYING"
	case StateRecording:
		return "RECORDING"
	case StatePaused:
		return "PAUSED"
	case StateSeeking:
		return "SEEKING"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}
