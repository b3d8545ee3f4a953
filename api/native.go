package api

// InfoCallback completes a native playback call
type InfoCallback func(info *Info, err error)

// Callback completes a native call that carries no result
type Callback func(err error)

// NativePlayer is the platform playback service a player controller drives.
// Every call completes asynchronously through its callback.
type NativePlayer interface {
	Prepare(path string, done InfoCallback)
	Set(opts PlayerOptions, done Callback)
	Play(done InfoCallback)
	Pause(done InfoCallback)
	SetURL(path string, done InfoCallback)
	Stop(done Callback)
	Seek(position float64, done InfoCallback)
	Destroy(done Callback)
}

// NativeRecorder is the platform recording service a recorder controller drives.
type NativeRecorder interface {
	Prepare(path string, opts RecorderOptions, done func(info *RecordInfo, err error))
	Record(done Callback)
	Stop(done Callback)
	Destroy(done Callback)
}

// EventSource delivers native envelopes published on a named channel.
// The returned func cancels the subscription.
type EventSource interface {
	Subscribe(channel string) (<-chan Envelope, func())
}

// EventSink publishes envelopes on a named channel.
type EventSink interface {
	Publish(channel string, env Envelope)
}
