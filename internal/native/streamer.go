package native

import (
	"sync/atomic"

	"github.com/faiface/beep"
)

// endWatcher wraps a decoded stream and reports when it runs out. A looping
// stream is rewound and keeps playing; otherwise the rest of the buffer is
// filled with silence so the speaker mixer keeps the streamer attached.
// A decode error stops the stream and is reported through onError.
type endWatcher struct {
	s       beep.StreamSeeker
	looping *atomic.Bool
	onEnd   func(looped bool)
	onError func(err error)
}

func (w *endWatcher) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	restarted := false

	for filled < len(samples) {
		want := len(samples) - filled
		n, ok := w.s.Stream(samples[filled:])
		filled += n
		if ok && n == want {
			break
		}
		if err := w.s.Err(); err != nil {
			if w.onError != nil {
				w.onError(err)
			}
			break
		}
		if restarted && n == 0 {
			// empty stream, avoid spinning
			break
		}

		if err := w.s.Seek(0); err != nil {
			break
		}
		if !w.looping.Load() {
			w.onEnd(false)
			break
		}
		restarted = true
		w.onEnd(true)
	}

	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (w *endWatcher) Err() error {
	return w.s.Err()
}
