package api

import "time"

// Track is an entry of the demo track list
type Track struct {
	ID       string        `json:"id" mapstructure:"id"`
	Title    string        `json:"title" mapstructure:"title"`
	Singer   string        `json:"singer" mapstructure:"singer"`
	ImageURL string        `json:"image_url" mapstructure:"image_url"`
	Path     string        `json:"path" mapstructure:"path"`
	Duration time.Duration `json:"-" mapstructure:"-"`
}

// Options returns the option bundle announcing the track's metadata
func (t *Track) Options() PlayerOptions {
	return PlayerOptions{
		Title:            String(t.Title),
		Singer:           String(t.Singer),
		ImageURL:         String(t.ImageURL),
		ShowNotification: Bool(true),
	}
}

// Info is the result of native playback calls
type Info struct {
	Duration       float64 `json:"duration"`
	Position       float64 `json:"position"`
	AudioSessionID int     `json:"audioSessionId,omitempty"`
	Title          string  `json:"title,omitempty"`
	Author         string  `json:"author,omitempty"`
	Singer         string  `json:"singer,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
}

// RecordInfo is the result of a successful native recorder prepare
type RecordInfo struct {
	Filepath string `json:"filepath"`
}

// ProgressRatio normalizes a play-head position into [0,1].
func ProgressRatio(position, duration float64) float64 {
	if duration == 0 {
		return 0
	}
	r := position / duration
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
