package api

// PlayerOptions is an option bundle sent to the native player. Only non-nil
// fields are applied, so a bundle may carry a single key.
type PlayerOptions struct {
	Title            *string  `json:"title,omitempty"`
	Singer           *string  `json:"singer,omitempty"`
	Author           *string  `json:"author,omitempty"`
	ImageURL         *string  `json:"image_url,omitempty"`
	Volume           *float64 `json:"volume,omitempty"`
	Pan              *float64 `json:"pan,omitempty"`
	Speed            *float64 `json:"speed,omitempty"`
	Pitch            *float64 `json:"pitch,omitempty"`
	Looping          *bool    `json:"looping,omitempty"`
	WakeLock         *bool    `json:"wakeLock,omitempty"`
	ShowNotification *bool    `json:"showNotification,omitempty"`
}

// Merge returns o overlaid with every key set in other.
func (o PlayerOptions) Merge(other PlayerOptions) PlayerOptions {
	if other.Title != nil {
		o.Title = other.Title
	}
	if other.Singer != nil {
		o.Singer = other.Singer
	}
	if other.Author != nil {
		o.Author = other.Author
	}
	if other.ImageURL != nil {
		o.ImageURL = other.ImageURL
	}
	if other.Volume != nil {
		o.Volume = other.Volume
	}
	if other.Pan != nil {
		o.Pan = other.Pan
	}
	if other.Speed != nil {
		o.Speed = other.Speed
	}
	if other.Pitch != nil {
		o.Pitch = other.Pitch
	}
	if other.Looping != nil {
		o.Looping = other.Looping
	}
	if other.WakeLock != nil {
		o.WakeLock = other.WakeLock
	}
	if other.ShowNotification != nil {
		o.ShowNotification = other.ShowNotification
	}
	return o
}

// RecorderOptions configures a native recording session. Zero values fall
// back to the native defaults.
type RecorderOptions struct {
	Bitrate    int    `json:"bitrate,omitempty" mapstructure:"bitrate"`
	Channels   int    `json:"channels,omitempty" mapstructure:"channels"`
	SampleRate int    `json:"sampleRate,omitempty" mapstructure:"sampleRate"`
	Quality    string `json:"quality,omitempty" mapstructure:"quality"`
	Format     string `json:"format,omitempty" mapstructure:"format"`
	Encoder    string `json:"encoder,omitempty" mapstructure:"encoder"`
}

// String, Float and Bool return pointers for option literals.
func String(v string) *string { return &v }
func Float(v float64) *float64 { return &v }
func Bool(v bool) *bool { return &v }
