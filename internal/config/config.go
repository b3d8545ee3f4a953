package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jscyril/golang_sound_manager/api"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SOUNDCTL_DEFAULT_VOLUME
const EnvPrefix = "SOUNDCTL"

// Config holds application configuration
type Config struct {
	DataDir       string         `json:"data_dir" mapstructure:"data_dir"`
	RecordingsDir string         `json:"recordings_dir" mapstructure:"recordings_dir"`
	DefaultVolume float64        `json:"default_volume" mapstructure:"default_volume"`
	LogLevel      string         `json:"log_level" mapstructure:"log_level"`
	RemoteAddr    string         `json:"remote_addr" mapstructure:"remote_addr"`
	Tracks        []api.Track    `json:"tracks" mapstructure:"tracks"`
	Recorder      RecorderConfig `json:"recorder" mapstructure:"recorder"`
	KeyBindings   KeyMap         `json:"key_bindings" mapstructure:"key_bindings"`
}

// RecorderConfig is the demo recording session
type RecorderConfig struct {
	Path    string              `json:"path" mapstructure:"path"`
	Options api.RecorderOptions `json:"options" mapstructure:"options"`
}

// KeyMap defines keyboard shortcuts of the demo screen
type KeyMap struct {
	PlayFirst     string `json:"play_first" mapstructure:"play_first"`
	PlaySecond    string `json:"play_second" mapstructure:"play_second"`
	Pause         string `json:"pause" mapstructure:"pause"`
	Seek          string `json:"seek" mapstructure:"seek"`
	Next          string `json:"next" mapstructure:"next"`
	Previous      string `json:"previous" mapstructure:"previous"`
	Prepare       string `json:"prepare" mapstructure:"prepare"`
	ToggleRecord  string `json:"toggle_record" mapstructure:"toggle_record"`
	PlayRecording string `json:"play_recording" mapstructure:"play_recording"`
	Quit          string `json:"quit" mapstructure:"quit"`
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		DataDir:       "./data",
		RecordingsDir: "./recordings",
		DefaultVolume: 1.0,
		LogLevel:      "info",
		RemoteAddr:    "127.0.0.1:8765",
		Tracks: []api.Track{
			{
				ID:     "1",
				Title:  "We don't talk any more",
				Singer: "Charlie Puth",
				Path:   "track1.mp3",
			},
			{
				ID:     "2",
				Title:  "Beautiful in white",
				Singer: "Shane Filan",
				Path:   "track2.mp3",
			},
		},
		Recorder: RecorderConfig{
			Path: "recorder.wav",
			Options: api.RecorderOptions{
				Bitrate:    256000,
				Channels:   2,
				SampleRate: 44100,
				Quality:    "max",
			},
		},
		KeyBindings: KeyMap{
			PlayFirst:     "1",
			PlaySecond:    "2",
			Pause:         " ",
			Seek:          "s",
			Next:          "n",
			Previous:      "p",
			Prepare:       "r",
			ToggleRecord:  "t",
			PlayRecording: "o",
			Quit:          "q",
		},
	}
}

// newViper returns a viper instance seeded with defaults and bound to the
// SOUNDCTL_ environment
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("recordings_dir", defaults.RecordingsDir)
	v.SetDefault("default_volume", defaults.DefaultVolume)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("remote_addr", defaults.RemoteAddr)
	v.SetDefault("recorder.path", defaults.Recorder.Path)
	v.SetDefault("recorder.options.bitrate", defaults.Recorder.Options.Bitrate)
	v.SetDefault("recorder.options.channels", defaults.Recorder.Options.Channels)
	v.SetDefault("recorder.options.sampleRate", defaults.Recorder.Options.SampleRate)
	v.SetDefault("recorder.options.quality", defaults.Recorder.Options.Quality)
	return v
}

// LoadConfig reads configuration from path, falling back to defaults for a
// missing file. Environment variables override both.
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()
	v := newViper(config)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// a configured track list replaces the demo tracks instead of merging
	if v.IsSet("tracks") {
		config.Tracks = nil
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.DefaultVolume < 0 || c.DefaultVolume > 1 {
		return fmt.Errorf("default_volume %.2f out of range [0, 1]", c.DefaultVolume)
	}
	if c.Recorder.Options.Channels < 0 || c.Recorder.Options.SampleRate < 0 {
		return fmt.Errorf("recorder options must not be negative")
	}
	return nil
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return config, nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "soundctl", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "soundctl", "config.json")
}

// ResolvePath returns path as given when absolute, otherwise relative to dir
func ResolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
