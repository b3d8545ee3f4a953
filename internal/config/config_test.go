package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.DefaultVolume != 1.0 {
		t.Errorf("Expected volume 1.0, got %f", cfg.DefaultVolume)
	}
	if len(cfg.Tracks) != 2 {
		t.Fatalf("Expected two demo tracks, got %d", len(cfg.Tracks))
	}
	if cfg.Recorder.Options.SampleRate != 44100 || cfg.Recorder.Options.Channels != 2 {
		t.Errorf("unexpected recorder options %+v", cfg.Recorder.Options)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DataDir != "./data" || cfg.Recorder.Path != "recorder.wav" {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadOrCreateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	cfg.DefaultVolume = 0.25
	cfg.Tracks = cfg.Tracks[:1]
	cfg.Recorder.Options.SampleRate = 22050
	cfg.KeyBindings.Quit = "x"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DefaultVolume != 0.25 {
		t.Errorf("volume = %f, want 0.25", loaded.DefaultVolume)
	}
	if len(loaded.Tracks) != 1 || loaded.Tracks[0].Title != "We don't talk any more" {
		t.Errorf("tracks = %+v", loaded.Tracks)
	}
	if loaded.Recorder.Options.SampleRate != 22050 {
		t.Errorf("sample rate = %d, want 22050", loaded.Recorder.Options.SampleRate)
	}
	if loaded.KeyBindings.Quit != "x" {
		t.Errorf("quit key = %q, want x", loaded.KeyBindings.Quit)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SOUNDCTL_DEFAULT_VOLUME", "0.4")
	t.Setenv("SOUNDCTL_RECORDER_PATH", "take.wav")
	t.Setenv("SOUNDCTL_REMOTE_ADDR", ":9000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DefaultVolume != 0.4 {
		t.Errorf("volume = %f, want 0.4", cfg.DefaultVolume)
	}
	if cfg.Recorder.Path != "take.wav" {
		t.Errorf("recorder path = %q", cfg.Recorder.Path)
	}
	if cfg.RemoteAddr != ":9000" {
		t.Errorf("remote addr = %q", cfg.RemoteAddr)
	}
}

func TestLoadConfigRejectsInvalidVolume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_volume": 1.5}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for out of range volume")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("SOUNDCTL_CONFIG", "/tmp/custom.json")
	if got := GetConfigPath(); got != "/tmp/custom.json" {
		t.Errorf("GetConfigPath() = %s", got)
	}

	t.Setenv("SOUNDCTL_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := GetConfigPath(); got != filepath.Join("/xdg", "soundctl", "config.json") {
		t.Errorf("GetConfigPath() = %s", got)
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		dir, path, expected string
	}{
		{"/data", "song.mp3", "/data/song.mp3"},
		{"/data", "/abs/song.mp3", "/abs/song.mp3"},
		{"/data", "", ""},
	}
	for _, tt := range tests {
		if got := ResolvePath(tt.dir, tt.path); got != tt.expected {
			t.Errorf("ResolvePath(%s, %s) = %s, want %s", tt.dir, tt.path, got, tt.expected)
		}
	}
}
