package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name       string
		verbose    int
		configured string
		want       slog.Level
	}{
		{"verbose wins", 1, "error", slog.LevelDebug},
		{"configured level", 0, "warn", slog.LevelWarn},
		{"invalid falls back to info", 0, "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := setupLogging(&buf, tt.verbose, tt.configured)
			defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

			if !logger.Enabled(context.Background(), tt.want) {
				t.Errorf("level %v should be enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-4) {
				t.Errorf("level below %v should be disabled", tt.want)
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"demo", "play", "record", "serve"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}
