package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/internal/config"
	"github.com/jscyril/golang_sound_manager/internal/native"
	"github.com/jscyril/golang_sound_manager/internal/player"
	"github.com/jscyril/golang_sound_manager/internal/recorder"
	"github.com/jscyril/golang_sound_manager/pkg/events"
)

// app wires the native services and controllers around one bridge
type app struct {
	bridge   *events.Bridge
	engine   *native.Engine
	capture  *native.Capture
	remote   *native.Remote
	player   *player.Player
	recorder *recorder.Recorder
}

func newApp(ctx context.Context, cfg *config.Config, playPath string, opts api.PlayerOptions, logger *slog.Logger) (*app, error) {
	for _, dir := range []string{cfg.DataDir, cfg.RecordingsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	bridge := events.NewBridge()

	engine := native.NewEngine(bridge,
		native.WithDataDir(cfg.DataDir),
		native.WithEngineLogger(logger.With("component", "engine")),
	)
	engine.Start(ctx)

	capture := native.NewCapture(bridge,
		native.WithRecordingsDir(cfg.RecordingsDir),
		native.WithCaptureLogger(logger.With("component", "capture")),
	)

	volume := cfg.DefaultVolume
	if opts.Volume != nil {
		volume = *opts.Volume
	}

	a := &app{
		bridge:  bridge,
		engine:  engine,
		capture: capture,
		remote:  native.NewRemote(engine, bridge, logger.With("component", "remote")),
		player: player.New(engine, bridge, playPath, opts,
			player.WithLogger(logger.With("component", "player"))),
		recorder: recorder.New(capture, bridge, cfg.Recorder.Path, cfg.Recorder.Options,
			recorder.WithLogger(logger.With("component", "recorder"))),
	}

	// the session is idle, so this only seeds the mirror sent with prepare
	var err error
	a.player.SetVolume(volume, func(e error) { err = e })
	if err != nil {
		return nil, fmt.Errorf("volume: %w", err)
	}
	return a, nil
}

// close releases the sessions and the bridge
func (a *app) close() {
	a.player.Destroy(nil)
	a.recorder.Destroy(nil)
	a.player.Close()
	a.recorder.Close()
	a.bridge.Close()
}
