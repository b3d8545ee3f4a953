package main

import (
	"fmt"
	"log/slog"

	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/internal/sequence"
	"github.com/spf13/cobra"
)

var (
	playVolume  float64
	playLooping bool
)

var playCmd = &cobra.Command{
	Use:   "play <path|url>",
	Short: "Play a file or http(s) stream until it ends",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		opts := api.PlayerOptions{Looping: api.Bool(playLooping)}
		if cmd.Flags().Changed("volume") {
			opts.Volume = api.Float(playVolume)
		}

		a, err := newApp(ctx, cfg, args[0], opts, slog.Default())
		if err != nil {
			return err
		}
		defer a.close()

		ended := make(chan struct{}, 1)
		a.player.OnEnded(func() {
			select {
			case ended <- struct{}{}:
			default:
			}
		})
		a.player.OnProgress(func(position, duration float64) {
			slog.Debug("progress", "position_ms", position, "duration_ms", duration,
				"ratio", api.ProgressRatio(position, duration))
		})

		if err := sequence.Await(ctx, a.player.Play); err != nil {
			return fmt.Errorf("play %s: %w", args[0], err)
		}
		slog.Info("playing", "path", args[0], "title", a.player.Title(), "duration_ms", a.player.Duration())

		select {
		case <-ended:
			slog.Info("playback completed")
		case <-ctx.Done():
			slog.Info("stopping")
			return sequence.Await(ctx, a.player.Stop)
		}
		return nil
	},
}

func init() {
	playCmd.Flags().Float64Var(&playVolume, "volume", 1.0, "volume between 0 and 1 (default from config)")
	playCmd.Flags().BoolVar(&playLooping, "loop", false, "restart the track when it ends")
}
