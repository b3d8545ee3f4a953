package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/internal/sequence"
	"github.com/spf13/cobra"
)

var recordSeconds int

var recordCmd = &cobra.Command{
	Use:   "record [path]",
	Short: "Record the default input device to a WAV file",
	Long: `Record from the default input device. Relative paths are written under
the configured recordings directory. Recording stops after --seconds, or on
Ctrl+C when no limit is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		if len(args) == 1 {
			cfg.Recorder.Path = args[0]
		}

		a, err := newApp(ctx, cfg, "", api.PlayerOptions{}, slog.Default())
		if err != nil {
			return err
		}
		defer a.close()

		a.recorder.OnProgress(func(position float64) {
			slog.Debug("recording", "position_ms", position)
		})

		if err := sequence.Await(ctx, a.recorder.Record); err != nil {
			return fmt.Errorf("record: %w", err)
		}
		slog.Info("recording - press Ctrl+C to stop", "file", a.recorder.Filepath())

		wait := ctx
		if recordSeconds > 0 {
			var stop context.CancelFunc
			wait, stop = context.WithTimeout(ctx, time.Duration(recordSeconds)*time.Second)
			defer stop()
		}
		<-wait.Done()

		// ctx may already be cancelled by the signal
		if err := sequence.Await(context.Background(), a.recorder.Stop); err != nil {
			return fmt.Errorf("stop recording: %w", err)
		}
		fmt.Println(a.recorder.Filepath())
		return nil
	},
}

func init() {
	recordCmd.Flags().IntVar(&recordSeconds, "seconds", 0, "stop after this many seconds (0 waits for Ctrl+C)")
}
