package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jscyril/golang_sound_manager/internal/playlist"
	"github.com/jscyril/golang_sound_manager/internal/sequence"
	"github.com/jscyril/golang_sound_manager/internal/ui"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open the interactive player and recorder screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the screen owns the terminal; debug logs go to a file
		var logOut io.Writer = io.Discard
		if verboseLevel > 0 {
			f, err := os.OpenFile(filepath.Join(cfg.DataDir, "soundctl.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				defer f.Close()
				logOut = f
			}
		}
		logger := setupLogging(logOut, verboseLevel, cfg.LogLevel)

		ctx, cancel := signalContext()
		defer cancel()

		queue := playlist.NewQueue(cfg.Tracks)
		first := queue.Current()
		if first == nil {
			return fmt.Errorf("no tracks configured in %s", cfgFile)
		}

		a, err := newApp(ctx, cfg, first.Path, first.Options(), logger)
		if err != nil {
			return err
		}
		defer a.close()

		// start on the first track the way the screen opens
		go func() {
			if err := sequence.Await(ctx, a.player.Play); err != nil {
				logger.Warn("initial play failed", "error", err)
			}
		}()

		if err := ui.Run(a.player, a.recorder, queue, cfg.KeyBindings); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}
