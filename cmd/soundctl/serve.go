package main

import (
	"log/slog"

	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/internal/remote"
	"github.com/jscyril/golang_sound_manager/internal/sequence"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveLoad string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream player and recorder events over a websocket remote control",
	Long: `Serve a websocket at /ws. Clients receive every player and recorder
event as {"channel", "event", "data"} and may send {"action": "..."} with one
of playback, next, previous, stop or exit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		addr := cfg.RemoteAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		a, err := newApp(ctx, cfg, serveLoad, api.PlayerOptions{}, slog.Default())
		if err != nil {
			return err
		}
		defer a.close()

		if serveLoad != "" {
			if err := sequence.Await(ctx, func(done func(error)) { a.player.Prepare("", done) }); err != nil {
				return err
			}
			slog.Info("track loaded", "path", serveLoad)
		}

		return remote.NewServer(a.bridge, a.remote, slog.Default()).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveLoad, "load", "", "prepare this track so playback actions have something to play")
}
