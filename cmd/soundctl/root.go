package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jscyril/golang_sound_manager/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg          *config.Config
	cfgFile      string
	verboseLevel int
)

var rootCmd = &cobra.Command{
	Use:   "soundctl",
	Short: "Audio player and recorder controllers with a terminal demo",
	Long: `soundctl drives a playback session and a recording session through
their native audio services.

Without a subcommand it opens the interactive demo screen.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}

		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}

		var err error
		cfg, err = config.LoadOrCreate(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// the demo owns the terminal, so it logs to a file instead
		if cmd.Name() != demoCmd.Name() && cmd != cmd.Root() {
			setupLogging(os.Stderr, verboseLevel, cfg.LogLevel)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return demoCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/soundctl/config.json)")
	rootCmd.PersistentFlags().IntVarP(&verboseLevel, "verbose", "v", 0, "verbose level: 0=config log level, 1+=debug")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(serveCmd)
}

// setupLogging configures slog from the verbose flag, falling back to the
// configured level
func setupLogging(w io.Writer, verbose int, configured string) *slog.Logger {
	var level slog.Level
	if verbose > 0 {
		level = slog.LevelDebug
	} else if err := level.UnmarshalText([]byte(configured)); err != nil {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
