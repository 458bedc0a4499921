// Package cli provides the command-line interface for skylark.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skylarkphone/skylark/internal/app"
	"github.com/skylarkphone/skylark/internal/config"
	"github.com/skylarkphone/skylark/internal/inhibit"
	"github.com/skylarkphone/skylark/internal/logging"
)

// NewRootCmd creates the root command for skylark.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "skylark",
		Short: "A desktop softphone session window for Wayland",
		Long:  `Skylark opens a chat/video session window with a floating video overlay, docked into the chat pane or detached to the screen corner.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if configPath != "" {
				config.SetConfigFile(configPath)
			}
			if err := config.Init(); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg := config.Get()
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			logging.InitStartupTrace(cfg.Logging.Level)
			logging.Trace().Mark("config")

			logCfg := logging.Config{
				Level:      logging.ParseLevel(cfg.Logging.Level),
				Format:     cfg.Logging.Format,
				TimeFormat: time.RFC3339,
			}
			logger := logging.New(logCfg)
			if cfg.Logging.EnableFileLog {
				fileLogger, closer, err := logging.NewWithFile(logCfg, cfg.Logging.LogDir)
				if err != nil {
					logger.Warn().Err(err).Msg("file logging unavailable")
				} else {
					logger = fileLogger
					defer func() {
						if err := closer.Close(); err != nil {
							fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
						}
					}()
				}
			}
			ctx := logging.WithContext(context.Background(), logger)
			logging.Trace().SetLogger(&logger)
			logging.Trace().Mark("logger")
			logging.InstallGLibLogHandler(ctx, logger, logger.GetLevel() <= zerolog.DebugLevel)

			inhibitor := inhibit.NewPortalInhibitor(ctx)
			defer func() {
				if err := inhibitor.Close(); err != nil {
					logger.Warn().Err(err).Msg("failed to close portal inhibitor")
				}
			}()

			a := app.New(cfg, inhibitor)
			setupSignalHandler(a, logger)

			if code := a.Run(ctx); code != 0 {
				return fmt.Errorf("application exited with code %d", code)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging level (trace, debug, info, warn, error)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("skylark %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built: %s\n", buildDate)
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize skylark configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			if configPath != "" {
				config.SetConfigFile(configPath)
			}
			if err := config.Init(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			cfg := config.Get()

			fmt.Printf("skylark %s - Initialization complete!\n", version)

			xdgDirs, err := config.GetXDGDirs()
			if err == nil {
				fmt.Println("Configuration directories:")
				fmt.Printf("- Config: %s\n", xdgDirs.ConfigHome)
				fmt.Printf("- Data: %s\n", xdgDirs.DataHome)
				fmt.Printf("- State: %s\n", xdgDirs.StateHome)
			}
			fmt.Println("Screenshots directory:", cfg.Video.ScreenshotsDir)
			return nil
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)

	return rootCmd
}

// setupSignalHandler quits the GTK main loop on SIGINT/SIGTERM so the
// window tears down cleanly instead of dying mid-frame.
func setupSignalHandler(a *app.App, logger zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		a.Quit()
	}()
}
