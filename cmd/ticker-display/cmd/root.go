package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/service/device"
	"github.com/oshokin/ticker-display/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// consoleOnly runs with the console renderer and fake inputs.
	consoleOnly bool

	// rootCmd represents the base command that runs the control loop.
	rootCmd = &cobra.Command{
		Use:   "ticker-display",
		Short: "Run the price ticker display control loop.",
		Long: `Runs the single-threaded control loop that polls the configured price
providers, drives the display and the alert indicator, and watches the
buttons, until interrupted.

A missing settings file is not an error: the device starts on factory
defaults, the same state it is in right after a factory reset. Holding the
shared button for ten seconds wipes the settings file and restarts the
process.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &device.Options{
				ConfigPath:  configPath,
				LogLevel:    logLevel,
				ConsoleOnly: consoleOnly,
			}

			return device.Run(ctx, options)
		},
	}
)

// Execute runs the ticker-display CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&consoleOnly, "console", false, "run off-target with the console renderer and no GPIO")
}
