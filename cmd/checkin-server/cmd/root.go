package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/safety-checkin/internal/config"
	"github.com/oshokin/safety-checkin/internal/logger"
	"github.com/oshokin/safety-checkin/internal/service/server"
	"github.com/oshokin/safety-checkin/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// journalFile overrides the notice journal path.
	journalFile string
	// logLevel sets the global log level.
	logLevel string

	// rootCmd represents the base command for running the gRPC server.
	rootCmd = &cobra.Command{
		Use:   "checkin-server [listen-address]",
		Short: "Run the safety check-in gRPC server.",
		Long: `Starts the gRPC server that keeps one check-in countdown per user and
dispatches emergency alerts.

When a countdown runs out, a "Check-in missed" notice is sent to every
configured notifier. Only the port from server_addr is used for listening
(e.g., :7443). A listen address argument overrides it (e.g., 0.0.0.0:9090).`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return logger.Configure(logLevel)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				JournalFile:   journalFile,
			})
		},
	}
)

// Execute runs the checkin-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&journalFile, "journal-file", "j", "", "append notices to this journal file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn, error")
}
