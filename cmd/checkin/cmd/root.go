package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/safety-checkin/internal/config"
	"github.com/oshokin/safety-checkin/internal/logger"
	"github.com/oshokin/safety-checkin/internal/service/client"
	"github.com/oshokin/safety-checkin/internal/service/watcher"
	"github.com/oshokin/safety-checkin/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the server address from settings.
	serverAddress string
	// logLevel sets the global log level.
	logLevel string

	// rootCmd is the check-in client.
	rootCmd = &cobra.Command{
		Use:   "checkin",
		Short: "Control your safety check-in timer and raise emergency alerts.",
		Long: `Starts, pauses, resumes and resets a safety check-in countdown kept by
the check-in server. If the countdown runs out before you check in, your
emergency contacts are notified. The alert command notifies them right away
with your current location.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return logger.Configure(logLevel)
		},
	}
)

// Execute runs the checkin CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runAction performs action with a signal-aware context.
func runAction(cmd *cobra.Command, opts *client.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	opts.ConfigPath = cfgPath
	opts.ServerAddress = serverAddress
	opts.Output = cmd.OutOrStdout()

	return client.Run(ctx, opts)
}

// simpleCommand builds a subcommand that takes no arguments.
func simpleCommand(action client.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(cmd, &client.Options{Action: action})
		},
	}
}

func newStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <minutes>",
		Short: "Start a check-in countdown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}

			return runAction(cmd, &client.Options{Action: client.ActionStart, Minutes: minutes})
		},
	}
}

func newAlertCommand() *cobra.Command {
	var latitude, longitude float64

	alertCmd := &cobra.Command{
		Use:   "alert",
		Short: "Send an emergency alert with your location.",
		Long: `Sends an emergency alert to your contacts. The location comes from
--lat/--lng, then from the location in settings, then from the server.
Invalid coordinates are rejected before anything is sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := &client.Options{Action: client.ActionAlert}
			if cmd.Flags().Changed("lat") {
				opts.Latitude = &latitude
			}

			if cmd.Flags().Changed("lng") {
				opts.Longitude = &longitude
			}

			return runAction(cmd, opts)
		},
	}

	alertCmd.Flags().Float64Var(&latitude, "lat", 0, "latitude in degrees, -90..90")
	alertCmd.Flags().Float64Var(&longitude, "lng", 0, "longitude in degrees, -180..180")

	return alertCmd
}

func newWatchCommand() *cobra.Command {
	var interval time.Duration

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the countdown until it expires.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return watcher.Run(ctx, &watcher.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				PollInterval:  interval,
			})
		},
	}

	watchCmd.Flags().DurationVarP(&interval, "interval", "i", watcher.DefaultPollInterval, "poll interval")

	return watchCmd
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "check-in server address, overrides settings")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newStartCommand(),
		simpleCommand(client.ActionPause, "Pause the countdown."),
		simpleCommand(client.ActionResume, "Resume a paused countdown."),
		simpleCommand(client.ActionReset, "Stop the countdown and clear it."),
		simpleCommand(client.ActionStatus, "Show the countdown."),
		newAlertCommand(),
		newWatchCommand(),
	)
}
