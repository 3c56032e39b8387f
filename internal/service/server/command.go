package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/oshokin/safety-checkin/internal/api/grpc/checkin"
	"github.com/oshokin/safety-checkin/internal/config"
	"github.com/oshokin/safety-checkin/internal/geolocation"
	"github.com/oshokin/safety-checkin/internal/logger"
	pb "github.com/oshokin/safety-checkin/internal/pb/v1"
)

// Options controls the checkin-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// JournalFile overrides the notice journal path from settings.
	JournalFile string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and blocks until context is canceled or server stops.
// Countdowns are stopped and notifier connections released before it returns.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "checkin-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	journalFile := settings.JournalFile
	if opts.JournalFile != "" {
		journalFile = opts.JournalFile
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	notifiers := newSinks(ctx, &settings.Notifiers, journalFile)

	defer func() {
		if closeErr := notifiers.Close(); closeErr != nil {
			logger.ErrorKV(ctx, "Failed to close notifiers", "error", closeErr)
		}
	}()

	svc := newService(ctx, serviceOptions{
		tickInterval: settings.TickInterval,
		maxMinutes:   settings.MaxDurationMinutes,
		locator:      geolocation.NewStatic(settings.Location.Sample()),
		notifier:     notifiers.notifier,
	})
	defer svc.Close()

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	limiter := api.NewRateLimiter(settings.RateLimit.RequestsPerSecond, settings.RateLimit.Burst)

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(limiter.UnaryInterceptor()))
	pb.RegisterCheckInServiceServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(ctx, "Check-in server listening",
		"listen_address", listenAddress,
		"tick_interval", settings.TickInterval,
		"max_duration_minutes", settings.MaxDurationMinutes,
	)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// An override wins; otherwise only the port of configAddr is kept so the
// server binds on all interfaces.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
