package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/safety-checkin/internal/config"
	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/logger"
	"github.com/oshokin/safety-checkin/internal/service/common"
)

// Options controls the watch polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// PollInterval defines the interval between state checks.
	PollInterval time.Duration
}

// DefaultPollInterval is used when no interval is given.
const DefaultPollInterval = 5 * time.Second

// stateGetter fetches the actor's countdown.
type stateGetter interface {
	GetTimerState(ctx context.Context, actor *domain.Actor) (domain.TimerState, error)
}

// Run polls the countdown of the current actor until it expires or ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "checkin-watch")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	actor, err := common.DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Watching check-in timer", "server_address", serverAddress, "actor", actor.Key())

	_, err = Watch(ctx, client, actor, opts.PollInterval)

	return err
}

// Watch polls api every interval and logs the remaining time. It returns the
// expired state once the countdown runs out, or the last state seen with a
// nil error when ctx is canceled. Failed polls are logged and retried.
func Watch(
	ctx context.Context,
	api stateGetter,
	actor *domain.Actor,
	interval time.Duration,
) (domain.TimerState, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	last := domain.IdleState()

	// poll reports whether watching is over.
	poll := func() bool {
		state, err := api.GetTimerState(ctx, actor)
		if err != nil {
			logger.Errorf(ctx, "Get timer state failed: %v", err)

			return false
		}

		last = state

		switch state.Status {
		case domain.TimerStatusExpired:
			logger.Warnf(ctx, "Check-in of %s missed, emergency contacts notified",
				time.Duration(state.DurationSeconds)*time.Second)

			return true
		case domain.TimerStatusRunning, domain.TimerStatusPaused:
			logger.Infof(ctx, "Check-in timer %s, %s remaining",
				state.Status, time.Duration(state.RemainingSeconds)*time.Second)
		default:
			logger.Debugf(ctx, "No check-in timer running, next check in %s", interval)
		}

		return false
	}

	if poll() {
		return last, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return last, nil
		case <-ticker.C:
			if poll() {
				return last, nil
			}
		}
	}
}
