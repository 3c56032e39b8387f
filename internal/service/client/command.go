package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/safety-checkin/internal/config"
	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/geolocation"
	"github.com/oshokin/safety-checkin/internal/logger"
	"github.com/oshokin/safety-checkin/internal/service/common"
)

// Action names a check-in client operation.
type Action string

// Supported actions.
const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionReset  Action = "reset"
	ActionStatus Action = "status"
	ActionAlert  Action = "alert"
)

// Options configures one client invocation.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Action selects the operation.
	Action Action
	// Minutes is the countdown length for ActionStart.
	Minutes int
	// Latitude and Longitude are the alert coordinates given on the command line.
	Latitude  *float64
	Longitude *float64
	// Output receives the human-readable result.
	Output io.Writer
}

// checkInAPI is the part of common.Client used by the commands.
type checkInAPI interface {
	StartTimer(ctx context.Context, actor *domain.Actor, minutes int) (domain.TimerState, error)
	ResumeTimer(ctx context.Context, actor *domain.Actor) (domain.TimerState, error)
	PauseTimer(ctx context.Context, actor *domain.Actor) (domain.TimerState, error)
	ResetTimer(ctx context.Context, actor *domain.Actor) (domain.TimerState, error)
	GetTimerState(ctx context.Context, actor *domain.Actor) (domain.TimerState, error)
	TriggerAlert(
		ctx context.Context,
		actor *domain.Actor,
		location *domain.LocationSample,
	) (*domain.EmergencyAlertPayload, error)
}

var (
	// errUnknownAction is returned for an unsupported action.
	errUnknownAction = errors.New("unknown action")
	// errPartialLocation is returned when only one coordinate is given.
	errPartialLocation = errors.New("both latitude and longitude are required")
)

// Run loads settings, connects to the server and performs opts.Action.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "checkin")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	actor, err := common.DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	// Bad coordinates must never reach the server.
	var location *domain.LocationSample
	if opts.Action == ActionAlert {
		location, err = alertLocation(opts, cfg.Location)
		if err != nil {
			return err
		}
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Sending request", "server_address", serverAddress, "action", opts.Action, "actor", actor.Key())

	return perform(ctx, client, actor, opts, location)
}

// perform runs a single action against api and prints the outcome.
func perform(
	ctx context.Context,
	api checkInAPI,
	actor *domain.Actor,
	opts *Options,
	location *domain.LocationSample,
) error {
	var (
		state domain.TimerState
		err   error
	)

	switch opts.Action {
	case ActionStart:
		state, err = api.StartTimer(ctx, actor, opts.Minutes)
	case ActionResume:
		state, err = api.ResumeTimer(ctx, actor)
	case ActionPause:
		state, err = api.PauseTimer(ctx, actor)
	case ActionReset:
		state, err = api.ResetTimer(ctx, actor)
	case ActionStatus:
		state, err = api.GetTimerState(ctx, actor)
	case ActionAlert:
		payload, alertErr := api.TriggerAlert(ctx, actor, location)
		if alertErr != nil {
			return alertErr
		}

		logger.InfoKV(ctx, "Emergency alert sent", "alert_id", payload.ID)

		return printLine(opts.Output, FormatAlert(payload))
	default:
		return fmt.Errorf("%w: %q", errUnknownAction, opts.Action)
	}

	if err != nil {
		return err
	}

	return printLine(opts.Output, FormatState(state))
}

// alertLocation picks the alert coordinates: command line first, then settings.
// A nil result lets the server resolve the position.
func alertLocation(opts *Options, configured *config.Location) (*domain.LocationSample, error) {
	switch {
	case opts.Latitude != nil && opts.Longitude != nil:
		sample := domain.LocationSample{Latitude: *opts.Latitude, Longitude: *opts.Longitude}
		if err := geolocation.Validate(sample); err != nil {
			return nil, err
		}

		return &sample, nil
	case opts.Latitude != nil || opts.Longitude != nil:
		return nil, fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, errPartialLocation)
	default:
		return configured.Sample(), nil
	}
}

// FormatState renders a countdown for people.
func FormatState(state domain.TimerState) string {
	remaining := time.Duration(state.RemainingSeconds) * time.Second
	total := time.Duration(state.DurationSeconds) * time.Second

	switch state.Status {
	case domain.TimerStatusRunning:
		return fmt.Sprintf("running: %s remaining of %s", remaining, total)
	case domain.TimerStatusPaused:
		return fmt.Sprintf("paused: %s remaining of %s", remaining, total)
	case domain.TimerStatusExpired:
		return fmt.Sprintf("expired: check-in of %s missed", total)
	default:
		return "idle: no check-in timer"
	}
}

// FormatAlert renders an alert payload for people.
func FormatAlert(payload *domain.EmergencyAlertPayload) string {
	if payload == nil {
		return "<no alert>"
	}

	return fmt.Sprintf("emergency alert %s sent at %s from %s", payload.ID, payload.Timestamp, payload.Location)
}

func printLine(w io.Writer, line string) error {
	if w == nil {
		return nil
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
