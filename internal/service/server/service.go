package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/safety-checkin/internal/alert"
	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/geolocation"
	"github.com/oshokin/safety-checkin/internal/logger"
	"github.com/oshokin/safety-checkin/internal/notify"
	"github.com/oshokin/safety-checkin/internal/timer"
)

// serviceOptions carries the countdown and alert settings of a service.
type serviceOptions struct {
	// tickInterval is the wall-clock length of one tick.
	tickInterval time.Duration
	// maxMinutes bounds start durations.
	maxMinutes int
	// locator resolves the position when a request carries none.
	locator geolocation.Provider
	// notifier receives expiry notices and alerts.
	notifier notify.Notifier
}

// service owns one countdown per actor and dispatches alerts.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// base parents every countdown so runs outlive the request that started them.
	base context.Context
	// opts holds the immutable settings.
	opts serviceOptions
	// dispatcher builds and delivers alerts.
	dispatcher *alert.Dispatcher
	// sessions maps actor keys to countdowns.
	sessions map[string]*timer.Countdown
	// closed rejects new sessions after Close.
	closed bool
	// mu protects sessions and closed.
	mu sync.RWMutex
}

// newService creates a service whose countdowns live until ctx ends or Close is called.
func newService(ctx context.Context, opts serviceOptions) *service {
	return &service{
		base:       ctx,
		opts:       opts,
		dispatcher: alert.NewDispatcher(opts.notifier),
		sessions:   make(map[string]*timer.Countdown),
	}
}

// StartTimer starts a countdown for actor, or resumes it when minutes is zero
// and the countdown is paused.
func (s *service) StartTimer(ctx context.Context, actor *domain.Actor, minutes int) (domain.TimerState, error) {
	countdown, err := s.session(actor)
	if err != nil {
		return domain.IdleState(), err
	}

	state, err := countdown.Start(minutes)
	if err != nil {
		logger.WarnKV(ctx, "Countdown not started", "actor", actor.Key(), "minutes", minutes, "error", err)

		return state, fmt.Errorf("start countdown: %w", err)
	}

	logger.InfoKV(ctx, "Countdown started",
		"actor", actor.Key(),
		"status", state.Status,
		"remaining_seconds", state.RemainingSeconds,
	)

	return state, nil
}

// PauseTimer pauses the actor's countdown.
func (s *service) PauseTimer(ctx context.Context, actor *domain.Actor) domain.TimerState {
	countdown := s.existing(actor)
	if countdown == nil {
		return domain.IdleState()
	}

	state := countdown.Pause()
	logger.InfoKV(ctx, "Countdown paused", "actor", actor.Key(), "remaining_seconds", state.RemainingSeconds)

	return state
}

// ResetTimer resets the actor's countdown.
func (s *service) ResetTimer(ctx context.Context, actor *domain.Actor) domain.TimerState {
	countdown := s.existing(actor)
	if countdown == nil {
		return domain.IdleState()
	}

	state := countdown.Reset()
	logger.InfoKV(ctx, "Countdown reset", "actor", actor.Key())

	return state
}

// GetTimerState returns the actor's countdown.
func (s *service) GetTimerState(ctx context.Context, actor *domain.Actor) domain.TimerState {
	countdown := s.existing(actor)
	if countdown == nil {
		return domain.IdleState()
	}

	state := countdown.State()
	logger.DebugKV(ctx, "Countdown requested", "actor", actor.Key(), "status", state.Status)

	return state
}

// TriggerAlert dispatches an alert at location, or at the configured position
// when location is nil.
func (s *service) TriggerAlert(
	ctx context.Context,
	actor *domain.Actor,
	location *domain.LocationSample,
) (*domain.EmergencyAlertPayload, error) {
	provider := s.opts.locator
	if location != nil {
		provider = geolocation.NewStatic(location)
	}

	return s.dispatcher.Guarded(ctx, provider, actor)
}

// Close stops every countdown and waits for their goroutines and for alerts
// still being delivered.
func (s *service) Close() {
	s.mu.Lock()
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*timer.Countdown)
	s.mu.Unlock()

	for _, countdown := range sessions {
		countdown.Close()
	}

	s.dispatcher.Wait()
}

// session returns the actor's countdown, creating it on first use.
func (s *service) session(actor *domain.Actor) (*timer.Countdown, error) {
	if actor == nil {
		return nil, domain.ErrActorRequired
	}

	if countdown := s.existing(actor); countdown != nil {
		return countdown, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, timer.ErrClosed
	}

	key := actor.Key()
	if countdown, ok := s.sessions[key]; ok {
		return countdown, nil
	}

	owner := actor.Clone()
	countdown := timer.New(
		logger.WithKV(s.base, "actor", key),
		timer.WithInterval(s.opts.tickInterval),
		timer.WithMaxMinutes(s.opts.maxMinutes),
		timer.OnExpire(func(ctx context.Context, state domain.TimerState) {
			s.expired(ctx, owner, state)
		}),
	)

	s.sessions[key] = countdown

	return countdown, nil
}

// existing returns the actor's countdown or nil.
func (s *service) existing(actor *domain.Actor) *timer.Countdown {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[actor.Key()]
}

// expired sends the one-shot "check-in missed" notice to emergency contacts.
func (s *service) expired(ctx context.Context, actor *domain.Actor, state domain.TimerState) {
	logger.WarnKV(ctx, "Countdown expired", "duration_seconds", state.DurationSeconds)

	if s.opts.notifier == nil {
		return
	}

	notice := &domain.Notice{
		Title: "Check-in missed",
		Message: fmt.Sprintf(
			"%s did not check in within %s, notifying emergency contacts",
			actor.Key(),
			time.Duration(state.DurationSeconds)*time.Second,
		),
		Severity:  domain.SeverityCritical,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.opts.notifier.Notify(ctx, notice); err != nil {
		logger.ErrorKV(ctx, "Expiry notice delivery incomplete", "error", err)
	}
}
