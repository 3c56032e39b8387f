package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/geolocation"
	"github.com/oshokin/safety-checkin/internal/logger"
	"github.com/oshokin/safety-checkin/internal/notify"
)

// Dispatcher turns a location into an emergency alert and hands it to the
// notice sinks.
type Dispatcher struct {
	notifier        notify.Notifier
	now             func() time.Time
	newID           func() string
	deliveryTimeout time.Duration
	// deliveries tracks notices still being delivered after their request ended.
	deliveries sync.WaitGroup
}

// DefaultDeliveryTimeout bounds the delivery of one alert to all sinks.
const DefaultDeliveryTimeout = 30 * time.Second

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithDeliveryTimeout bounds how long sinks may take to accept an alert.
func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.deliveryTimeout = timeout
		}
	}
}

// WithIDs replaces the alert id source.
func WithIDs(newID func() string) Option {
	return func(d *Dispatcher) {
		if newID != nil {
			d.newID = newID
		}
	}
}

// NewDispatcher creates a dispatcher delivering through notifier.
func NewDispatcher(notifier notify.Notifier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		notifier:        notifier,
		now:             time.Now,
		newID:           uuid.NewString,
		deliveryTimeout: DefaultDeliveryTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch builds the payload for location and sends it as a critical notice.
// The location must already be validated. Sink failures are logged and do not
// fail the dispatch because delivery is not guaranteed.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	actor *domain.Actor,
	location domain.LocationSample,
) *domain.EmergencyAlertPayload {
	now := d.now().UTC()
	payload := &domain.EmergencyAlertPayload{
		ID:        d.newID(),
		Kind:      domain.AlertKind,
		Timestamp: now.Format(time.RFC3339),
		Location:  location,
		Actor:     actor.Clone(),
	}

	logger.InfoKV(ctx, "Emergency alert dispatched",
		"alert_id", payload.ID,
		"actor", actor.Key(),
		"location", location.String(),
		"timestamp", payload.Timestamp,
	)

	if d.notifier == nil {
		return payload
	}

	notice := &domain.Notice{
		Title:     "Emergency alert",
		Message:   fmt.Sprintf("Emergency alert from %s at %s", actor.Key(), location),
		Severity:  domain.SeverityCritical,
		Actor:     actor.Clone(),
		Alert:     payload,
		CreatedAt: now,
	}

	d.deliver(ctx, notice)

	return payload
}

// deliver sends notice on a context detached from ctx, so a request that ends
// early does not cut off the sinks. It waits for delivery while ctx is alive.
func (d *Dispatcher) deliver(ctx context.Context, notice *domain.Notice) {
	done := make(chan struct{})

	d.deliveries.Go(func() {
		defer close(done)

		deliveryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.deliveryTimeout)
		defer cancel()

		if err := d.notifier.Notify(deliveryCtx, notice); err != nil {
			logger.ErrorKV(deliveryCtx, "Emergency alert delivery incomplete", "alert_id", notice.Alert.ID, "error", err)
		}
	})

	select {
	case <-done:
	case <-ctx.Done():
		logger.WarnKV(ctx, "Request ended, emergency alert delivery continues", "alert_id", notice.Alert.ID)
	}
}

// Wait blocks until every alert handed to the sinks has been delivered or
// has timed out.
func (d *Dispatcher) Wait() {
	d.deliveries.Wait()
}

// Guarded resolves the location with provider and dispatches only when that
// succeeds. Without a location no payload is built and the returned error
// wraps ErrLocationUnavailable.
func (d *Dispatcher) Guarded(
	ctx context.Context,
	provider geolocation.Provider,
	actor *domain.Actor,
) (*domain.EmergencyAlertPayload, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: no location provider", domain.ErrLocationUnavailable)
	}

	location, err := provider.CurrentPosition(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Alert blocked, location unavailable", "actor", actor.Key(), "error", err)

		return nil, fmt.Errorf("resolve location: %w", err)
	}

	return d.Dispatch(ctx, actor, location), nil
}
