package checkin

import "errors"

var (
	// ErrInvalidDuration is returned when a countdown is started with a
	// non-positive or out-of-range duration. The countdown is left unchanged.
	ErrInvalidDuration = errors.New("invalid timer duration")
	// ErrLocationUnavailable is returned when no usable location sample could
	// be obtained. Location-dependent actions must not proceed.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrActorRequired is returned when an operation lacks the owning actor.
	ErrActorRequired = errors.New("actor is required")
)
