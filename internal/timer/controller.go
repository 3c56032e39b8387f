package timer

import (
	"fmt"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

const secondsPerMinute = 60

// Controller owns a TimerState and applies the countdown transitions.
// It is not safe for concurrent use, Countdown serialises access to it.
type Controller struct {
	state      domain.TimerState
	maxMinutes int
}

// NewController creates an idle controller accepting durations up to
// maxMinutes. A non-positive maxMinutes leaves the upper bound open.
func NewController(maxMinutes int) *Controller {
	return &Controller{
		state:      domain.IdleState(),
		maxMinutes: maxMinutes,
	}
}

// Start begins a countdown of minutes from idle, or resumes from paused with
// a zero or positive minutes ignored. It returns true when the controller
// moved to running. Running and expired controllers ignore the call. Negative
// minutes are rejected in every state.
func (c *Controller) Start(minutes int) (bool, error) {
	if minutes < 0 {
		return false, fmt.Errorf("%w: %d minutes", domain.ErrInvalidDuration, minutes)
	}

	switch c.state.Status {
	case domain.TimerStatusPaused:
		c.state.Status = domain.TimerStatusRunning
		c.state.IsActive = true

		return true, nil
	case domain.TimerStatusIdle:
		if minutes <= 0 || (c.maxMinutes > 0 && minutes > c.maxMinutes) {
			return false, fmt.Errorf("%w: %d minutes", domain.ErrInvalidDuration, minutes)
		}

		seconds := minutes * secondsPerMinute
		c.state = domain.TimerState{
			Status:           domain.TimerStatusRunning,
			IsActive:         true,
			DurationSeconds:  seconds,
			RemainingSeconds: seconds,
		}

		return true, nil
	case domain.TimerStatusRunning, domain.TimerStatusExpired:
		return false, nil
	default:
		return false, nil
	}
}

// Tick removes one second while running. It returns true exactly once, on
// the tick that reaches zero.
func (c *Controller) Tick() bool {
	if c.state.Status != domain.TimerStatusRunning {
		return false
	}

	if c.state.RemainingSeconds > 0 {
		c.state.RemainingSeconds--
	}

	if c.state.RemainingSeconds > 0 {
		return false
	}

	c.state.Status = domain.TimerStatusExpired
	c.state.IsActive = false

	return true
}

// Pause stops a running countdown and keeps the remaining time.
// It returns false when the controller was not running.
func (c *Controller) Pause() bool {
	if c.state.Status != domain.TimerStatusRunning {
		return false
	}

	c.state.Status = domain.TimerStatusPaused
	c.state.IsActive = false

	return true
}

// Reset returns to idle from any state.
func (c *Controller) Reset() {
	c.state = domain.IdleState()
}

// State returns a copy of the current state.
func (c *Controller) State() domain.TimerState {
	return c.state
}
