package checkin

// TimerStatus is the lifecycle stage of a countdown.
type TimerStatus string

const (
	// TimerStatusIdle is the initial state and the state reached by reset.
	TimerStatusIdle TimerStatus = "idle"
	// TimerStatusRunning means the countdown is ticking.
	TimerStatusRunning TimerStatus = "running"
	// TimerStatusPaused means ticking stopped with remaining time kept.
	TimerStatusPaused TimerStatus = "paused"
	// TimerStatusExpired means remaining time reached zero.
	TimerStatusExpired TimerStatus = "expired"
)

// ParseTimerStatus converts a wire value into a TimerStatus.
func ParseTimerStatus(s string) (TimerStatus, bool) {
	switch status := TimerStatus(s); status {
	case TimerStatusIdle, TimerStatusRunning, TimerStatusPaused, TimerStatusExpired:
		return status, true
	default:
		return TimerStatusIdle, false
	}
}

// TimerState is a snapshot of a check-in countdown.
type TimerState struct {
	// Status is the current lifecycle stage.
	Status TimerStatus `json:"status"`
	// IsActive is true only while the countdown is running.
	IsActive bool `json:"is_active"`
	// DurationSeconds is the total length requested at start.
	DurationSeconds int `json:"duration_seconds"`
	// RemainingSeconds is the time left before expiry.
	RemainingSeconds int `json:"remaining_seconds"`
}

// IdleState returns the zero countdown.
func IdleState() TimerState {
	return TimerState{Status: TimerStatusIdle}
}
