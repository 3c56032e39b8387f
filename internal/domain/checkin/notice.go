package checkin

import "time"

// Severity grades a notice.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notice is a user-visible message pushed to the notification sinks.
type Notice struct {
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Severity  Severity               `json:"severity"`
	Actor     *Actor                 `json:"actor,omitempty"`
	Alert     *EmergencyAlertPayload `json:"alert,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
