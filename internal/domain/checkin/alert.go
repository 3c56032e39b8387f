package checkin

// AlertKind is the only kind of payload produced by the dispatcher.
const AlertKind = "emergency_alert"

// EmergencyAlertPayload is built at trigger time and handed to notifiers.
type EmergencyAlertPayload struct {
	// ID uniquely identifies the alert across sinks.
	ID string `json:"id"`
	// Kind is always AlertKind.
	Kind string `json:"kind"`
	// Timestamp is the trigger moment in RFC 3339 format, UTC.
	Timestamp string `json:"timestamp"`
	// Location is where the actor was when the alert was raised.
	Location LocationSample `json:"location"`
	// Actor raised the alert.
	Actor *Actor `json:"actor,omitempty"`
}
