// Package checkin contains core domain types for the safety check-in logic.
//
// It defines Actor (who owns a countdown), TimerState (the countdown snapshot),
// LocationSample, EmergencyAlertPayload and Notice, together with the
// sentinel errors shared by every layer.
package checkin
