// Package geolocation supplies location samples for alert dispatch.
//
// A Provider makes a single attempt per call. Failures are reported as
// checkin.ErrLocationUnavailable so callers can disable location-dependent
// actions instead of retrying.
package geolocation
