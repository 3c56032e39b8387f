// Package checkin implements the gRPC transport for the check-in service.
//
// It adapts domain types to Struct messages, maps domain errors to status
// codes and exposes a per-actor rate-limiting interceptor.
package checkin
