// Package pb defines the checkin.v1.CheckInService gRPC contract.
//
// Messages travel as google.protobuf.Struct, so the service needs no code
// generation. The package holds the service descriptor, typed client and
// server bindings, and the codec between Struct messages and domain types.
package pb
