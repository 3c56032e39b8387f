// Package journal implements persistence for delivered notices.
//
// The FileJournal appends one protobuf-JSON line per notice and exposes a
// Repository interface that the journal notifier depends on.
package journal
