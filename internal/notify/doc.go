// Package notify delivers user-visible notices to the configured sinks.
//
// Log is always present and plays the role of an on-screen toast. Webhook,
// RedisQueue, Kafka and Journal forward the same notice to external
// collaborators. Fanout combines sinks. Delivery is at-most-once per sink
// apart from the retry policy a sink applies on its own.
package notify
