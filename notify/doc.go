// Package notify delivers overall health transitions to external sinks.
//
// A Transition is emitted when the overall status of the system changes
// between two snapshots. Publishers forward transitions to Google Cloud
// Pub/Sub (PubSubPublisher) or to a structured log (LogPublisher).
package notify
