// Package schedule refreshes health snapshots in the background.
//
// A Refresher runs a full check on a UTC cron expression or a fixed interval,
// which keeps the result cache warm for request handlers. When the overall
// status changes between two runs it publishes a notify.Transition.
package schedule
