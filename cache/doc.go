// Package cache provides the in-memory TTL store that backs per-service
// health results.
//
// Entries record their insertion time and are validated against the store's
// current TTL on every read, so changing the TTL takes effect immediately for
// entries that are already cached.
package cache
