// Package observe provides observability primitives for subsystem probes.
//
// It wires OpenTelemetry tracing and metrics plus a zerolog-backed structured
// logger, and offers a Middleware that wraps a single probe with a span, probe
// counters and a log line. It performs no I/O beyond exporter setup.
package observe
