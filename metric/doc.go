// Package metric provides Prometheus metrics for the service container
// and the services it manages.
//
// A dedicated registry is used instead of the global default so that
// multiple containers (and tests) can coexist in one process. Core
// metrics cover lifecycle phases, error counts by severity, resolution
// counts and latency, restarts, circuit breaker state, and published
// events. Services can register additional collectors through
// Registry.Register.
package metric
