// Package health provides health status derivation and aggregation for
// servicekit services.
//
// Health is derived, never stored: a service recomputes its Status on
// every query from its current lifecycle phase and the volume of errors
// captured in the trailing window. A service that is not running is
// unhealthy; a running service with more than ten recent errors is
// unhealthy, more than five is degraded, anything else is healthy.
//
// Statuses compose. A service attaches the statuses of its dependencies,
// and the container aggregates all resolved services into one
// system-level status with Aggregate: any unhealthy member makes the
// aggregate unhealthy, otherwise any degraded member makes it degraded.
//
// Messages exposed through health endpoints are sanitized with
// SanitizeMessage so URLs, paths, addresses, and credentials from
// captured errors never leak into monitoring systems.
package health
