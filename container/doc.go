// Package container implements the service dependency-injection and
// lifecycle container.
//
// Services are declared through immutable Descriptors (name, factory,
// dependencies, singleton flag, configuration override, tags) and resolved
// on demand. Resolution is depth-first in declaration order; circular
// dependencies are rejected both at registration time and during
// resolution, and concurrent resolutions of the same singleton are
// serialized through an in-flight construction group so each factory runs
// exactly once.
//
// Initialize computes a deterministic topological order over the full
// registered graph and resolves every service in it. A failure in a
// service tagged critical aborts initialization; other failures leave that
// service unresolved and the rest available. Dispose tears down in exactly
// the reverse order, tolerating per-service cleanup failures.
package container
