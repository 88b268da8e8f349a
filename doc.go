// Package servicekit is the service dependency-injection and lifecycle
// container for the Wakewell platform. It wires the platform's business
// services (alarms, analytics, storage, battles, voice, subscriptions)
// together, resolves their dependency graph, manages their lifecycle
// phases, and aggregates health and error state.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│          Container                  │  Registration, resolution,
//	│  (register, resolve, dispose)       │  topological ordering
//	└─────────────────────────────────────┘
//	           ↓ owns
//	┌─────────────────────────────────────┐
//	│         Services                    │  BaseService lifecycle,
//	│  (storage, analytics, alarm, ...)   │  health, error capture
//	└─────────────────────────────────────┘
//	           ↓ observe via
//	┌─────────────────────────────────────┐
//	│   Event bus / Reporter / Metrics    │  Optional collaborators,
//	│       (best-effort, injected)       │  no-op when absent
//	└─────────────────────────────────────┘
//
// # Packages
//
// Core:
//   - container: Descriptor registry, dependency resolution with cycle
//     detection, topological initialization, reverse-order teardown
//   - service: BaseService lifecycle contract, error capture, per-service
//     events, retry and circuit-breaker helpers
//   - services: Static registration of the platform service graph
//
// Infrastructure:
//   - config: Configuration loading, merging, and validation
//   - errors: Structured error handling and severity classification
//   - health: Health status derivation and aggregation
//   - metric: Prometheus metrics
//   - eventbus: Process-wide service event publishers (in-memory, NATS)
//   - reporting: External error reporters
//
// Utilities:
//   - pkg/retry: Exponential backoff retry
//   - pkg/breaker: Circuit breaker
//
// # Usage
//
//	c := container.New(
//	    container.WithLogger(logger),
//	    container.WithMetrics(registry),
//	)
//	if err := services.Register(c, opts); err != nil {
//	    return err
//	}
//	if err := c.Initialize(ctx); err != nil {
//	    return err
//	}
//	defer c.Dispose(context.Background())
//
// # Design Principles
//
// Explicit dependencies:
//   - One container per process, passed explicitly - no ambient globals
//   - Services receive already-resolved dependency instances at
//     construction time and never hold the container itself
//
// Contained failure:
//   - A critical service failing to initialize aborts startup
//   - A non-critical failure is logged and isolated; everything that
//     does not depend on it still comes up
//   - Operational errors after startup stay local to the service and
//     surface through health queries
package servicekit
