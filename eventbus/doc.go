// Package eventbus provides process-wide publishers for service events.
//
// Services emit events locally; when a publisher is attached, every event
// is mirrored to it for cross-service observability. Three implementations
// cover the deployment spectrum: Nop (no bus), Memory (in-process, used by
// tests and local tooling), and NATS (broker-backed).
package eventbus
