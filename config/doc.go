// Package config provides configuration types, merging, and validation
// for servicekit.
//
// Every service initializes with a Service value: a mandatory
// environment drawn from a fixed enum (dev, test, prod), an enabled
// flag, and free-form options. Descriptors carry an Override - a partial
// configuration whose unset fields fall through to the container's
// global default - and the container computes the effective Service with
// Merge before invoking a factory.
//
// The process-level Global configuration is loaded from YAML at startup
// and supplies the default environment, logging and metrics settings,
// and per-service overrides keyed by service name.
package config
