// Package service provides the lifecycle contract every managed service
// implements and the shared behavior behind it.
//
// A concrete service embeds *BaseService and supplies Hooks (DoInitialize,
// DoCleanup, DefaultConfig). BaseService then handles the phase machine
// (stopped, initializing, running, stopping, error), configuration merging
// and validation, bounded error capture with severity classification,
// derived health reporting, a synchronous per-service event bus with an
// optional process-wide mirror, and retry/circuit-breaker helpers.
//
// The container in package container drives services exclusively through
// the Service interface defined here.
package service
