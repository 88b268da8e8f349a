// Package errors provides standardized error handling patterns for servicekit.
//
// # Overview
//
// The package has two halves. The first is the container error taxonomy:
// sentinel values such as ErrDuplicateService, ErrCircularDependency, and
// ErrInvalidConfiguration that the container and registration layers wrap
// and that callers test with errors.Is(). The second is severity
// classification for runtime faults captured inside running services:
// every fault is assigned a Severity (low, medium, high, critical) used
// by health derivation and error reporting.
//
// # Severity Inference
//
// Severity is inferred from the error chain:
//
//   - ErrDataCorrupted (or "corrupt" in the message) → critical
//   - ErrSecurity (or security-flavored messages)    → high
//   - ErrNetwork, ErrTimeout, ErrStorage             → medium
//   - everything else                                → low
//
// A ClassifiedError in the chain short-circuits inference and carries its
// own severity.
//
// # Quick Start
//
// Return sentinel errors for known conditions:
//
//	if _, exists := c.descriptors[name]; exists {
//	    return errors.ErrDuplicateService
//	}
//
// Wrap errors with context for debugging:
//
//	if err := svc.Initialize(ctx, cfg); err != nil {
//	    return errors.Wrap(err, "Container", "Resolve", "service initialization")
//	}
//
// Classify faults that should weigh on health state:
//
//	return errors.WrapWithSeverity(errors.SeverityMedium, err,
//	    "AnalyticsService", "flush", "event delivery")
package errors
