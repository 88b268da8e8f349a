// Package errors provides standardized error handling patterns for
// servicekit. It includes the container error taxonomy, severity
// classification for runtime faults, and helper functions for
// consistent error wrapping across the system.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Severity represents how serious a captured runtime fault is.
type Severity int

const (
	// SeverityLow is the default for unclassified faults
	SeverityLow Severity = iota
	// SeverityMedium covers transient infrastructure faults such as network errors
	SeverityMedium
	// SeverityHigh covers security-relevant faults
	SeverityHigh
	// SeverityCritical covers faults that indicate data loss or corruption
	SeverityCritical
)

// String returns the string representation of Severity
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Container structural errors
	ErrDuplicateService     = errors.New("service already registered")
	ErrInvalidDescriptor    = errors.New("invalid service descriptor")
	ErrServiceNotRegistered = errors.New("service not registered")
	ErrCircularDependency   = errors.New("circular dependency detected")
	ErrServiceNotResolved   = errors.New("service not resolved")

	// Lifecycle errors
	ErrAlreadyInitialized = errors.New("service already initialized")
	ErrNotInitialized     = errors.New("service not initialized")
	ErrServiceFailed      = errors.New("service in error phase")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")

	// Resilience errors
	ErrCircuitOpen        = errors.New("circuit breaker open")
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

	// Runtime fault categories used for severity inference
	ErrNetwork       = errors.New("network error")
	ErrTimeout       = errors.New("operation timed out")
	ErrSecurity      = errors.New("security error")
	ErrDataCorrupted = errors.New("data corrupted")
	ErrStorage       = errors.New("storage error")
)

// ClassifiedError wraps an error with its severity classification
type ClassifiedError struct {
	Severity  Severity
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// SeverityFor infers the severity of an error from its classification,
// known sentinel values, or message content. Unknown errors default to
// low so that noisy but harmless faults do not dominate health state.
func SeverityFor(err error) Severity {
	if err == nil {
		return SeverityLow
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Severity
	}

	if errors.Is(err, ErrDataCorrupted) {
		return SeverityCritical
	}
	if errors.Is(err, ErrSecurity) {
		return SeverityHigh
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrStorage) {
		return SeverityMedium
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "corrupt"):
		return SeverityCritical
	case strings.Contains(errStr, "security"),
		strings.Contains(errStr, "unauthorized"),
		strings.Contains(errStr, "forbidden"):
		return SeverityHigh
	case strings.Contains(errStr, "network"),
		strings.Contains(errStr, "connection"),
		strings.Contains(errStr, "timeout"),
		strings.Contains(errStr, "unavailable"):
		return SeverityMedium
	}

	return SeverityLow
}

// newClassified creates a new classified error.
// This is an internal helper - use WrapWithSeverity() or the Wrap* helpers instead.
func newClassified(severity Severity, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Severity:  severity,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapWithSeverity wraps an error with explicit severity and context
func WrapWithSeverity(severity Severity, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(severity, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as an invalid-input fault with context.
// Invalid faults carry low severity: they indicate caller mistakes,
// not a degrading service.
func WrapInvalid(err error, component, method, action string) error {
	return WrapWithSeverity(SeverityLow, err, component, method, action)
}

// WrapFatal wraps an error as a critical fault with context
func WrapFatal(err error, component, method, action string) error {
	return WrapWithSeverity(SeverityCritical, err, component, method, action)
}
