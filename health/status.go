// Package health provides health status derivation and aggregation for services
package health

import (
	"regexp"
	"strings"
	"time"
)

// Pre-compiled regexes for error message sanitization (performance optimization)
var (
	httpURLRegex    = regexp.MustCompile(`https?://[^\s]+`)
	unixPathRegex   = regexp.MustCompile(`/[a-zA-Z0-9/_.-]+`)
	ipAddrRegex     = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	portRegex       = regexp.MustCompile(`:\d{2,5}\b`)
	credentialRegex = regexp.MustCompile(`(?i)(password|token|key|secret|credential)[^a-zA-Z]*[:=][^,\s}]+`)
)

// Derived status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Status represents the health state of a service or the whole container
type Status struct {
	Service      string    `json:"service"`
	Healthy      bool      `json:"healthy"` // true if status is "healthy"
	Status       string    `json:"status"`  // "healthy", "unhealthy", "degraded"
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Dependencies []Status  `json:"dependencies,omitempty"`
	Metrics      *Metrics  `json:"metrics,omitempty"`
	RecentErrors []string  `json:"recent_errors,omitempty"`
}

// Metrics contains health-related metrics
type Metrics struct {
	Uptime       time.Duration `json:"uptime"`
	ErrorCount   int           `json:"error_count"`
	RestartCount int64         `json:"restart_count,omitempty"`
	LastActivity time.Time     `json:"last_activity,omitempty"`
}

// IsHealthy returns true if the status is healthy
func (s Status) IsHealthy() bool {
	return s.Status == StatusHealthy
}

// IsDegraded returns true if the status is degraded
func (s Status) IsDegraded() bool {
	return s.Status == StatusDegraded
}

// IsUnhealthy returns true if the status is unhealthy
func (s Status) IsUnhealthy() bool {
	return s.Status == StatusUnhealthy
}

// WithMetrics returns a copy of the status with metrics attached
func (s Status) WithMetrics(metrics *Metrics) Status {
	s.Metrics = metrics
	return s
}

// WithDependency adds a dependency status and returns a copy
func (s Status) WithDependency(dep Status) Status {
	// Create a new slice to avoid sharing the underlying array
	deps := make([]Status, len(s.Dependencies), len(s.Dependencies)+1)
	copy(deps, s.Dependencies)
	s.Dependencies = append(deps, dep)
	return s
}

// WithRecentErrors attaches sanitized recent error messages and returns a copy
func (s Status) WithRecentErrors(messages []string) Status {
	sanitized := make([]string, len(messages))
	for i, m := range messages {
		sanitized[i] = SanitizeMessage(m)
	}
	s.RecentErrors = sanitized
	return s
}

// SanitizeMessage removes potentially sensitive information from error
// messages before they are exposed in health status responses.
//
// Sanitization patterns:
//   - URLs (http://, https://) → [URL]
//   - File paths (/path/to/file) → [PATH]
//   - IP addresses (192.168.1.100) → [IP]
//   - Port numbers (:8080) → [PORT]
//   - Credentials (password=X, token=X, key=X, secret=X) → [REDACTED]
func SanitizeMessage(msg string) string {
	if msg == "" {
		return ""
	}

	sanitized := msg

	// URLs first, since they contain paths
	sanitized = httpURLRegex.ReplaceAllString(sanitized, "[URL]")
	sanitized = unixPathRegex.ReplaceAllString(sanitized, "[PATH]")
	sanitized = ipAddrRegex.ReplaceAllString(sanitized, "[IP]")
	sanitized = portRegex.ReplaceAllString(sanitized, "[PORT]")

	lower := strings.ToLower(sanitized)
	if strings.Contains(lower, "password") || strings.Contains(lower, "token") ||
		strings.Contains(lower, "key") || strings.Contains(lower, "secret") ||
		strings.Contains(lower, "credential") {
		sanitized = credentialRegex.ReplaceAllString(sanitized, "[REDACTED]")
	}

	return sanitized
}
