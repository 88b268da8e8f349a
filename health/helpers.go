package health

import (
	"fmt"
	"time"
)

// Thresholds for the derived status rule: more than UnhealthyErrorCount
// errors inside ErrorWindow means unhealthy, more than DegradedErrorCount
// means degraded.
const (
	ErrorWindow         = 5 * time.Minute
	DegradedErrorCount  = 5
	UnhealthyErrorCount = 10
)

// NewHealthy creates a new healthy status
func NewHealthy(service, message string) Status {
	return Status{
		Service:   service,
		Healthy:   true,
		Status:    StatusHealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewUnhealthy creates a new unhealthy status
func NewUnhealthy(service, message string) Status {
	return Status{
		Service:   service,
		Healthy:   false,
		Status:    StatusUnhealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewDegraded creates a new degraded status
func NewDegraded(service, message string) Status {
	return Status{
		Service:   service,
		Healthy:   false,
		Status:    StatusDegraded,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// FromErrorStats derives a status for a running service from its recent
// error volume. The service must already be known to be in the running
// phase; callers report unhealthy directly for any other phase.
func FromErrorStats(service string, recentErrors int) Status {
	switch {
	case recentErrors > UnhealthyErrorCount:
		return NewUnhealthy(service,
			fmt.Sprintf("%d errors in the last %v", recentErrors, ErrorWindow))
	case recentErrors > DegradedErrorCount:
		return NewDegraded(service,
			fmt.Sprintf("%d errors in the last %v", recentErrors, ErrorWindow))
	default:
		return NewHealthy(service, "Service operating normally")
	}
}

// Aggregate creates a status by aggregating sub-statuses
// The aggregation rules are:
// - If all sub-statuses are healthy, the aggregate is healthy
// - If any sub-status is unhealthy, the aggregate is unhealthy
// - If no sub-status is unhealthy but at least one is degraded, the aggregate is degraded
func Aggregate(service string, subStatuses []Status) Status {
	if len(subStatuses) == 0 {
		return NewHealthy(service, "No services to aggregate")
	}

	hasUnhealthy := false
	hasDegraded := false

	for _, sub := range subStatuses {
		if sub.IsUnhealthy() {
			hasUnhealthy = true
		} else if sub.IsDegraded() {
			hasDegraded = true
		}
	}

	var status Status
	if hasUnhealthy {
		status = NewUnhealthy(service, "One or more services are unhealthy")
	} else if hasDegraded {
		status = NewDegraded(service, "One or more services are degraded")
	} else {
		status = NewHealthy(service, "All services are healthy")
	}

	status.Dependencies = make([]Status, len(subStatuses))
	copy(status.Dependencies, subStatuses)

	return status
}
