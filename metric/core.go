package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Core contains all container-level metrics (not service-specific)
type Core struct {
	ServicePhase       *prometheus.GaugeVec
	ServiceHealth      *prometheus.GaugeVec
	ErrorsTotal        *prometheus.CounterVec
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	RestartsTotal      *prometheus.CounterVec
	CircuitState       *prometheus.GaugeVec
	EventsPublished    *prometheus.CounterVec
}

// NewCore creates a new Core instance with all container metrics
func NewCore() *Core {
	return &Core{
		ServicePhase: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wakewell",
				Subsystem: "service",
				Name:      "phase",
				Help:      "Service lifecycle phase (0=stopped, 1=initializing, 2=running, 3=stopping, 4=error)",
			},
			[]string{"service"},
		),

		ServiceHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wakewell",
				Subsystem: "service",
				Name:      "healthy",
				Help:      "Derived health status (0=unhealthy, 1=degraded, 2=healthy)",
			},
			[]string{"service"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wakewell",
				Subsystem: "service",
				Name:      "errors_total",
				Help:      "Total number of errors captured by services",
			},
			[]string{"service", "severity"},
		),

		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wakewell",
				Subsystem: "container",
				Name:      "resolutions_total",
				Help:      "Total number of service resolutions",
			},
			[]string{"service", "status"},
		),

		ResolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wakewell",
				Subsystem: "container",
				Name:      "resolution_duration_seconds",
				Help:      "Service resolution duration in seconds, including dependencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service"},
		),

		RestartsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wakewell",
				Subsystem: "service",
				Name:      "restarts_total",
				Help:      "Total number of service resets back to the initializing phase",
			},
			[]string{"service"},
		),

		CircuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wakewell",
				Subsystem: "service",
				Name:      "circuit_state",
				Help:      "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),

		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wakewell",
				Subsystem: "events",
				Name:      "published_total",
				Help:      "Total number of service events published",
			},
			[]string{"service", "event"},
		),
	}
}

// RecordServicePhase updates the service phase metric
func (c *Core) RecordServicePhase(service string, phase int) {
	c.ServicePhase.WithLabelValues(service).Set(float64(phase))
}

// RecordHealth updates the derived health metric
func (c *Core) RecordHealth(service, status string) {
	value := 0.0
	switch status {
	case "degraded":
		value = 1.0
	case "healthy":
		value = 2.0
	}
	c.ServiceHealth.WithLabelValues(service).Set(value)
}

// RecordError increments the error counter for a severity
func (c *Core) RecordError(service, severity string) {
	c.ErrorsTotal.WithLabelValues(service, severity).Inc()
}

// RecordResolution increments the resolution counter
func (c *Core) RecordResolution(service, status string) {
	c.ResolutionsTotal.WithLabelValues(service, status).Inc()
}

// RecordResolutionDuration records how long a resolution took
func (c *Core) RecordResolutionDuration(service string, duration time.Duration) {
	c.ResolutionDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordRestart increments the restart counter
func (c *Core) RecordRestart(service string) {
	c.RestartsTotal.WithLabelValues(service).Inc()
}

// RecordCircuitState updates the circuit breaker state gauge
func (c *Core) RecordCircuitState(service string, state int) {
	c.CircuitState.WithLabelValues(service).Set(float64(state))
}

// RecordEventPublished increments the published event counter
func (c *Core) RecordEventPublished(service, event string) {
	c.EventsPublished.WithLabelValues(service, event).Inc()
}
