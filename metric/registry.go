package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry wraps a dedicated Prometheus registry so tests and embedded
// containers never collide with the global default registry.
type Registry struct {
	registry *prometheus.Registry
	Core     *Core
}

// NewRegistry creates a registry with Go runtime and process collectors
// plus the container's core metrics pre-registered.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		Core:     NewCore(),
	}

	if err := r.registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := r.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}

	if err := r.registerCore(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) registerCore() error {
	cs := []prometheus.Collector{
		r.Core.ServicePhase,
		r.Core.ServiceHealth,
		r.Core.ErrorsTotal,
		r.Core.ResolutionsTotal,
		r.Core.ResolutionDuration,
		r.Core.RestartsTotal,
		r.Core.CircuitState,
		r.Core.EventsPublished,
	}
	for _, c := range cs {
		if err := r.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a custom collector to the registry. Services use this to
// expose metrics beyond the core set.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Gatherer returns the underlying gatherer for scrape handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
