package container

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/health"
	"github.com/wakewell/servicekit/metric"
	"github.com/wakewell/servicekit/service"
)

// Option is a functional option for configuring the Container
type Option func(*Container)

// WithLogger sets the container logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics registry, shared with managed services
func WithMetrics(registry *metric.Registry) Option {
	return func(c *Container) {
		c.metrics = registry
	}
}

// Container is the service registry and resolver. It holds immutable
// descriptors, constructs instances on demand, detects circular
// dependencies, computes the global initialization order, and owns
// process-wide start and stop.
type Container struct {
	logger  *slog.Logger
	metrics *metric.Registry

	mu          sync.RWMutex
	descriptors map[string]Descriptor
	instances   map[string]service.Service
	initOrder   []string
	initialized bool

	// construction serializes concurrent resolutions of the same
	// not-yet-constructed singleton so its factory runs exactly once
	construction singleflight.Group
}

// New creates an empty container
func New(opts ...Option) *Container {
	c := &Container{
		logger:      slog.Default().With("component", "container"),
		descriptors: make(map[string]Descriptor),
		instances:   make(map[string]service.Service),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a descriptor. The descriptor is validated structurally,
// duplicate names are rejected, and the graph formed by the descriptors
// registered so far must stay acyclic. Dependencies on services that have
// not been registered yet are allowed; they are checked at Initialize.
func (c *Container) Register(desc Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.descriptors[desc.Name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrDuplicateService, desc.Name),
			"container", "Register", "register service")
	}

	c.descriptors[desc.Name] = desc
	if _, err := Order(c.namesLocked(), c.depsLocked); err != nil {
		delete(c.descriptors, desc.Name)
		return err
	}
	return nil
}

// Names returns the registered service names in sorted order
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := c.namesLocked()
	slices.Sort(names)
	return names
}

func (c *Container) namesLocked() []string {
	names := make([]string, 0, len(c.descriptors))
	for name := range c.descriptors {
		names = append(names, name)
	}
	return names
}

func (c *Container) depsLocked(name string) []string {
	return c.descriptors[name].Dependencies
}

// Descriptor returns the registered descriptor for name
func (c *Container) Descriptor(name string) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	desc, ok := c.descriptors[name]
	return desc, ok
}

// Resolve returns a fully initialized instance of name, constructing it
// and its transitive dependencies first if needed. For singletons the
// instance is constructed exactly once, including under concurrent
// resolution. On failure the error names the first service in the
// dependency chain that failed.
func (c *Container) Resolve(ctx context.Context, name string) (service.Service, error) {
	return c.resolve(ctx, name, nil)
}

func (c *Container) resolve(ctx context.Context, name string, chain []string) (service.Service, error) {
	start := time.Now()

	c.mu.RLock()
	desc, registered := c.descriptors[name]
	inst, constructed := c.instances[name]
	c.mu.RUnlock()

	if !registered {
		c.recordResolution(name, "error", start)
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrServiceNotRegistered, name),
			"container", "Resolve", "resolve service")
	}

	if desc.Singleton && constructed {
		c.recordResolution(name, "hit", start)
		return inst, nil
	}

	// The cycle check must run before the singleflight gate: a cyclic
	// re-entry for a key already in flight would otherwise wait on
	// itself forever instead of failing.
	if slices.Contains(chain, name) {
		cycle := append(chainFrom(chain, name), name)
		c.recordResolution(name, "error", start)
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrCircularDependency, strings.Join(cycle, " -> ")),
			"container", "Resolve", "resolve service")
	}

	if !desc.Singleton {
		inst, err := c.construct(ctx, desc, chain)
		c.recordResolution(name, resolutionStatus(err), start)
		return inst, err
	}

	v, err, _ := c.construction.Do(name, func() (any, error) {
		// Re-check under the flight: a racing caller may have stored
		// the instance between our fast path and entering Do.
		c.mu.RLock()
		existing, ok := c.instances[name]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		inst, err := c.construct(ctx, desc, chain)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.instances[name] = inst
		c.mu.Unlock()
		return inst, nil
	})
	c.recordResolution(name, resolutionStatus(err), start)
	if err != nil {
		return nil, err
	}
	return v.(service.Service), nil
}

// construct resolves dependencies depth-first in declaration order, runs
// the factory, and initializes the instance.
func (c *Container) construct(ctx context.Context, desc Descriptor, chain []string) (service.Service, error) {
	deps := make(Dependencies, len(desc.Dependencies))
	for _, depName := range desc.Dependencies {
		dep, err := c.resolve(ctx, depName, append(chain, desc.Name))
		if err != nil {
			return nil, err
		}
		deps[depName] = dep
	}

	inst, err := desc.Factory(deps, desc.Config)
	if err != nil {
		return nil, errors.Wrap(err, desc.Name, "Resolve", "construct service")
	}
	if inst == nil {
		return nil, errors.Wrap(
			fmt.Errorf("factory returned no instance"),
			desc.Name, "Resolve", "construct service")
	}

	if err := inst.Initialize(ctx, desc.Config); err != nil {
		return nil, err
	}

	c.logger.Debug("service resolved", "service", desc.Name)
	return inst, nil
}

// Initialize computes the deterministic global initialization order over
// the full registered graph and resolves every service in that order. A
// failing service tagged critical aborts the whole initialization; a
// non-critical failure is logged and the service is left unresolved, so
// later lookups for it fail explicitly.
func (c *Container) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return errors.WrapInvalid(
			fmt.Errorf("%w: container", errors.ErrAlreadyInitialized),
			"container", "Initialize", "initialize container")
	}

	if err := c.checkDependenciesLocked(); err != nil {
		c.mu.Unlock()
		return err
	}

	order, err := Order(c.namesLocked(), c.depsLocked)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	c.logger.Info("initializing services", "count", len(order), "order", order)

	for _, name := range order {
		desc, _ := c.Descriptor(name)

		if _, err := c.resolve(ctx, name, nil); err != nil {
			if desc.HasTag(TagCritical) {
				c.logger.Error("critical service failed to initialize",
					"service", name, "error", err)
				return errors.WrapFatal(err, "container", "Initialize", "initialize critical service "+name)
			}
			c.logger.Warn("service failed to initialize, continuing",
				"service", name, "error", err)
			continue
		}

		c.mu.Lock()
		c.initOrder = append(c.initOrder, name)
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()

	c.logger.Info("container initialized", "services", len(c.initOrder))
	return nil
}

func (c *Container) checkDependenciesLocked() error {
	names := c.namesLocked()
	slices.Sort(names)
	for _, name := range names {
		for _, dep := range c.descriptors[name].Dependencies {
			if _, ok := c.descriptors[dep]; !ok {
				return errors.WrapInvalid(
					fmt.Errorf("%w: %s required by %s", errors.ErrServiceNotRegistered, dep, name),
					"container", "Initialize", "check dependencies")
			}
		}
	}
	return nil
}

// Dispose tears services down in the reverse of their initialization
// order. Per-service cleanup failures are logged and collected but never
// stop the teardown of the remaining services.
func (c *Container) Dispose(ctx context.Context) error {
	c.mu.Lock()
	order := slices.Clone(c.initOrder)
	c.mu.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]

		c.mu.RLock()
		inst, ok := c.instances[name]
		c.mu.RUnlock()
		if !ok {
			continue
		}

		c.logger.Info("disposing service", "service", name)
		if err := inst.Cleanup(ctx); err != nil {
			c.logger.Error("service cleanup failed", "service", name, "error", err)
			errs = append(errs, err)
		}
	}

	c.mu.Lock()
	c.instances = make(map[string]service.Service)
	c.initOrder = nil
	c.initialized = false
	c.mu.Unlock()

	return stderrors.Join(errs...)
}

// Get returns an already-resolved instance. It never triggers lazy
// construction; use Resolve for that.
func (c *Container) Get(name string) (service.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if inst, ok := c.instances[name]; ok {
		return inst, nil
	}
	if _, registered := c.descriptors[name]; registered {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrServiceNotResolved, name),
			"container", "Get", "look up service")
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("%w: %s", errors.ErrServiceNotRegistered, name),
		"container", "Get", "look up service")
}

// ByTag returns all currently resolved instances whose descriptor carries
// tag, sorted by service name.
func (c *Container) ByTag(tag string) []service.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.instances))
	for name := range c.instances {
		if c.descriptors[name].HasTag(tag) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	out := make([]service.Service, 0, len(names))
	for _, name := range names {
		out = append(out, c.instances[name])
	}
	return out
}

// All returns a copy of the resolved instance map
func (c *Container) All() map[string]service.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]service.Service, len(c.instances))
	for name, inst := range c.instances {
		out[name] = inst
	}
	return out
}

// InitOrder returns the order in which services completed initialization
func (c *Container) InitOrder() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.initOrder)
}

// Health aggregates the health of every resolved service
func (c *Container) Health() health.Status {
	all := c.All()

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	slices.Sort(names)

	statuses := make([]health.Status, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, all[name].Health())
	}
	return health.Aggregate("container", statuses)
}

func (c *Container) recordResolution(name, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.Core.RecordResolution(name, status)
	c.metrics.Core.RecordResolutionDuration(name, time.Since(start))
}

func resolutionStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "miss"
}
