package services

import (
	"fmt"
	"log/slog"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/container"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/metric"
	"github.com/wakewell/servicekit/service"
)

// Options carries the shared collaborators handed to every service
type Options struct {
	Environment config.Environment
	Logger      *slog.Logger
	Metrics     *metric.Registry
	Publisher   service.Publisher
	Reporter    service.Reporter

	// Verifier validates purchase receipts for the subscription service.
	// Nil leaves verification unavailable.
	Verifier ReceiptVerifier

	// Overrides replaces per-service configuration from the loaded
	// global config, keyed by service name.
	Overrides map[string]config.Override
}

func (o Options) serviceOpts() []service.Option {
	var opts []service.Option
	if o.Logger != nil {
		opts = append(opts, service.WithLogger(o.Logger))
	}
	if o.Metrics != nil {
		opts = append(opts, service.WithMetrics(o.Metrics))
	}
	if o.Publisher != nil {
		opts = append(opts, service.WithPublisher(o.Publisher))
	}
	if o.Reporter != nil {
		opts = append(opts, service.WithReporter(o.Reporter))
	}
	return opts
}

// definition is one row of the static service graph
type definition struct {
	name         string
	dependencies []string
	tags         []string
}

// definitions is the static dependency graph of the application. Order
// here is declaration order only; initialization order is computed from
// the dependencies.
var definitions = []definition{
	{name: StorageName, tags: []string{container.TagCritical, container.TagInfrastructure}},
	{name: AnalyticsName, dependencies: []string{StorageName}, tags: []string{container.TagInfrastructure}},
	{name: AlarmName, dependencies: []string{StorageName, AnalyticsName}, tags: []string{container.TagCritical}},
	{name: BattleName, dependencies: []string{AlarmName, AnalyticsName}, tags: []string{container.TagBusiness}},
	{name: VoiceName, dependencies: []string{StorageName}, tags: []string{container.TagBusiness}},
	{name: SubscriptionName, dependencies: []string{StorageName, AnalyticsName}, tags: []string{container.TagBusiness}},
}

// Factories builds the factory registry for the static graph
func Factories(opts Options) (*container.Registry, error) {
	svcOpts := opts.serviceOpts()
	registry := container.NewRegistry()

	factories := map[string]container.Factory{
		StorageName: func(_ container.Dependencies, _ config.Override) (service.Service, error) {
			return NewStorage(svcOpts...), nil
		},
		AnalyticsName: func(deps container.Dependencies, _ config.Override) (service.Service, error) {
			storage, err := storageDep(deps, AnalyticsName)
			if err != nil {
				return nil, err
			}
			return NewAnalytics(storage, svcOpts...), nil
		},
		AlarmName: func(deps container.Dependencies, _ config.Override) (service.Service, error) {
			storage, err := storageDep(deps, AlarmName)
			if err != nil {
				return nil, err
			}
			analytics, err := analyticsDep(deps, AlarmName)
			if err != nil {
				return nil, err
			}
			return NewAlarmService(storage, analytics, svcOpts...), nil
		},
		BattleName: func(deps container.Dependencies, _ config.Override) (service.Service, error) {
			alarms, err := alarmDep(deps, BattleName)
			if err != nil {
				return nil, err
			}
			analytics, err := analyticsDep(deps, BattleName)
			if err != nil {
				return nil, err
			}
			return NewBattleService(alarms, analytics, svcOpts...), nil
		},
		VoiceName: func(deps container.Dependencies, _ config.Override) (service.Service, error) {
			storage, err := storageDep(deps, VoiceName)
			if err != nil {
				return nil, err
			}
			return NewVoiceService(storage, svcOpts...), nil
		},
		SubscriptionName: func(deps container.Dependencies, _ config.Override) (service.Service, error) {
			storage, err := storageDep(deps, SubscriptionName)
			if err != nil {
				return nil, err
			}
			return NewSubscriptionService(storage, opts.Verifier, svcOpts...), nil
		},
	}

	for name, factory := range factories {
		if err := registry.Register(name, factory); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// RegistrationOrder returns the dependency-respecting order for the static
// graph. Validation and registration both use it, so the two never
// disagree.
func RegistrationOrder() ([]string, error) {
	byName := make(map[string]definition, len(definitions))
	names := make([]string, 0, len(definitions))
	for _, def := range definitions {
		byName[def.name] = def
		names = append(names, def.name)
	}
	return container.Order(names, func(name string) []string {
		return byName[name].dependencies
	})
}

// ValidateConfiguration checks the static graph before any registration:
// every declared service has a factory, every dependency is a known
// service, and the graph is acyclic. Problems are logged; the boolean
// result leaves the abort decision to the caller.
func ValidateConfiguration(logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := Factories(Options{})
	if err != nil {
		logger.Error("factory registry construction failed", "error", err)
		return false
	}

	known := make(map[string]bool, len(definitions))
	for _, def := range definitions {
		known[def.name] = true
	}

	valid := true
	for _, def := range definitions {
		if !registry.Has(def.name) {
			logger.Error("service has no factory", "service", def.name)
			valid = false
		}
		for _, dep := range def.dependencies {
			if !known[dep] {
				logger.Error("unknown dependency", "service", def.name, "dependency", dep)
				valid = false
			}
		}
	}

	if _, err := RegistrationOrder(); err != nil {
		logger.Error("dependency graph is cyclic", "error", err)
		valid = false
	}
	return valid
}

// Descriptors builds the container descriptors for the static graph in
// registration order.
func Descriptors(opts Options) ([]container.Descriptor, error) {
	registry, err := Factories(opts)
	if err != nil {
		return nil, err
	}

	order, err := RegistrationOrder()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]definition, len(definitions))
	for _, def := range definitions {
		byName[def.name] = def
	}

	descriptors := make([]container.Descriptor, 0, len(order))
	for _, name := range order {
		def := byName[name]
		factory, ok := registry.Get(name)
		if !ok {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: no factory for %s", errors.ErrInvalidDescriptor, name),
				"services", "Descriptors", "build descriptors")
		}

		override := opts.Overrides[name]
		if override.Environment == "" {
			override.Environment = opts.Environment
		}

		descriptors = append(descriptors, container.Descriptor{
			Name:         name,
			Factory:      factory,
			Dependencies: def.dependencies,
			Singleton:    true,
			Config:       override,
			Tags:         def.tags,
		})
	}
	return descriptors, nil
}

// Register registers the full static graph with the container
func Register(c *container.Container, opts Options) error {
	if c == nil {
		return errors.WrapFatal(
			fmt.Errorf("container cannot be nil"),
			"services", "Register", "validate container")
	}

	descriptors, err := Descriptors(opts)
	if err != nil {
		return err
	}
	for _, desc := range descriptors {
		if err := c.Register(desc); err != nil {
			return errors.WrapInvalid(err, "services", "Register", desc.Name+" registration")
		}
	}
	return nil
}

// analyticsDep extracts the analytics dependency from a resolved map
func analyticsDep(deps map[string]service.Service, dependent string) (*Analytics, error) {
	dep, ok := deps[AnalyticsName]
	if !ok {
		return nil, errors.Wrap(
			fmt.Errorf("%w: %s", errors.ErrServiceNotResolved, AnalyticsName),
			dependent, "New", "resolve analytics dependency")
	}
	analytics, ok := dep.(*Analytics)
	if !ok {
		return nil, errors.Wrap(
			fmt.Errorf("unexpected analytics implementation %T", dep),
			dependent, "New", "resolve analytics dependency")
	}
	return analytics, nil
}

// alarmDep extracts the alarm dependency from a resolved map
func alarmDep(deps map[string]service.Service, dependent string) (*AlarmService, error) {
	dep, ok := deps[AlarmName]
	if !ok {
		return nil, errors.Wrap(
			fmt.Errorf("%w: %s", errors.ErrServiceNotResolved, AlarmName),
			dependent, "New", "resolve alarm dependency")
	}
	alarms, ok := dep.(*AlarmService)
	if !ok {
		return nil, errors.Wrap(
			fmt.Errorf("unexpected alarm implementation %T", dep),
			dependent, "New", "resolve alarm dependency")
	}
	return alarms, nil
}
