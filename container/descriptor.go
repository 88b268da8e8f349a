package container

import (
	"fmt"
	"slices"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

// Dependencies maps dependency names to their resolved instances
type Dependencies map[string]service.Service

// Factory constructs a service instance from its resolved dependencies.
// Factories must be pure construction; anything asynchronous belongs in
// the service's DoInitialize.
type Factory func(deps Dependencies, cfg config.Override) (service.Service, error)

// Well-known descriptor tags
const (
	TagCritical       = "critical"
	TagInfrastructure = "infrastructure"
	TagBusiness       = "business"
)

// Descriptor declares a service to the container. Descriptors are created
// once during registration and never mutated afterwards.
type Descriptor struct {
	// Name uniquely identifies the service
	Name string

	// Factory constructs the instance
	Factory Factory

	// Dependencies lists the names of services that must be resolved and
	// initialized before this one. Order is significant: dependencies are
	// resolved in declaration order so failures are deterministic.
	Dependencies []string

	// Singleton services are constructed once and shared; non-singleton
	// services are constructed on every resolution
	Singleton bool

	// Config is merged over the service's default configuration
	Config config.Override

	// Tags classify the service. A service tagged critical aborts
	// container initialization when it fails.
	Tags []string
}

// Validate performs shallow structural checks on the descriptor
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: name is required", errors.ErrInvalidDescriptor),
			"container", "Validate", "validate descriptor")
	}
	if d.Factory == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s has no factory", errors.ErrInvalidDescriptor, d.Name),
			"container", "Validate", "validate descriptor")
	}

	seen := make(map[string]bool, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		if dep == d.Name {
			return errors.WrapInvalid(
				fmt.Errorf("%w: %s depends on itself", errors.ErrInvalidDescriptor, d.Name),
				"container", "Validate", "validate descriptor")
		}
		if seen[dep] {
			return errors.WrapInvalid(
				fmt.Errorf("%w: %s declares dependency %s twice", errors.ErrInvalidDescriptor, d.Name, dep),
				"container", "Validate", "validate descriptor")
		}
		seen[dep] = true
	}
	return nil
}

// HasTag reports whether the descriptor carries the given tag
func (d Descriptor) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}
