package container

import (
	"fmt"
	"slices"
	"sync"

	"github.com/wakewell/servicekit/errors"
)

// Registry maps service names to their construction factories. It is the
// lookup table the registration layer consults when turning static service
// definitions into descriptors.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty factory registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under name. Registering the same name twice is
// an error so accidental overrides surface at startup.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: name is required", errors.ErrInvalidDescriptor),
			"registry", "Register", "register factory")
	}
	if factory == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s has no factory", errors.ErrInvalidDescriptor, name),
			"registry", "Register", "register factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("%w: factory %s", errors.ErrDuplicateService, name),
			"registry", "Register", "register factory")
	}
	r.factories[name] = factory
	return nil
}

// Get returns the factory registered under name
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Has reports whether a factory is registered under name
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the registered factory names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
