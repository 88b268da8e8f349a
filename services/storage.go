package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

// StorageName is the registered name of the storage service
const StorageName = "storage"

// Storage is the key-value persistence service every other service builds
// on. The backing store is in-memory; durability is owned by the platform
// layer outside this module.
type Storage struct {
	*service.BaseService

	mu   sync.RWMutex
	data map[string][]byte
}

// NewStorage creates the storage service
func NewStorage(opts ...service.Option) *Storage {
	s := &Storage{}
	s.BaseService = service.New(StorageName, s, opts...)
	return s
}

// DoInitialize prepares the backing store
func (s *Storage) DoInitialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	return nil
}

// DoCleanup releases the backing store
func (s *Storage) DoCleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// DefaultConfig returns the storage baseline configuration
func (s *Storage) DefaultConfig() config.Service {
	return config.Service{
		Environment: config.EnvDevelopment,
		Enabled:     true,
	}
}

// Put stores value under key
func (s *Storage) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return errors.Wrap(errors.ErrNotInitialized, StorageName, "Put", "store value")
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Get returns the value stored under key
func (s *Storage) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, false, errors.Wrap(errors.ErrNotInitialized, StorageName, "Get", "load value")
	}
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Delete removes the value stored under key
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return errors.Wrap(errors.ErrNotInitialized, StorageName, "Delete", "delete value")
	}
	delete(s.data, key)
	return nil
}

// Keys returns every stored key with the given prefix
func (s *Storage) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, errors.Wrap(errors.ErrNotInitialized, StorageName, "Keys", "list keys")
	}
	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// storageDep extracts the storage dependency from a resolved dependency map
func storageDep(deps map[string]service.Service, dependent string) (*Storage, error) {
	dep, ok := deps[StorageName]
	if !ok {
		return nil, errors.Wrap(
			fmt.Errorf("%w: %s", errors.ErrServiceNotResolved, StorageName),
			dependent, "New", "resolve storage dependency")
	}
	storage, ok := dep.(*Storage)
	if !ok {
		return nil, errors.Wrap(
			fmt.Errorf("unexpected storage implementation %T", dep),
			dependent, "New", "resolve storage dependency")
	}
	return storage, nil
}
