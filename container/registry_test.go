package container_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/container"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

func noopFactory(name string) container.Factory {
	return func(container.Dependencies, config.Override) (service.Service, error) {
		return newStub(name, nil), nil
	}
}

func TestFactoryRegistry(t *testing.T) {
	r := container.NewRegistry()

	require.NoError(t, r.Register("storage", noopFactory("storage")))
	require.NoError(t, r.Register("alarm", noopFactory("alarm")))

	assert.True(t, r.Has("storage"))
	assert.False(t, r.Has("ghost"))

	f, ok := r.Get("alarm")
	require.True(t, ok)
	require.NotNil(t, f)

	assert.Equal(t, []string{"alarm", "storage"}, r.Names())
}

func TestFactoryRegistryDuplicate(t *testing.T) {
	r := container.NewRegistry()
	require.NoError(t, r.Register("storage", noopFactory("storage")))

	err := r.Register("storage", noopFactory("storage"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDuplicateService))
}

func TestFactoryRegistryInvalid(t *testing.T) {
	r := container.NewRegistry()

	assert.Error(t, r.Register("", noopFactory("x")))
	assert.Error(t, r.Register("storage", nil))
}
