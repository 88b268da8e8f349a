package container_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakewell/servicekit/container"
	"github.com/wakewell/servicekit/errors"
)

func depsOf(graph map[string][]string) func(string) []string {
	return func(name string) []string { return graph[name] }
}

func namesOf(graph map[string][]string) []string {
	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	return names
}

func TestOrderRespectsDependencies(t *testing.T) {
	graph := map[string][]string{
		"storage":   nil,
		"analytics": {"storage"},
		"alarm":     {"storage", "analytics"},
	}

	order, err := container.Order(namesOf(graph), depsOf(graph))
	require.NoError(t, err)
	assert.Equal(t, []string{"storage", "analytics", "alarm"}, order)
}

func TestOrderDeterministic(t *testing.T) {
	graph := map[string][]string{
		"a": nil, "b": nil, "c": nil, "d": {"b"}, "e": {"b", "a"},
	}

	first, err := container.Order(namesOf(graph), depsOf(graph))
	require.NoError(t, err)

	for range 10 {
		again, err := container.Order(namesOf(graph), depsOf(graph))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestOrderCycle(t *testing.T) {
	graph := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	}

	_, err := container.Order(namesOf(graph), depsOf(graph))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrCircularDependency))
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
	assert.Contains(t, err.Error(), "c")
}

func TestOrderIgnoresUnknownDependencies(t *testing.T) {
	graph := map[string][]string{
		"a": {"ghost"},
		"b": {"a"},
	}

	order, err := container.Order(namesOf(graph), depsOf(graph))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}
