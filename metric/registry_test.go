package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	require.NotNil(t, r.Core)

	// Core metrics must be gatherable without recording anything.
	_, err = r.Gatherer().Gather()
	require.NoError(t, err)
}

func TestRegistryRejectsDuplicateCollector(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wakewell",
		Name:      "custom_total",
	})
	require.NoError(t, r.Register(c))
	assert.Error(t, r.Register(c))
}

func TestCoreRecorders(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	r.Core.RecordServicePhase("storage", 1)
	r.Core.RecordHealth("storage", "healthy")
	r.Core.RecordHealth("voice", "degraded")
	r.Core.RecordHealth("battle", "unhealthy")
	r.Core.RecordError("storage", "medium")
	r.Core.RecordResolution("storage", "hit")
	r.Core.RecordResolutionDuration("storage", 25*time.Millisecond)
	r.Core.RecordRestart("storage")
	r.Core.RecordCircuitState("subscription", 1)
	r.Core.RecordEventPublished("alarm", "initialized")

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	assert.True(t, names["wakewell_service_phase"])
	assert.True(t, names["wakewell_service_healthy"])
	assert.True(t, names["wakewell_service_errors_total"])
	assert.True(t, names["wakewell_container_resolutions_total"])
	assert.True(t, names["wakewell_container_resolution_duration_seconds"])
	assert.True(t, names["wakewell_service_restarts_total"])
	assert.True(t, names["wakewell_service_circuit_state"])
	assert.True(t, names["wakewell_events_published_total"])
}
