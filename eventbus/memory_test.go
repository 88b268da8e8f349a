package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakewell/servicekit/service"
)

func TestMemoryPublishAndSubscribe(t *testing.T) {
	bus := NewMemory()

	var received []service.Event
	bus.Subscribe(func(e service.Event) {
		received = append(received, e)
	})

	event := service.Event{
		Service:   "alarm",
		Name:      "alarm:scheduled",
		Timestamp: time.Now(),
		Data:      map[string]any{"alarm_id": "a1"},
	}
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, "alarm", received[0].Service)

	all := bus.Events()
	require.Len(t, all, 1)
	assert.Equal(t, "alarm:scheduled", all[0].Name)
}

func TestMemoryEventsNamed(t *testing.T) {
	bus := NewMemory()
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, service.Event{Service: "alarm", Name: "service:initialized"}))
	require.NoError(t, bus.Publish(ctx, service.Event{Service: "voice", Name: "service:initialized"}))
	require.NoError(t, bus.Publish(ctx, service.Event{Service: "alarm", Name: "service:error"}))

	inits := bus.EventsNamed("service:initialized")
	require.Len(t, inits, 2)
	assert.Equal(t, "alarm", inits[0].Service)
	assert.Equal(t, "voice", inits[1].Service)
}

func TestNopDiscards(t *testing.T) {
	bus := NewNop()
	require.NoError(t, bus.Publish(context.Background(), service.Event{Service: "alarm", Name: "x"}))
}

func TestNATSSubject(t *testing.T) {
	got := subject(service.Event{Service: "alarm", Name: "service:initialized"})
	assert.Equal(t, "wakewell.events.alarm.service_initialized", got)
}
