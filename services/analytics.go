package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

// AnalyticsName is the registered name of the analytics service
const AnalyticsName = "analytics"

// TrackedEvent is a single analytics data point
type TrackedEvent struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Timestamp  time.Time      `json:"timestamp"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Analytics buffers tracked events and flushes them to storage in batches.
// Flushes retry with exponential backoff since the batch write is the one
// operation worth surviving transient storage faults.
type Analytics struct {
	*service.BaseService

	storage *Storage

	mu     sync.Mutex
	buffer []TrackedEvent
}

// NewAnalytics creates the analytics service on top of storage
func NewAnalytics(storage *Storage, opts ...service.Option) *Analytics {
	a := &Analytics{storage: storage}
	a.BaseService = service.New(AnalyticsName, a, opts...)
	return a
}

// DoInitialize prepares the event buffer
func (a *Analytics) DoInitialize(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buffer = a.buffer[:0]
	return nil
}

// DoCleanup flushes any buffered events before stopping
func (a *Analytics) DoCleanup(ctx context.Context) error {
	return a.Flush(ctx)
}

// DefaultConfig returns the analytics baseline configuration
func (a *Analytics) DefaultConfig() config.Service {
	return config.Service{
		Environment: config.EnvDevelopment,
		Enabled:     true,
		Options: map[string]any{
			"batch_size": 100,
		},
	}
}

// Track buffers an event for the next flush
func (a *Analytics) Track(name string, properties map[string]any) TrackedEvent {
	event := TrackedEvent{
		ID:         uuid.NewString(),
		Name:       name,
		Timestamp:  time.Now(),
		Properties: properties,
	}

	a.mu.Lock()
	a.buffer = append(a.buffer, event)
	a.mu.Unlock()
	return event
}

// Pending returns how many events await the next flush
func (a *Analytics) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffer)
}

// Flush persists the buffered events as a single batch. The batch is put
// back in front of the buffer if all attempts fail, so events are not
// silently dropped.
func (a *Analytics) Flush(ctx context.Context) error {
	a.mu.Lock()
	batch := a.buffer
	a.buffer = nil
	a.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return errors.Wrap(err, AnalyticsName, "Flush", "encode batch")
	}

	key := fmt.Sprintf("analytics/batch/%s", uuid.NewString())
	err = a.Retry(ctx, "flush", 3, 100*time.Millisecond, func() error {
		return a.storage.Put(key, payload)
	})
	if err != nil {
		a.mu.Lock()
		a.buffer = append(batch, a.buffer...)
		a.mu.Unlock()
		return err
	}

	a.Emit("analytics:flushed", map[string]any{"events": len(batch)})
	return nil
}
