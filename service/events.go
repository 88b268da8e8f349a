package service

import (
	"context"
	"fmt"
	"time"
)

// Well-known lifecycle event names emitted by BaseService
const (
	EventInitialized = "service:initialized"
	EventCleanup     = "service:cleanup"
	EventError       = "service:error"
)

// Event is a service-scoped notification
type Event struct {
	Service   string         `json:"service"`
	Name      string         `json:"name"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Handler receives events emitted by a service
type Handler func(Event)

// Publisher mirrors service events to a process-wide bus. Implementations
// are best effort; publish failures never affect the emitting service.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Reporter forwards captured errors to an external reporting sink
type Reporter interface {
	Report(service string, rec ErrorRecord)
}

type subscription struct {
	id      int
	handler Handler
}

// On registers a handler for the named event and returns a token for Off
func (b *BaseService) On(event string, handler Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSubID++
	id := b.nextSubID
	b.handlers[event] = append(b.handlers[event], subscription{id: id, handler: handler})
	return id
}

// Off removes the handler registered under the token returned by On
func (b *BaseService) Off(event string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[event]
	for i, sub := range subs {
		if sub.id == id {
			b.handlers[event] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Emit delivers the event synchronously to local handlers, then mirrors it
// to the process-wide publisher if one is attached. A panicking handler is
// captured as a service error instead of propagating to the emitter.
func (b *BaseService) Emit(event string, data map[string]any) {
	b.mu.Lock()
	subs := make([]subscription, len(b.handlers[event]))
	copy(subs, b.handlers[event])
	e := Event{
		Service:   b.name,
		Name:      event,
		Timestamp: b.now(),
		Data:      data,
	}
	b.mu.Unlock()

	for _, sub := range subs {
		b.invokeHandler(event, sub.handler, e)
	}

	if b.publisher != nil {
		if err := b.publisher.Publish(context.Background(), e); err != nil {
			b.logger.Warn("event publish failed", "event", event, "error", err)
		}
	}
	if b.metrics != nil {
		b.metrics.Core.RecordEventPublished(b.name, event)
	}
}

func (b *BaseService) invokeHandler(event string, handler Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("event handler panic: %v", r)
			ctx := map[string]any{"event": event}
			// A panicking error handler must not trigger another
			// service:error emission.
			if event == EventError {
				b.recordError(err, "handler_panic", ctx)
				return
			}
			b.CaptureError(err, "handler_panic", ctx)
		}
	}()
	handler(e)
}

// clearHandlers drops all subscriptions. Caller holds b.mu.
func (b *BaseService) clearHandlers() {
	b.handlers = make(map[string][]subscription)
}
