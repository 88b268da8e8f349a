package eventbus

import (
	"context"
	"sync"

	"github.com/wakewell/servicekit/service"
)

// Memory is an in-process Publisher that fans events out to subscribed
// handlers and keeps a copy of everything published. Tests and local
// diagnostics use it in place of a broker.
type Memory struct {
	mu       sync.RWMutex
	events   []service.Event
	handlers []func(service.Event)
}

// NewMemory creates an empty in-process bus
func NewMemory() *Memory {
	return &Memory{}
}

// Publish records the event and delivers it to every subscriber
func (m *Memory) Publish(_ context.Context, event service.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	handlers := make([]func(service.Event), len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
	return nil
}

// Subscribe registers a handler for every subsequently published event
func (m *Memory) Subscribe(handler func(service.Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Events returns a copy of everything published so far
func (m *Memory) Events() []service.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]service.Event, len(m.events))
	copy(out, m.events)
	return out
}

// EventsNamed returns published events with the given name
func (m *Memory) EventsNamed(name string) []service.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []service.Event
	for _, e := range m.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
