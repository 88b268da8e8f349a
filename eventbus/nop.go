package eventbus

import (
	"context"

	"github.com/wakewell/servicekit/service"
)

// Nop is a Publisher that discards every event. It is the default when no
// process-wide bus is configured; services behave identically with or
// without one.
type Nop struct{}

// NewNop creates a discarding publisher
func NewNop() *Nop {
	return &Nop{}
}

// Publish discards the event
func (*Nop) Publish(_ context.Context, _ service.Event) error {
	return nil
}
