// Package breaker provides a circuit breaker for guarding operations
// against repeated failures.
package breaker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wakewell/servicekit/errors"
)

// State represents the current circuit state
type State int

// Possible circuit states
const (
	// StateClosed allows all calls through
	StateClosed State = iota
	// StateOpen fails all calls fast without invoking the operation
	StateOpen
	// StateHalfOpen allows exactly one trial call through
	StateHalfOpen
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Option is a functional option for configuring a Breaker
type Option func(*Breaker)

// OnStateChange registers a callback invoked on every state transition
func OnStateChange(fn func(State)) Option {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

// Breaker wraps an operation with three-state circuit breaking.
// Consecutive failures open the circuit; while open, calls fail fast
// with errors.ErrCircuitOpen until the recovery timeout elapses, at
// which point a single half-open trial decides whether the circuit
// closes again or reopens.
type Breaker struct {
	threshold int
	recovery  time.Duration

	mu            sync.Mutex
	state         State
	failures      int
	lastFailure   time.Time
	trialInFlight bool

	onStateChange func(State)
	now           func() time.Time // overridable in tests
}

// New creates a circuit breaker that opens after threshold consecutive
// failures and allows a trial call after the recovery timeout.
func New(threshold int, recovery time.Duration, opts ...Option) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if recovery <= 0 {
		recovery = 30 * time.Second
	}

	b := &Breaker{
		threshold: threshold,
		recovery:  recovery,
		state:     StateClosed,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current circuit state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the consecutive failure count in the current round
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Do invokes fn through the circuit. While the circuit is open it
// returns errors.ErrCircuitOpen without calling fn.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}

	err := fn(ctx)
	b.record(err)
	return err
}

// admit decides whether a call may proceed, transitioning open circuits
// to half-open when the recovery timeout has elapsed
func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.now().Sub(b.lastFailure) < b.recovery {
			return fmt.Errorf("%w: retry after %v", errors.ErrCircuitOpen, b.recovery)
		}
		b.transition(StateHalfOpen)
		b.trialInFlight = true
		return nil
	case StateHalfOpen:
		if b.trialInFlight {
			return fmt.Errorf("%w: trial call in flight", errors.ErrCircuitOpen)
		}
		b.trialInFlight = true
		return nil
	default:
		return fmt.Errorf("%w: unknown circuit state", errors.ErrCircuitOpen)
	}
}

// record applies the outcome of an admitted call
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.trialInFlight = false
		if err != nil {
			// Trial failed: reopen and start a fresh recovery window
			b.lastFailure = b.now()
			b.transition(StateOpen)
			return
		}
		b.failures = 0
		b.transition(StateClosed)
		return
	}

	if err == nil {
		b.failures = 0
		return
	}

	b.failures++
	b.lastFailure = b.now()
	if b.failures >= b.threshold && b.state == StateClosed {
		b.transition(StateOpen)
	}
}

// transition changes state and fires the callback; callers hold b.mu
func (b *Breaker) transition(next State) {
	if b.state == next {
		return
	}
	b.state = next
	if b.onStateChange != nil {
		// Callback runs without the lock so it may query the breaker
		go b.onStateChange(next)
	}
}
