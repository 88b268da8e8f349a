package service

import (
	"context"
	"time"

	"github.com/wakewell/servicekit/pkg/breaker"
	"github.com/wakewell/servicekit/pkg/retry"
)

// Retry invokes fn up to attempts times with exponential backoff starting
// at baseDelay. The last failure is captured in the service's error buffer
// before being returned.
func (b *BaseService) Retry(ctx context.Context, operation string, attempts int, baseDelay time.Duration, fn func() error) error {
	cfg := retry.Config{
		MaxAttempts:  attempts,
		InitialDelay: baseDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	err := retry.Do(ctx, cfg, fn)
	if err != nil {
		b.CaptureError(err, "retry_exhausted", map[string]any{
			"operation": operation,
			"attempts":  attempts,
		})
	}
	return err
}

// NewBreaker creates a circuit breaker whose state transitions are
// published as metrics and service events.
func (b *BaseService) NewBreaker(operation string, threshold int, recovery time.Duration) *breaker.Breaker {
	return breaker.New(threshold, recovery, breaker.OnStateChange(func(state breaker.State) {
		if b.metrics != nil {
			b.metrics.Core.RecordCircuitState(b.name, int(state))
		}
		b.logger.Warn("circuit state change", "operation", operation, "state", state)
		b.Emit("service:circuit", map[string]any{
			"operation": operation,
			"state":     state.String(),
		})
	}))
}
