// Package breaker provides a three-state circuit breaker (closed, open,
// half-open) used by servicekit services to guard calls against
// collaborators that are failing repeatedly.
//
// Consecutive failures up to the configured threshold open the circuit.
// An open circuit fails fast with errors.ErrCircuitOpen, shedding load
// from the failing collaborator. Once the recovery timeout elapses,
// exactly one trial call is admitted in the half-open state: success
// closes the circuit and resets the failure count, failure reopens it
// for another recovery window.
//
//	cb := breaker.New(5, 30*time.Second)
//	err := cb.Do(ctx, func(ctx context.Context) error {
//	    return store.Verify(ctx, receipt)
//	})
package breaker
