// Package retry provides exponential backoff retry logic used by
// servicekit services for transient faults during initialization and
// normal operation.
//
// The retry loop honors context cancellation both between attempts and
// during the backoff sleep, applies optional jitter to avoid thundering
// herds, and fails fast for errors wrapped with NonRetryable.
//
//	err := retry.Do(ctx, retry.Quick(), func() error {
//	    return analytics.Flush(ctx)
//	})
package retry
