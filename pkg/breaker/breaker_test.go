package breaker

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakewell/servicekit/errors"
)

var errBoom = stderrors.New("boom")

// newTestBreaker returns a breaker with a controllable clock
func newTestBreaker(threshold int, recovery time.Duration) (*Breaker, *time.Time) {
	now := time.Now()
	b := New(threshold, recovery)
	b.now = func() time.Time { return now }
	return b, &now
}

func failing(context.Context) error { return errBoom }
func succeeding(context.Context) error { return nil }

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
}

func TestClosedPassesThrough(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	require.NoError(t, b.Do(context.Background(), succeeding))
	assert.Equal(t, StateClosed, b.State())
}

func TestOpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	ctx := context.Background()

	for range 3 {
		assert.ErrorIs(t, b.Do(ctx, failing), errBoom)
	}
	assert.Equal(t, StateOpen, b.State())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	ctx := context.Background()

	assert.Error(t, b.Do(ctx, failing))
	assert.Error(t, b.Do(ctx, failing))
	require.NoError(t, b.Do(ctx, succeeding))
	assert.Equal(t, 0, b.Failures())

	// Two more failures must not reach the threshold of three
	assert.Error(t, b.Do(ctx, failing))
	assert.Error(t, b.Do(ctx, failing))
	assert.Equal(t, StateClosed, b.State())
}

func TestOpenFailsFastWithoutInvoking(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)
	ctx := context.Background()

	assert.Error(t, b.Do(ctx, failing))
	assert.Error(t, b.Do(ctx, failing))
	require.Equal(t, StateOpen, b.State())

	invoked := false
	err := b.Do(ctx, func(context.Context) error {
		invoked = true
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCircuitOpen)
	assert.False(t, invoked)
}

func TestHalfOpenTrialCloses(t *testing.T) {
	b, now := newTestBreaker(2, time.Minute)
	ctx := context.Background()

	assert.Error(t, b.Do(ctx, failing))
	assert.Error(t, b.Do(ctx, failing))
	require.Equal(t, StateOpen, b.State())

	*now = now.Add(2 * time.Minute)
	require.NoError(t, b.Do(ctx, succeeding))
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 0, b.Failures())
}

func TestHalfOpenTrialReopens(t *testing.T) {
	b, now := newTestBreaker(2, time.Minute)
	ctx := context.Background()

	assert.Error(t, b.Do(ctx, failing))
	assert.Error(t, b.Do(ctx, failing))

	*now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, b.Do(ctx, failing), errBoom)
	assert.Equal(t, StateOpen, b.State())

	// Fresh recovery window: still failing fast
	err := b.Do(ctx, succeeding)
	assert.ErrorIs(t, err, errors.ErrCircuitOpen)
}

func TestHalfOpenAdmitsExactlyOneTrial(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute)
	ctx := context.Background()

	assert.Error(t, b.Do(ctx, failing))
	require.Equal(t, StateOpen, b.State())
	*now = now.Add(2 * time.Minute)

	release := make(chan struct{})
	trialDone := make(chan error, 1)
	go func() {
		trialDone <- b.Do(ctx, func(context.Context) error {
			<-release
			return nil
		})
	}()

	// Wait for the trial to be admitted
	require.Eventually(t, func() bool { return b.State() == StateHalfOpen },
		time.Second, time.Millisecond)

	// Concurrent call during the trial fails fast
	err := b.Do(ctx, succeeding)
	assert.ErrorIs(t, err, errors.ErrCircuitOpen)

	close(release)
	require.NoError(t, <-trialDone)
	assert.Equal(t, StateClosed, b.State())
}

func TestOnStateChangeCallback(t *testing.T) {
	states := make(chan State, 4)
	b := New(1, time.Minute, OnStateChange(func(s State) { states <- s }))
	now := time.Now()
	b.now = func() time.Time { return now }

	assert.Error(t, b.Do(context.Background(), failing))
	assert.Equal(t, StateOpen, <-states)
}

func TestDefaultsApplied(t *testing.T) {
	b := New(0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.recovery)
}
