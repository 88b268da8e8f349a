package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "low", SeverityLow.String())
	assert.Equal(t, "medium", SeverityMedium.String())
	assert.Equal(t, "high", SeverityHigh.String())
	assert.Equal(t, "critical", SeverityCritical.String())
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestWrap(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "Container", "Resolve", "service initialization")
	require.Error(t, err)
	assert.Equal(t, "Container.Resolve: service initialization failed: boom", err.Error())
	assert.True(t, stderrors.Is(err, base))

	assert.NoError(t, Wrap(nil, "Container", "Resolve", "noop"))
}

func TestWrapWithSeverity(t *testing.T) {
	base := stderrors.New("flush failed")
	err := WrapWithSeverity(SeverityMedium, base, "Analytics", "flush", "event delivery")
	require.Error(t, err)

	var ce *ClassifiedError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, SeverityMedium, ce.Severity)
	assert.Equal(t, "Analytics", ce.Component)
	assert.Equal(t, "flush", ce.Operation)
	assert.True(t, stderrors.Is(err, base))
}

func TestSeverityForSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityLow},
		{"plain", stderrors.New("something odd"), SeverityLow},
		{"network", fmt.Errorf("publish: %w", ErrNetwork), SeverityMedium},
		{"timeout", fmt.Errorf("wait: %w", ErrTimeout), SeverityMedium},
		{"storage", fmt.Errorf("put: %w", ErrStorage), SeverityMedium},
		{"security", fmt.Errorf("verify: %w", ErrSecurity), SeverityHigh},
		{"corruption", fmt.Errorf("load: %w", ErrDataCorrupted), SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityFor(tt.err))
		})
	}
}

func TestSeverityForMessagePatterns(t *testing.T) {
	assert.Equal(t, SeverityMedium, SeverityFor(stderrors.New("connection refused")))
	assert.Equal(t, SeverityMedium, SeverityFor(stderrors.New("request timeout exceeded")))
	assert.Equal(t, SeverityHigh, SeverityFor(stderrors.New("unauthorized access attempt")))
	assert.Equal(t, SeverityCritical, SeverityFor(stderrors.New("record corrupted on disk")))
}

func TestSeverityForClassifiedShortCircuit(t *testing.T) {
	// An explicit classification wins even when the message pattern-matches
	// a different severity.
	err := WrapWithSeverity(SeverityHigh, stderrors.New("connection reset"), "Voice", "record", "upload")
	assert.Equal(t, SeverityHigh, SeverityFor(err))
}

func TestClassifiedErrorMessage(t *testing.T) {
	ce := &ClassifiedError{Severity: SeverityLow, Err: stderrors.New("inner")}
	assert.Equal(t, "inner", ce.Error())

	ce.Message = "outer message"
	assert.Equal(t, "outer message", ce.Error())
	assert.Equal(t, "inner", ce.Unwrap().Error())
}
