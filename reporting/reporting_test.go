package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

type countingReporter struct {
	count int
}

func (r *countingReporter) Report(string, service.ErrorRecord) {
	r.count++
}

func record(msg string) service.ErrorRecord {
	return service.ErrorRecord{
		ID:       "test",
		Message:  msg,
		Code:     "test",
		Severity: errors.SeverityLow,
	}
}

func TestRateLimitedDrops(t *testing.T) {
	next := &countingReporter{}
	limited := NewRateLimited(next, 1, 3, nil)

	for range 10 {
		limited.Report("alarm", record("fault"))
	}

	// Burst of 3 passes; the rest are dropped.
	assert.Equal(t, 3, next.count)
	assert.Equal(t, int64(7), limited.Dropped())
}

func TestLogReporter(t *testing.T) {
	// Must not panic with a nil logger argument.
	r := NewLogReporter(nil)
	r.Report("alarm", record("fault"))
}
