package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakewell/servicekit/errors"
)

// maxErrorRecords bounds the per-service error buffer. Older entries are
// evicted once the buffer is full.
const maxErrorRecords = 50

// ErrorRecord is a captured, classified service fault
type ErrorRecord struct {
	ID        string          `json:"id"`
	Message   string          `json:"message"`
	Code      string          `json:"code"`
	Timestamp time.Time       `json:"timestamp"`
	Severity  errors.Severity `json:"severity"`
	Context   map[string]any  `json:"context,omitempty"`
}

// newErrorRecord classifies err and stamps the record
func newErrorRecord(err error, code string, ctx map[string]any, now time.Time) ErrorRecord {
	return ErrorRecord{
		ID:        uuid.NewString(),
		Message:   err.Error(),
		Code:      code,
		Timestamp: now,
		Severity:  errors.SeverityFor(err),
		Context:   ctx,
	}
}

// errorLog is a fixed-capacity ring of recent error records. Callers hold
// the owning service's lock; the log itself is not synchronized.
type errorLog struct {
	records []ErrorRecord
}

func (l *errorLog) append(rec ErrorRecord) {
	l.records = append(l.records, rec)
	if len(l.records) > maxErrorRecords {
		l.records = l.records[len(l.records)-maxErrorRecords:]
	}
}

// recent returns records newer than now-window, oldest first
func (l *errorLog) recent(now time.Time, window time.Duration) []ErrorRecord {
	cutoff := now.Add(-window)
	var out []ErrorRecord
	for _, rec := range l.records {
		if rec.Timestamp.After(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

func (l *errorLog) len() int {
	return len(l.records)
}

// all returns a copy of every buffered record, oldest first
func (l *errorLog) all() []ErrorRecord {
	out := make([]ErrorRecord, len(l.records))
	copy(out, l.records)
	return out
}
