// Package reporting provides external error reporter implementations for
// captured service errors.
//
// LogReporter writes every report to structured logs. RateLimited wraps
// any reporter with a token bucket so an error storm in one service cannot
// flood the sink; dropped reports are counted and surfaced periodically.
package reporting

import (
	"log/slog"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/wakewell/servicekit/service"
)

// LogReporter reports captured errors through a structured logger
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a reporter writing to logger
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

// Report logs the error record
func (r *LogReporter) Report(svc string, rec service.ErrorRecord) {
	r.logger.Error("reported service error",
		"service", svc,
		"error_id", rec.ID,
		"code", rec.Code,
		"severity", rec.Severity.String(),
		"message", rec.Message,
	)
}

// RateLimited wraps a reporter with a token bucket. Reports beyond the
// allowed rate are dropped and counted.
type RateLimited struct {
	next    service.Reporter
	limiter *rate.Limiter
	logger  *slog.Logger
	dropped atomic.Int64
}

// NewRateLimited creates a rate-limited reporter allowing perSecond
// sustained reports with the given burst.
func NewRateLimited(next service.Reporter, perSecond float64, burst int, logger *slog.Logger) *RateLimited {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
	}
}

// Report forwards the record if the limiter allows it
func (r *RateLimited) Report(svc string, rec service.ErrorRecord) {
	if !r.limiter.Allow() {
		if n := r.dropped.Add(1); n%100 == 1 {
			r.logger.Warn("error reports dropped by rate limit",
				"service", svc, "dropped_total", n)
		}
		return
	}
	r.next.Report(svc, rec)
}

// Dropped returns how many reports the limiter has discarded
func (r *RateLimited) Dropped() int64 {
	return r.dropped.Load()
}
