package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/health"
	"github.com/wakewell/servicekit/metric"
)

// Hooks is the part of the lifecycle each concrete service supplies.
// Everything else (phase machine, config merging, health derivation,
// error capture, events) is handled by BaseService.
type Hooks interface {
	// DoInitialize performs the service's own setup. It is called with
	// the merged, validated configuration already stored and the phase
	// already set to PhaseInitializing.
	DoInitialize(ctx context.Context) error

	// DoCleanup releases the service's own resources.
	DoCleanup(ctx context.Context) error

	// DefaultConfig returns the service's baseline configuration, which
	// incoming overrides are merged over.
	DefaultConfig() config.Service
}

// Service is the lifecycle contract the container drives. BaseService
// implements it; concrete services embed *BaseService and supply Hooks.
type Service interface {
	Name() string
	Initialize(ctx context.Context, override config.Override) error
	Cleanup(ctx context.Context) error
	Initialized() bool
	Phase() Phase
	Health() health.Status
}

// Option is a functional option for configuring BaseService
type Option func(*BaseService)

// WithLogger sets a custom logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(b *BaseService) {
		if logger != nil {
			b.logger = logger.With("service", b.name)
		}
	}
}

// WithMetrics sets the metrics registry for the service
func WithMetrics(registry *metric.Registry) Option {
	return func(b *BaseService) {
		b.metrics = registry
	}
}

// WithPublisher attaches a process-wide event bus that Emit mirrors to
func WithPublisher(p Publisher) Option {
	return func(b *BaseService) {
		b.publisher = p
	}
}

// WithReporter attaches an external error reporter
func WithReporter(r Reporter) Option {
	return func(b *BaseService) {
		b.reporter = r
	}
}

// BaseService provides the shared lifecycle behavior for all services
type BaseService struct {
	name      string
	hooks     Hooks
	logger    *slog.Logger
	metrics   *metric.Registry
	publisher Publisher
	reporter  Reporter

	mu        sync.Mutex
	phase     Phase
	cfg       config.Service
	startTime time.Time
	restarts  int
	errlog    errorLog
	handlers  map[string][]subscription
	nextSubID int

	// now is replaceable in tests
	now func() time.Time
}

// New creates a BaseService. hooks is usually the embedding service itself.
func New(name string, hooks Hooks, opts ...Option) *BaseService {
	b := &BaseService{
		name:     name,
		hooks:    hooks,
		logger:   slog.Default().With("service", name),
		handlers: make(map[string][]subscription),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the service name
func (b *BaseService) Name() string {
	return b.name
}

// Phase returns the current lifecycle phase
func (b *BaseService) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// Initialized reports whether the service has reached PhaseRunning
func (b *BaseService) Initialized() bool {
	return b.Phase() == PhaseRunning
}

// Restarts returns how many times Reset has been called
func (b *BaseService) Restarts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.restarts
}

// Config returns the merged configuration stored by the last Initialize
func (b *BaseService) Config() config.Service {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// Initialize merges override over the service's default configuration,
// validates it, and drives the phase machine through PhaseInitializing to
// PhaseRunning. A second call on a running instance is a no-op. On any
// failure the phase moves to PhaseError, the fault is recorded, and the
// error is returned for the container to interpret.
func (b *BaseService) Initialize(ctx context.Context, override config.Override) error {
	b.mu.Lock()
	if b.phase == PhaseRunning {
		b.mu.Unlock()
		return nil
	}

	merged := config.Merge(b.hooks.DefaultConfig(), override)
	if err := merged.Validate(); err != nil {
		wrapped := errors.Wrap(err, b.name, "Initialize", "validate configuration")
		b.mu.Unlock()
		b.fail(wrapped, "invalid_configuration")
		return wrapped
	}

	b.cfg = merged
	b.setPhaseLocked(PhaseInitializing)
	b.startTime = b.now()
	b.mu.Unlock()

	b.logger.Info("initializing", "environment", merged.Environment)

	if err := b.hooks.DoInitialize(ctx); err != nil {
		wrapped := errors.Wrap(err, b.name, "Initialize", "initialize service")
		b.fail(wrapped, "initialize_failed")
		return wrapped
	}

	b.setPhase(PhaseRunning)
	b.logger.Info("running")
	b.Emit(EventInitialized, nil)
	return nil
}

// Cleanup transitions to PhaseStopping, runs DoCleanup, clears event
// handlers, and lands on PhaseStopped. Idempotent once stopped. A cleanup
// failure is recorded and returned but still leaves the service stopped so
// one broken service cannot block teardown of the rest.
func (b *BaseService) Cleanup(ctx context.Context) error {
	b.mu.Lock()
	if b.phase == PhaseStopped || b.phase == PhaseStopping {
		b.mu.Unlock()
		return nil
	}
	b.setPhaseLocked(PhaseStopping)
	b.mu.Unlock()

	b.logger.Info("stopping")

	cleanupErr := b.hooks.DoCleanup(ctx)
	if cleanupErr != nil {
		cleanupErr = errors.Wrap(cleanupErr, b.name, "Cleanup", "clean up service")
		b.recordError(cleanupErr, "cleanup_failed", nil)
	}

	b.mu.Lock()
	b.clearHandlers()
	b.setPhaseLocked(PhaseStopped)
	b.mu.Unlock()

	b.logger.Info("stopped")
	b.Emit(EventCleanup, nil)
	return cleanupErr
}

// Reset returns an errored or stopped instance to PhaseInitializing and
// increments the restart counter so it can be initialized again.
func (b *BaseService) Reset() {
	b.mu.Lock()
	b.setPhaseLocked(PhaseInitializing)
	b.restarts++
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.Core.RecordRestart(b.name)
	}
	b.logger.Info("reset", "restarts", b.Restarts())
}

// Health derives the current health status from the lifecycle phase and
// the trailing error window. Nothing is cached between calls.
func (b *BaseService) Health() health.Status {
	b.mu.Lock()
	phase := b.phase
	now := b.now()
	recent := b.errlog.recent(now, health.ErrorWindow)
	total := b.errlog.len()
	restarts := b.restarts
	uptime := time.Duration(0)
	if phase == PhaseRunning && !b.startTime.IsZero() {
		uptime = now.Sub(b.startTime)
	}
	b.mu.Unlock()

	messages := make([]string, 0, len(recent))
	lastActivity := time.Time{}
	for _, rec := range recent {
		messages = append(messages, rec.Message)
		if rec.Timestamp.After(lastActivity) {
			lastActivity = rec.Timestamp
		}
	}

	var status health.Status
	if phase != PhaseRunning {
		status = health.NewUnhealthy(b.name, "service is "+phase.String())
	} else {
		status = health.FromErrorStats(b.name, len(recent))
	}

	status = status.WithMetrics(&health.Metrics{
		Uptime:       uptime,
		ErrorCount:   total,
		RestartCount: int64(restarts),
		LastActivity: lastActivity,
	}).WithRecentErrors(messages)

	if b.metrics != nil {
		b.metrics.Core.RecordHealth(b.name, status.Status)
	}
	return status
}

// CaptureError classifies err, appends it to the bounded error buffer,
// forwards it to the external reporter if present, and emits a
// service:error event.
func (b *BaseService) CaptureError(err error, code string, ctx map[string]any) {
	rec := b.recordError(err, code, ctx)
	b.Emit(EventError, map[string]any{
		"code":     rec.Code,
		"severity": rec.Severity.String(),
		"message":  rec.Message,
	})
}

// Errors returns a copy of the buffered error records, oldest first
func (b *BaseService) Errors() []ErrorRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errlog.all()
}

func (b *BaseService) recordError(err error, code string, ctx map[string]any) ErrorRecord {
	b.mu.Lock()
	rec := newErrorRecord(err, code, ctx, b.now())
	b.errlog.append(rec)
	b.mu.Unlock()

	b.logger.Error("service error", "code", code, "severity", rec.Severity, "error", err)
	if b.metrics != nil {
		b.metrics.Core.RecordError(b.name, rec.Severity.String())
	}
	if b.reporter != nil {
		b.reporter.Report(b.name, rec)
	}
	return rec
}

// fail records the fault and moves the phase to PhaseError
func (b *BaseService) fail(err error, code string) {
	b.setPhase(PhaseError)
	b.CaptureError(err, code, nil)
}

func (b *BaseService) setPhase(p Phase) {
	b.mu.Lock()
	b.setPhaseLocked(p)
	b.mu.Unlock()
}

func (b *BaseService) setPhaseLocked(p Phase) {
	b.phase = p
	if b.metrics != nil {
		b.metrics.Core.RecordServicePhase(b.name, int(p))
	}
}
