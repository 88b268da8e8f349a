package services

import (
	"context"
	"fmt"
	"time"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/pkg/breaker"
	"github.com/wakewell/servicekit/service"
)

// SubscriptionName is the registered name of the subscription service
const SubscriptionName = "subscription"

// ReceiptVerifier validates a purchase receipt with the store backend and
// returns the entitlement it grants.
type ReceiptVerifier func(ctx context.Context, receipt string) (string, error)

// SubscriptionService tracks the user's entitlement. Receipt verification
// talks to an external store backend, so it runs behind a circuit breaker;
// a flapping backend fails fast instead of stalling every caller.
type SubscriptionService struct {
	*service.BaseService

	storage  *Storage
	verifier ReceiptVerifier
	circuit  *breaker.Breaker
}

// NewSubscriptionService creates the subscription service. verifier may be
// nil, in which case verification fails until one is set.
func NewSubscriptionService(storage *Storage, verifier ReceiptVerifier, opts ...service.Option) *SubscriptionService {
	s := &SubscriptionService{
		storage:  storage,
		verifier: verifier,
	}
	s.BaseService = service.New(SubscriptionName, s, opts...)
	return s
}

// DoInitialize builds the verification circuit from configuration
func (s *SubscriptionService) DoInitialize(_ context.Context) error {
	cfg := s.Config()
	threshold := cfg.Int("failure_threshold", 5)
	recovery := time.Duration(cfg.Int("recovery_seconds", 30)) * time.Second
	s.circuit = s.NewBreaker("verify_receipt", threshold, recovery)
	return nil
}

// DoCleanup has nothing to release
func (s *SubscriptionService) DoCleanup(_ context.Context) error {
	return nil
}

// DefaultConfig returns the subscription baseline configuration
func (s *SubscriptionService) DefaultConfig() config.Service {
	return config.Service{
		Environment: config.EnvDevelopment,
		Enabled:     true,
		Options: map[string]any{
			"failure_threshold": 5,
			"recovery_seconds":  30,
		},
	}
}

// VerifyReceipt validates a receipt through the circuit breaker and stores
// the granted entitlement on success.
func (s *SubscriptionService) VerifyReceipt(ctx context.Context, receipt string) (string, error) {
	if s.verifier == nil {
		return "", errors.Wrap(
			fmt.Errorf("no receipt verifier configured"),
			SubscriptionName, "VerifyReceipt", "verify receipt")
	}

	var entitlement string
	err := s.circuit.Do(ctx, func(ctx context.Context) error {
		var verifyErr error
		entitlement, verifyErr = s.verifier(ctx, receipt)
		return verifyErr
	})
	if err != nil {
		s.CaptureError(err, "receipt_verification", map[string]any{
			"circuit": s.circuit.State().String(),
		})
		return "", err
	}

	if err := s.storage.Put("subscription/entitlement", []byte(entitlement)); err != nil {
		return "", err
	}
	s.Emit("subscription:verified", map[string]any{"entitlement": entitlement})
	return entitlement, nil
}

// Entitlement returns the stored entitlement, or empty if none
func (s *SubscriptionService) Entitlement() (string, error) {
	raw, ok, err := s.storage.Get("subscription/entitlement")
	if err != nil || !ok {
		return "", err
	}
	return string(raw), nil
}

// CircuitState exposes the verification circuit state for diagnostics
func (s *SubscriptionService) CircuitState() breaker.State {
	return s.circuit.State()
}
