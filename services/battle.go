package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

// BattleName is the registered name of the battle service
const BattleName = "battle"

// Battle is a wake-up challenge bound to a fired alarm
type Battle struct {
	ID        string    `json:"id"`
	AlarmID   string    `json:"alarm_id"`
	Mode      string    `json:"mode"`
	StartedAt time.Time `json:"started_at"`
	Won       bool      `json:"won"`
	EndedAt   time.Time `json:"ended_at,omitzero"`
}

// BattleService runs wake-up challenges. It consumes the alarm service to
// validate that a battle targets a real alarm and reports outcomes through
// analytics.
type BattleService struct {
	*service.BaseService

	alarms    *AlarmService
	analytics *Analytics

	mu     sync.Mutex
	active map[string]Battle
}

// NewBattleService creates the battle service
func NewBattleService(alarms *AlarmService, analytics *Analytics, opts ...service.Option) *BattleService {
	s := &BattleService{
		alarms:    alarms,
		analytics: analytics,
	}
	s.BaseService = service.New(BattleName, s, opts...)
	return s
}

// DoInitialize prepares the active battle index
func (s *BattleService) DoInitialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = make(map[string]Battle)
	return nil
}

// DoCleanup abandons any battles still running
func (s *BattleService) DoCleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
	return nil
}

// DefaultConfig returns the battle baseline configuration
func (s *BattleService) DefaultConfig() config.Service {
	return config.Service{
		Environment: config.EnvDevelopment,
		Enabled:     true,
		Options: map[string]any{
			"mode": "math",
		},
	}
}

// Start begins a battle for the given alarm
func (s *BattleService) Start(alarmID string) (Battle, error) {
	if _, ok := s.alarms.Get(alarmID); !ok {
		return Battle{}, errors.WrapInvalid(
			fmt.Errorf("alarm %s not found", alarmID),
			BattleName, "Start", "start battle")
	}

	battle := Battle{
		ID:        uuid.NewString(),
		AlarmID:   alarmID,
		Mode:      s.Config().String("mode", "math"),
		StartedAt: time.Now(),
	}

	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return Battle{}, errors.Wrap(errors.ErrNotInitialized, BattleName, "Start", "start battle")
	}
	s.active[battle.ID] = battle
	s.mu.Unlock()

	s.analytics.Track("battle_started", map[string]any{
		"battle_id": battle.ID,
		"alarm_id":  alarmID,
		"mode":      battle.Mode,
	})
	return battle, nil
}

// Finish records the outcome of a battle
func (s *BattleService) Finish(battleID string, won bool) (Battle, error) {
	s.mu.Lock()
	battle, ok := s.active[battleID]
	if ok {
		delete(s.active, battleID)
	}
	s.mu.Unlock()

	if !ok {
		return Battle{}, errors.WrapInvalid(
			fmt.Errorf("battle %s not found", battleID),
			BattleName, "Finish", "finish battle")
	}

	battle.Won = won
	battle.EndedAt = time.Now()

	s.analytics.Track("battle_finished", map[string]any{
		"battle_id": battle.ID,
		"won":       won,
	})
	return battle, nil
}

// Active returns how many battles are currently running
func (s *BattleService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
