package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

// AlarmName is the registered name of the alarm service
const AlarmName = "alarm"

// Alarm is a scheduled wake-up
type Alarm struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	At        time.Time `json:"at"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// AlarmService owns alarm scheduling state. Alarms are persisted through
// the storage service and every mutation is tracked through analytics.
type AlarmService struct {
	*service.BaseService

	storage   *Storage
	analytics *Analytics

	mu     sync.RWMutex
	alarms map[string]Alarm
}

// NewAlarmService creates the alarm service
func NewAlarmService(storage *Storage, analytics *Analytics, opts ...service.Option) *AlarmService {
	s := &AlarmService{
		storage:   storage,
		analytics: analytics,
	}
	s.BaseService = service.New(AlarmName, s, opts...)
	return s
}

// DoInitialize loads persisted alarms back into memory
func (s *AlarmService) DoInitialize(_ context.Context) error {
	keys, err := s.storage.Keys("alarms/")
	if err != nil {
		return err
	}

	alarms := make(map[string]Alarm, len(keys))
	for _, key := range keys {
		raw, ok, err := s.storage.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		var alarm Alarm
		if err := json.Unmarshal(raw, &alarm); err != nil {
			return errors.WrapWithSeverity(errors.SeverityCritical, err, AlarmName, "DoInitialize", "decode persisted alarm "+key)
		}
		alarms[alarm.ID] = alarm
	}

	s.mu.Lock()
	s.alarms = alarms
	s.mu.Unlock()
	return nil
}

// DoCleanup drops the in-memory index; persisted alarms remain in storage
func (s *AlarmService) DoCleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms = nil
	return nil
}

// DefaultConfig returns the alarm baseline configuration
func (s *AlarmService) DefaultConfig() config.Service {
	return config.Service{
		Environment: config.EnvDevelopment,
		Enabled:     true,
		Options: map[string]any{
			"max_alarms": 64,
		},
	}
}

// Schedule creates and persists a new alarm
func (s *AlarmService) Schedule(label string, at time.Time) (Alarm, error) {
	alarm := Alarm{
		ID:        uuid.NewString(),
		Label:     label,
		At:        at,
		Enabled:   true,
		CreatedAt: time.Now(),
	}

	if err := s.persist(alarm); err != nil {
		return Alarm{}, err
	}

	s.mu.Lock()
	if s.alarms == nil {
		s.alarms = make(map[string]Alarm)
	}
	s.alarms[alarm.ID] = alarm
	s.mu.Unlock()

	s.analytics.Track("alarm_scheduled", map[string]any{
		"alarm_id": alarm.ID,
		"at":       at,
	})
	s.Emit("alarm:scheduled", map[string]any{"alarm_id": alarm.ID})
	return alarm, nil
}

// Cancel removes an alarm
func (s *AlarmService) Cancel(id string) error {
	s.mu.Lock()
	_, ok := s.alarms[id]
	if ok {
		delete(s.alarms, id)
	}
	s.mu.Unlock()

	if !ok {
		return errors.WrapInvalid(
			fmt.Errorf("alarm %s not found", id),
			AlarmName, "Cancel", "cancel alarm")
	}

	if err := s.storage.Delete("alarms/" + id); err != nil {
		return err
	}
	s.analytics.Track("alarm_cancelled", map[string]any{"alarm_id": id})
	return nil
}

// Get returns the alarm with the given id
func (s *AlarmService) Get(id string) (Alarm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alarm, ok := s.alarms[id]
	return alarm, ok
}

// List returns all scheduled alarms
func (s *AlarmService) List() []Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alarm, 0, len(s.alarms))
	for _, alarm := range s.alarms {
		out = append(out, alarm)
	}
	return out
}

func (s *AlarmService) persist(alarm Alarm) error {
	raw, err := json.Marshal(alarm)
	if err != nil {
		return errors.Wrap(err, AlarmName, "Schedule", "encode alarm")
	}
	return s.storage.Put("alarms/"+alarm.ID, raw)
}
