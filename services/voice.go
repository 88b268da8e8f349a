package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

// VoiceName is the registered name of the voice service
const VoiceName = "voice"

// VoiceService queues text for spoken playback. Actual audio output is a
// platform concern; this service owns the queue and the selected voice.
type VoiceService struct {
	*service.BaseService

	storage *Storage

	mu    sync.Mutex
	queue []string
}

// NewVoiceService creates the voice service
func NewVoiceService(storage *Storage, opts ...service.Option) *VoiceService {
	s := &VoiceService{storage: storage}
	s.BaseService = service.New(VoiceName, s, opts...)
	return s
}

// DoInitialize restores the selected voice preference
func (s *VoiceService) DoInitialize(_ context.Context) error {
	_, _, err := s.storage.Get("voice/selected")
	return err
}

// DoCleanup drops the pending queue
func (s *VoiceService) DoCleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	return nil
}

// DefaultConfig returns the voice baseline configuration
func (s *VoiceService) DefaultConfig() config.Service {
	return config.Service{
		Environment: config.EnvDevelopment,
		Enabled:     true,
		Options: map[string]any{
			"voice": "default",
			"rate":  1.0,
		},
	}
}

// Say queues text for playback
func (s *VoiceService) Say(text string) error {
	if text == "" {
		return errors.WrapInvalid(
			fmt.Errorf("empty utterance"),
			VoiceName, "Say", "queue utterance")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, text)
	return nil
}

// SelectVoice persists the preferred voice
func (s *VoiceService) SelectVoice(name string) error {
	if err := s.storage.Put("voice/selected", []byte(name)); err != nil {
		return err
	}
	s.Emit("voice:selected", map[string]any{"voice": name})
	return nil
}

// Pending returns how many utterances await playback
func (s *VoiceService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
