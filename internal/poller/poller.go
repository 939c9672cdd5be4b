// Package poller provides a background service that refreshes the
// conversation list over REST while the push channel is down.
package poller

import (
	"sync"
	"time"

	"github.com/andresFJ158/frontend-je-bot-crm/internal/logger"
	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

const (
	// DefaultIntervalSeconds is the default refresh interval
	DefaultIntervalSeconds = 30
)

// Config holds poller configuration
type Config struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"intervalSeconds"`
}

// DefaultConfig returns the default poller configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		IntervalSeconds: DefaultIntervalSeconds,
	}
}

// FetchFunc loads the current conversation list from the backend.
type FetchFunc func() ([]types.Conversation, error)

// ApplyFunc receives a freshly fetched conversation list.
type ApplyFunc func([]types.Conversation)

// GateFunc reports whether polling should be skipped right now. The
// dash gates on the push channel being connected, since live events
// make the poll redundant.
type GateFunc func() bool

// Service periodically refreshes conversations while the realtime
// channel is disconnected.
type Service struct {
	cfg      *Config
	fetch    FetchFunc
	apply    ApplyFunc
	skip     GateFunc
	log      *logger.Logger
	stopChan chan struct{}
	running  bool
	mu       sync.RWMutex
}

// New creates a new poller service
func New(cfg *Config, fetch FetchFunc, apply ApplyFunc) *Service {
	return &Service{
		cfg:   cfg,
		fetch: fetch,
		apply: apply,
		log:   logger.GetDefaultLogger().WithComponent("poller"),
	}
}

// SetGate sets the function that suppresses polling while live events flow.
func (s *Service) SetGate(gate GateFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skip = gate
}

// Start begins the refresh loop
func (s *Service) Start() {
	s.mu.Lock()
	if !s.cfg.Enabled {
		s.mu.Unlock()
		return
	}

	if s.running {
		s.mu.Unlock()
		return
	}

	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	interval := time.Duration(s.cfg.IntervalSeconds) * time.Second
	s.log.Info("🔄 Poller started (interval: %v)", interval)

	go s.loop(interval)
}

// Stop stops the poller
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	close(s.stopChan)
	s.log.Info("🔄 Poller stopped")
}

// IsRunning returns whether the service is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// loop is the main refresh loop
func (s *Service) loop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

// refresh fetches the conversation list and hands it to the apply callback
func (s *Service) refresh() {
	s.mu.RLock()
	fetch := s.fetch
	apply := s.apply
	skip := s.skip
	s.mu.RUnlock()

	if fetch == nil || apply == nil {
		return
	}

	if skip != nil && skip() {
		return
	}

	conversations, err := fetch()
	if err != nil {
		s.log.Warn("Refresh failed: %v", err)
		return
	}

	apply(conversations)
}

// ForceRefresh triggers an immediate refresh regardless of the gate's
// last verdict (the gate is still consulted).
func (s *Service) ForceRefresh() {
	s.refresh()
}
