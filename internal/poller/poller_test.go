package poller

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Enabled {
		t.Error("Expected enabled by default")
	}

	if cfg.IntervalSeconds != DefaultIntervalSeconds {
		t.Errorf("Expected default interval %d, got %d", DefaultIntervalSeconds, cfg.IntervalSeconds)
	}
}

func TestService_ForceRefresh(t *testing.T) {
	cfg := &Config{Enabled: true, IntervalSeconds: 60}

	fetched := []types.Conversation{{ID: "c1"}, {ID: "c2"}}

	var mu sync.Mutex
	var applied []types.Conversation
	svc := New(cfg,
		func() ([]types.Conversation, error) { return fetched, nil },
		func(convs []types.Conversation) {
			mu.Lock()
			applied = convs
			mu.Unlock()
		},
	)

	svc.ForceRefresh()

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 2 {
		t.Fatalf("Expected 2 conversations applied, got %d", len(applied))
	}
	if applied[0].ID != "c1" {
		t.Errorf("Unexpected conversation: %+v", applied[0])
	}
}

func TestService_GateSkipsRefresh(t *testing.T) {
	cfg := &Config{Enabled: true, IntervalSeconds: 60}

	fetchCalls := 0
	svc := New(cfg,
		func() ([]types.Conversation, error) {
			fetchCalls++
			return nil, nil
		},
		func([]types.Conversation) {},
	)
	svc.SetGate(func() bool { return true })

	svc.ForceRefresh()

	if fetchCalls != 0 {
		t.Errorf("Expected gate to skip fetch, got %d calls", fetchCalls)
	}

	svc.SetGate(func() bool { return false })
	svc.ForceRefresh()

	if fetchCalls != 1 {
		t.Errorf("Expected fetch after gate opened, got %d calls", fetchCalls)
	}
}

func TestService_FetchErrorDoesNotApply(t *testing.T) {
	cfg := &Config{Enabled: true, IntervalSeconds: 60}

	applyCalls := 0
	svc := New(cfg,
		func() ([]types.Conversation, error) { return nil, errors.New("backend down") },
		func([]types.Conversation) { applyCalls++ },
	)

	svc.ForceRefresh()

	if applyCalls != 0 {
		t.Errorf("Expected no apply after fetch error, got %d calls", applyCalls)
	}
}

func TestService_StartStop(t *testing.T) {
	cfg := &Config{Enabled: true, IntervalSeconds: 60}
	svc := New(cfg,
		func() ([]types.Conversation, error) { return nil, nil },
		func([]types.Conversation) {},
	)

	svc.Start()

	time.Sleep(50 * time.Millisecond)

	svc.Stop()

	if svc.IsRunning() {
		t.Error("Expected service to be stopped")
	}
}

func TestService_DisabledNoStart(t *testing.T) {
	cfg := &Config{Enabled: false, IntervalSeconds: 60}
	svc := New(cfg,
		func() ([]types.Conversation, error) { return nil, nil },
		func([]types.Conversation) {},
	)

	svc.Start()

	if svc.IsRunning() {
		t.Error("Service should not start when disabled")
	}
}

func TestService_StartTwiceIsNoOp(t *testing.T) {
	cfg := &Config{Enabled: true, IntervalSeconds: 60}
	svc := New(cfg,
		func() ([]types.Conversation, error) { return nil, nil },
		func([]types.Conversation) {},
	)

	svc.Start()
	svc.Start()

	if !svc.IsRunning() {
		t.Error("Expected service to be running")
	}

	svc.Stop()
	svc.Stop()

	if svc.IsRunning() {
		t.Error("Expected service to be stopped")
	}
}
