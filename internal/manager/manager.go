package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"synapd/internal/synap"
	"synapd/pkg/types"
)

type Manager struct {
	mu           sync.RWMutex
	state        State
	cur          *ModelInfo
	err          string
	registry     []types.Model
	defaultModel string
	cacheDir     string
	remote       synap.RemoteCache
	backend      BackendFactory
	// Multi-instance fields
	instances    map[string]*Instance
	maxInstances int
	loads        singleflight.Group
	loadsTotal   uint64
	opSeq        atomic.Uint64

	// Queue config
	maxQueueDepth int
	maxWait       time.Duration
	drainTimeout  time.Duration

	publisher EventPublisher
	log       zerolog.Logger
	startTime time.Time
}

// New builds a Manager with package defaults over a registry.
func New(reg []types.Model, cacheDir, defaultModel string) *Manager {
	// Delegate to NewWithConfig to centralize defaults and option parsing
	return NewWithConfig(ManagerConfig{
		Registry:     reg,
		CacheDir:     cacheDir,
		DefaultModel: defaultModel,
	})
}

// SetEventPublisher replaces the lifecycle event sink.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.mu.Lock()
	m.publisher = p
	m.mu.Unlock()
}

func (m *Manager) events() EventPublisher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.publisher
}

func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == StateError {
		return false
	}
	// Ready if any instance is ready
	for _, inst := range m.instances {
		if inst.State == StateReady {
			return true
		}
	}
	return false
}

func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// Close unloads every instance.
func (m *Manager) Close() error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.instances))
	for id, inst := range m.instances {
		if inst.State == StateLoading {
			// The load sees the removal and closes its own graph.
			delete(m.instances, id)
			continue
		}
		ids = append(ids, id)
	}
	instancesGauge.Set(float64(len(m.instances)))
	m.mu.Unlock()
	var firstErr error
	for _, id := range ids {
		if err := m.Unload(id); err != nil && !IsModelNotFound(err) && !IsTooBusy(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
